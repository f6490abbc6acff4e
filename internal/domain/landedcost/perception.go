package landedcost

import (
	"fmt"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PerceptionTier régimen de percepción del importador; lo indica el llamador, no se infiere.
type PerceptionTier string

const (
	PerceptionFirstImport PerceptionTier = "FIRST_IMPORT"
	PerceptionFrequent    PerceptionTier = "FREQUENT"
	PerceptionOther       PerceptionTier = "OTHER"
)

// PerceptionRates tasas por régimen.
type PerceptionRates map[PerceptionTier]decimal.Decimal

// DefaultPerceptionRates tasas vigentes: 10% primera importación, 3.5% frecuente, 5% otros.
func DefaultPerceptionRates() PerceptionRates {
	return PerceptionRates{
		PerceptionFirstImport: decimal.RequireFromString("0.10"),
		PerceptionFrequent:    decimal.RequireFromString("0.035"),
		PerceptionOther:       decimal.RequireFromString("0.05"),
	}
}

// Summary estimado tributario de la importación completa (moneda extranjera; *Home en moneda local).
type Summary struct {
	TotalFOB       decimal.Decimal
	TotalFreight   decimal.Decimal
	TotalInsurance decimal.Decimal
	TotalCIF       decimal.Decimal
	TotalDuty      decimal.Decimal
	IGVBase        decimal.Decimal
	IGV            decimal.Decimal
	PerceptionTier PerceptionTier
	PerceptionRate decimal.Decimal
	Perception     decimal.Decimal
	PerceptionHome decimal.Decimal
}

// Result prorrateo por línea más el resumen.
type Result struct {
	ImportID string
	Lines    []LineItemCost
	Summary  Summary
}

// Allocator calcula el costeo completo con IGV y percepción.
type Allocator struct {
	vatRate decimal.Decimal
	rates   PerceptionRates
}

// NewAllocator construye el servicio con la tasa de IGV y las tasas de percepción.
func NewAllocator(vatRate decimal.Decimal, rates PerceptionRates) *Allocator {
	if rates == nil {
		rates = DefaultPerceptionRates()
	}
	return &Allocator{vatRate: vatRate, rates: rates}
}

// Cost prorratea y calcula: igv_base = ΣCIF + Σad valorem; igv = base × tasa;
// percepción = (igv_base + igv) × tasa del régimen.
func (a *Allocator) Cost(imp *entity.ImportShipment, tier PerceptionTier) (*Result, error) {
	rate, ok := a.rates[tier]
	if !ok {
		return nil, fmt.Errorf("%w: régimen de percepción %q", domain.ErrInvalidInput, tier)
	}
	lines, err := Allocate(imp)
	if err != nil {
		return nil, err
	}

	s := Summary{PerceptionTier: tier, PerceptionRate: rate}
	for _, l := range lines {
		s.TotalFOB = s.TotalFOB.Add(l.FOBTotal)
		s.TotalFreight = s.TotalFreight.Add(l.Freight)
		s.TotalInsurance = s.TotalInsurance.Add(l.Insurance)
		s.TotalCIF = s.TotalCIF.Add(l.CIF)
		s.TotalDuty = s.TotalDuty.Add(l.Duty)
	}
	s.IGVBase = s.TotalCIF.Add(s.TotalDuty)
	s.IGV = s.IGVBase.Mul(a.vatRate)
	s.Perception = s.IGVBase.Add(s.IGV).Mul(rate)
	s.PerceptionHome = s.Perception.Mul(imp.FXRate)

	return &Result{ImportID: imp.ID, Lines: lines, Summary: s}, nil
}
