// Package tax descompone importes con IGV incluido y agrega los registros del periodo
// (ventas y compras) sobre intervalos semiabiertos [inicio, fin).
package tax

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Decompose separa un bruto con IGV incluido: base = bruto / (1 + tasa), igv = bruto − base.
// base + igv == bruto siempre.
func Decompose(gross, rate decimal.Decimal) (base, vat decimal.Decimal, err error) {
	if rate.LessThanOrEqual(one.Neg()) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrInvalidRate, rate)
	}
	base = gross.Div(one.Add(rate))
	vat = gross.Sub(base)
	return base, vat, nil
}

// Entry documento de venta confirmado, en la forma que consume el registro.
type Entry struct {
	ID           string
	Date         time.Time
	DocumentType entity.DocumentType
	Customer     string
	Total        decimal.Decimal
}

// RegisterLine línea del registro de ventas (PLE).
type RegisterLine struct {
	EntryID      string
	Date         time.Time
	DocumentType entity.DocumentType
	Customer     string
	Total        decimal.Decimal
	Base         decimal.Decimal
	VAT          decimal.Decimal
	Taxable      bool
}

// PeriodTotals agregados del periodo.
//
// CashFlowTotal incluye todo documento confirmado; TaxableTotal solo boletas y facturas.
type PeriodTotals struct {
	Start            time.Time
	End              time.Time
	CashFlowTotal    decimal.Decimal
	TaxableTotal     decimal.Decimal
	TaxableBase      decimal.Decimal
	VAT              decimal.Decimal
	IncomeTax        decimal.Decimal
	Documents        int
	TaxableDocuments int
	Lines            []RegisterLine
}

// Engine aplica las tasas configuradas de IGV y renta.
type Engine struct {
	VATRate       decimal.Decimal
	IncomeTaxRate decimal.Decimal
}

// NewEngine valida las tasas y construye el motor.
func NewEngine(vatRate, incomeTaxRate decimal.Decimal) (*Engine, error) {
	if vatRate.IsNegative() || incomeTaxRate.IsNegative() {
		return nil, fmt.Errorf("%w: igv=%s renta=%s", domain.ErrInvalidRate, vatRate, incomeTaxRate)
	}
	return &Engine{VATRate: vatRate, IncomeTaxRate: incomeTaxRate}, nil
}

// InPeriod indica si t cae en [start, end).
func InPeriod(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// AggregatePeriod calcula los totales del periodo. Las entradas fuera de [start, end) se ignoran.
// La renta se calcula sobre la base imponible (ventas sin IGV).
func (e *Engine) AggregatePeriod(entries []Entry, start, end time.Time) (*PeriodTotals, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: periodo vacío %s..%s", domain.ErrInvalidInput,
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	in := make([]Entry, 0, len(entries))
	for _, en := range entries {
		if InPeriod(en.Date, start, end) {
			in = append(in, en)
		}
	}
	sort.SliceStable(in, func(i, j int) bool {
		if in[i].Date.Equal(in[j].Date) {
			return in[i].ID < in[j].ID
		}
		return in[i].Date.Before(in[j].Date)
	})

	t := &PeriodTotals{Start: start, End: end, Lines: make([]RegisterLine, 0, len(in))}
	for _, en := range in {
		line := RegisterLine{
			EntryID:      en.ID,
			Date:         en.Date,
			DocumentType: en.DocumentType,
			Customer:     en.Customer,
			Total:        en.Total,
			Taxable:      en.DocumentType.TaxRelevant(),
		}
		t.CashFlowTotal = t.CashFlowTotal.Add(en.Total)
		t.Documents++
		if line.Taxable {
			base, vat, err := Decompose(en.Total, e.VATRate)
			if err != nil {
				return nil, err
			}
			line.Base, line.VAT = base, vat
			t.TaxableTotal = t.TaxableTotal.Add(en.Total)
			t.TaxableBase = t.TaxableBase.Add(base)
			t.VAT = t.VAT.Add(vat)
			t.TaxableDocuments++
		}
		t.Lines = append(t.Lines, line)
	}
	t.IncomeTax = t.TaxableBase.Mul(e.IncomeTaxRate)
	return t, nil
}

// PurchaseTotals agregados del registro de compras.
type PurchaseTotals struct {
	Start     time.Time
	End       time.Time
	Base      decimal.Decimal
	VAT       decimal.Decimal // crédito fiscal
	Total     decimal.Decimal
	Documents int
	Invoices  []*entity.PurchaseInvoice
}

// SummarizePurchases suma las facturas de compra de [start, end).
func SummarizePurchases(invoices []*entity.PurchaseInvoice, start, end time.Time) *PurchaseTotals {
	t := &PurchaseTotals{Start: start, End: end}
	for _, inv := range invoices {
		if inv == nil || !InPeriod(inv.Date, start, end) {
			continue
		}
		t.Base = t.Base.Add(inv.BaseAmount)
		t.VAT = t.VAT.Add(inv.IGVAmount)
		t.Total = t.Total.Add(inv.TotalAmount)
		t.Documents++
		t.Invoices = append(t.Invoices, inv)
	}
	return t
}

// MonthBounds devuelve [primer día del mes, primer día del mes siguiente) para un periodo "2006-01".
func MonthBounds(period string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation("2006-01", period, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: periodo %q", domain.ErrInvalidInput, period)
	}
	return start, start.AddDate(0, 1, 0), nil
}
