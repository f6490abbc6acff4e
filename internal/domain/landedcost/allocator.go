// Package landedcost prorratea los costos compartidos de una importación (flete, seguro)
// entre sus líneas y deriva el costo unitario puesto en almacén en ambas monedas.
//
// El prorrateo es una función pura del estado actual de la importación: se recalcula
// completo cada vez, nunca se acumula.
package landedcost

import (
	"fmt"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LineItemCost resultado del prorrateo de una línea (moneda extranjera salvo LandedUnitHome).
type LineItemCost struct {
	ItemID            string
	Description       string
	ProductID         string
	Quantity          decimal.Decimal
	FOBUnit           decimal.Decimal
	FOBTotal          decimal.Decimal
	Factor            decimal.Decimal
	Freight           decimal.Decimal
	Insurance         decimal.Decimal
	Duty              decimal.Decimal // ad valorem sobre el FOB de la línea
	CIF               decimal.Decimal
	LandedUnitForeign decimal.Decimal
	LandedUnitHome    decimal.Decimal
}

// Allocate prorratea flete y seguro por factor FOB. Las líneas salen alineadas 1:1 con imp.Items.
//
// La suma de lo asignado coincide exactamente con el total compartido: la línea de mayor FOB
// absorbe el residuo de redondeo de la división.
func Allocate(imp *entity.ImportShipment) ([]LineItemCost, error) {
	if imp == nil {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]LineItemCost, len(imp.Items))
	totalFOB := decimal.Zero
	for i, it := range imp.Items {
		if !it.Quantity.IsPositive() || it.FOBUnit.IsNegative() {
			return nil, fmt.Errorf("%w: importación %s línea %q: cantidad %s, FOB %s",
				domain.ErrInvalidInput, imp.ID, it.Description, it.Quantity, it.FOBUnit)
		}
		fob := it.Quantity.Mul(it.FOBUnit)
		lines[i] = LineItemCost{
			ItemID:      it.ID,
			Description: it.Description,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			FOBUnit:     it.FOBUnit,
			FOBTotal:    fob,
		}
		totalFOB = totalFOB.Add(fob)
	}
	if !totalFOB.IsPositive() {
		return nil, fmt.Errorf("%w: importación %s (%s)", domain.ErrZeroBasisAllocation, imp.ID, imp.CustomsRef)
	}

	largest := 0
	for i := range lines {
		lines[i].Factor = lines[i].FOBTotal.Div(totalFOB)
		lines[i].Freight = lines[i].Factor.Mul(imp.Freight)
		lines[i].Insurance = lines[i].Factor.Mul(imp.Insurance)
		if lines[i].FOBTotal.GreaterThan(lines[largest].FOBTotal) {
			largest = i
		}
	}
	absorbResidual(lines, largest, imp.Freight, imp.Insurance)

	for i := range lines {
		l := &lines[i]
		l.Duty = l.FOBTotal.Mul(imp.AdValoremRate)
		l.CIF = l.FOBTotal.Add(l.Freight).Add(l.Insurance)
		l.LandedUnitForeign = l.CIF.Add(l.Duty).Div(l.Quantity)
		l.LandedUnitHome = l.LandedUnitForeign.Mul(imp.FXRate)
	}
	return lines, nil
}

func absorbResidual(lines []LineItemCost, target int, freight, insurance decimal.Decimal) {
	sumF, sumI := decimal.Zero, decimal.Zero
	for _, l := range lines {
		sumF = sumF.Add(l.Freight)
		sumI = sumI.Add(l.Insurance)
	}
	lines[target].Freight = lines[target].Freight.Add(freight.Sub(sumF))
	lines[target].Insurance = lines[target].Insurance.Add(insurance.Sub(sumI))
}
