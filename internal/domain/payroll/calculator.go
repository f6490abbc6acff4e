// Package payroll calcula la boleta de pago: ingreso bruto, aportes previsionales, descuentos y neto.
//
// Las tasas previsionales son regulatorias y cambian sin relación con esta lógica, por eso
// se inyectan como DeductionSchedule.
package payroll

import (
	"fmt"
	"sort"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Compute neto = básico + bonificaciones − descuentos. Un neto negativo se devuelve junto con
// ErrNegativeNetPay; nunca se recorta a cero.
func Compute(baseSalary, bonuses, deductions decimal.Decimal) (decimal.Decimal, error) {
	net := baseSalary.Add(bonuses).Sub(deductions)
	if net.IsNegative() {
		return net, domain.ErrNegativeNetPay
	}
	return net, nil
}

// Withholding aporte retenido al trabajador.
type Withholding = entity.PayrollWithholding

// DeductionSchedule esquema de retenciones por sistema previsional.
type DeductionSchedule interface {
	Withholdings(system entity.PensionSystem, gross decimal.Decimal) ([]Withholding, error)
}

// NoSchedule esquema vacío: sin retenciones.
type NoSchedule struct{}

func (NoSchedule) Withholdings(entity.PensionSystem, decimal.Decimal) ([]Withholding, error) {
	return nil, nil
}

// RateSchedule esquema porcentual: una tasa por sistema previsional y, opcionalmente,
// conceptos adicionales que aplican a todos los sistemas.
type RateSchedule struct {
	Pension map[entity.PensionSystem]decimal.Decimal
	Extra   map[string]decimal.Decimal
}

// Withholdings devuelve los aportes sobre el bruto. Un sistema sin tasa configurada es un error.
func (s RateSchedule) Withholdings(system entity.PensionSystem, gross decimal.Decimal) ([]Withholding, error) {
	rate, ok := s.Pension[system]
	if !ok {
		return nil, fmt.Errorf("%w: sin tasa para el sistema %q", domain.ErrInvalidRate, system)
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("%w: %s=%s", domain.ErrInvalidRate, system, rate)
	}
	out := []Withholding{{Concept: string(system), Rate: rate, Amount: gross.Mul(rate)}}

	concepts := make([]string, 0, len(s.Extra))
	for c := range s.Extra {
		concepts = append(concepts, c)
	}
	sort.Strings(concepts)
	for _, c := range concepts {
		out = append(out, Withholding{Concept: c, Rate: s.Extra[c], Amount: gross.Mul(s.Extra[c])})
	}
	return out, nil
}

// Input datos del periodo para un trabajador.
type Input struct {
	BaseSalary      decimal.Decimal
	FamilyAllowance decimal.Decimal
	Bonuses         decimal.Decimal
	Deductions      decimal.Decimal
	PensionSystem   entity.PensionSystem
}

// Result boleta calculada.
type Result struct {
	GrossIncome          decimal.Decimal
	Withholdings         []Withholding
	StatutoryTotal       decimal.Decimal
	Deductions           decimal.Decimal
	NetPay               decimal.Decimal
	EmployerContribution decimal.Decimal
}

// Calculator aplica el esquema de retenciones y la tasa de aporte del empleador (EsSalud).
type Calculator struct {
	schedule     DeductionSchedule
	employerRate decimal.Decimal
}

// NewCalculator construye el calculador; un esquema nil equivale a NoSchedule.
func NewCalculator(schedule DeductionSchedule, employerRate decimal.Decimal) *Calculator {
	if schedule == nil {
		schedule = NoSchedule{}
	}
	return &Calculator{schedule: schedule, employerRate: employerRate}
}

// Compute calcula la boleta. Si el neto es negativo devuelve el resultado completo y ErrNegativeNetPay
// para que el llamador decida si lo registra.
func (c *Calculator) Compute(in Input) (*Result, error) {
	if in.BaseSalary.IsNegative() || in.Bonuses.IsNegative() || in.Deductions.IsNegative() || in.FamilyAllowance.IsNegative() {
		return nil, fmt.Errorf("%w: montos de planilla negativos", domain.ErrInvalidInput)
	}
	gross := in.BaseSalary.Add(in.FamilyAllowance).Add(in.Bonuses)

	wh, err := c.schedule.Withholdings(in.PensionSystem, gross)
	if err != nil {
		return nil, err
	}
	statutory := decimal.Zero
	for _, w := range wh {
		statutory = statutory.Add(w.Amount)
	}

	res := &Result{
		GrossIncome:          gross,
		Withholdings:         wh,
		StatutoryTotal:       statutory,
		Deductions:           in.Deductions,
		EmployerContribution: gross.Mul(c.employerRate),
	}
	net, err := Compute(gross, decimal.Zero, statutory.Add(in.Deductions))
	res.NetPay = net
	return res, err
}
