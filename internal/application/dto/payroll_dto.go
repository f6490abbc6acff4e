package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateEmployeeRequest alta de trabajador.
type CreateEmployeeRequest struct {
	FullName        string          `json:"full_name" validate:"required"`
	DNI             string          `json:"dni" validate:"required"`
	Role            string          `json:"role"`
	StartDate       time.Time       `json:"start_date"`
	BaseSalary      decimal.Decimal `json:"base_salary"`
	FamilyAllowance bool            `json:"family_allowance"`
	PensionSystem   string          `json:"pension_system" validate:"required"`
}

// EmployeeResponse trabajador.
type EmployeeResponse struct {
	ID              string          `json:"id"`
	FullName        string          `json:"full_name"`
	DNI             string          `json:"dni"`
	Role            string          `json:"role"`
	StartDate       time.Time       `json:"start_date"`
	BaseSalary      decimal.Decimal `json:"base_salary"`
	FamilyAllowance bool            `json:"family_allowance"`
	PensionSystem   string          `json:"pension_system"`
}

// ProcessPayrollRequest planilla de un trabajador para un periodo YYYY-MM.
// CorrectsID apunta al registro que se corrige; el original no se modifica.
type ProcessPayrollRequest struct {
	EmployeeID     string          `json:"employee_id" validate:"required"`
	Period         string          `json:"period" validate:"required"`
	Bonuses        decimal.Decimal `json:"bonuses"`
	Deductions     decimal.Decimal `json:"deductions"`
	CorrectsID     string          `json:"corrects_id,omitempty"`
	AcceptNegative bool            `json:"accept_negative"`
}

// WithholdingResponse aporte retenido.
type WithholdingResponse struct {
	Concept string          `json:"concept"`
	Rate    decimal.Decimal `json:"rate"`
	Amount  decimal.Decimal `json:"amount"`
}

// PayrollRecordResponse boleta registrada.
type PayrollRecordResponse struct {
	ID                   string                `json:"id"`
	EmployeeID           string                `json:"employee_id"`
	Period               string                `json:"period"`
	BaseSalary           decimal.Decimal       `json:"base_salary"`
	FamilyAllowance      decimal.Decimal       `json:"family_allowance"`
	Bonuses              decimal.Decimal       `json:"bonuses"`
	GrossIncome          decimal.Decimal       `json:"gross_income"`
	PensionSystem        string                `json:"pension_system"`
	Withholdings         []WithholdingResponse `json:"withholdings,omitempty"`
	StatutoryDeductions  decimal.Decimal       `json:"statutory_deductions"`
	Deductions           decimal.Decimal       `json:"deductions"`
	NetPay               decimal.Decimal       `json:"net_pay"`
	EmployerContribution decimal.Decimal       `json:"employer_contribution"`
	CorrectsID           string                `json:"corrects_id,omitempty"`
	ProcessedAt          time.Time             `json:"processed_at"`
}
