// Package payroll registra trabajadores y planillas. Una planilla registrada no se edita:
// la corrección es un registro nuevo que apunta al anterior.
package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	"github.com/jhoicas/cressendo-erp/internal/application/ports"
	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	dompayroll "github.com/jhoicas/cressendo-erp/internal/domain/payroll"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

// PayrollUseCase casos de uso de planilla.
type PayrollUseCase struct {
	employeeRepo    repository.EmployeeRepository
	payrollRepo     repository.PayrollRepository
	calc            *dompayroll.Calculator
	familyAllowance decimal.Decimal
	payslips        ports.PayslipGenerator
	log             zerolog.Logger
}

// NewPayrollUseCase construye el caso de uso. familyAllowance es el monto fijo de asignación
// familiar; payslips puede ser nil si no se generan boletas en PDF.
func NewPayrollUseCase(
	employeeRepo repository.EmployeeRepository,
	payrollRepo repository.PayrollRepository,
	calc *dompayroll.Calculator,
	familyAllowance decimal.Decimal,
	payslips ports.PayslipGenerator,
	log zerolog.Logger,
) *PayrollUseCase {
	return &PayrollUseCase{
		employeeRepo:    employeeRepo,
		payrollRepo:     payrollRepo,
		calc:            calc,
		familyAllowance: familyAllowance,
		payslips:        payslips,
		log:             log,
	}
}

// CreateEmployee registra un trabajador.
func (uc *PayrollUseCase) CreateEmployee(ctx context.Context, in dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	system := entity.PensionSystem(in.PensionSystem)
	if in.FullName == "" || in.DNI == "" {
		return nil, fmt.Errorf("%w: nombre y DNI son obligatorios", domain.ErrInvalidInput)
	}
	if !system.Valid() {
		return nil, fmt.Errorf("%w: sistema previsional %q", domain.ErrInvalidInput, in.PensionSystem)
	}
	if in.BaseSalary.IsNegative() {
		return nil, fmt.Errorf("%w: sueldo negativo", domain.ErrInvalidInput)
	}
	now := time.Now()
	e := &entity.Employee{
		ID:              uuid.New().String(),
		FullName:        in.FullName,
		DNI:             in.DNI,
		Role:            in.Role,
		StartDate:       in.StartDate,
		BaseSalary:      in.BaseSalary,
		FamilyAllowance: in.FamilyAllowance,
		PensionSystem:   system,
		CreatedAt:       now,
	}
	if e.StartDate.IsZero() {
		e.StartDate = now
	}
	if err := uc.employeeRepo.Create(ctx, e); err != nil {
		return nil, err
	}
	out := toEmployeeResponse(e)
	return &out, nil
}

// ListEmployees trabajadores ordenados por nombre.
func (uc *PayrollUseCase) ListEmployees(ctx context.Context) ([]dto.EmployeeResponse, error) {
	list, err := uc.employeeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEmployeeResponse(e))
	}
	return out, nil
}

// ProcessPayroll calcula y registra la planilla del periodo. Un neto negativo se rechaza con
// *domain.NegativeNetPayError salvo que el llamador lo acepte explícitamente.
func (uc *PayrollUseCase) ProcessPayroll(ctx context.Context, in dto.ProcessPayrollRequest) (*dto.PayrollRecordResponse, error) {
	if _, err := time.Parse("2006-01", in.Period); err != nil {
		return nil, fmt.Errorf("%w: periodo %q (se espera AAAA-MM)", domain.ErrInvalidInput, in.Period)
	}
	e, err := uc.employeeRepo.GetByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.checkCorrection(ctx, in); err != nil {
		return nil, err
	}

	allowance := decimal.Zero
	if e.FamilyAllowance {
		allowance = uc.familyAllowance
	}
	res, err := uc.calc.Compute(dompayroll.Input{
		BaseSalary:      e.BaseSalary,
		FamilyAllowance: allowance,
		Bonuses:         in.Bonuses,
		Deductions:      in.Deductions,
		PensionSystem:   e.PensionSystem,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNegativeNetPay) {
			return nil, err
		}
		if !in.AcceptNegative {
			return nil, &domain.NegativeNetPayError{EmployeeID: e.ID, Period: in.Period, NetPay: res.NetPay}
		}
		uc.log.Warn().
			Str("employee_id", e.ID).
			Str("period", in.Period).
			Str("net_pay", res.NetPay.String()).
			Msg("planilla con neto negativo registrada")
	}

	rec := &entity.PayrollRecord{
		ID:                   uuid.New().String(),
		EmployeeID:           e.ID,
		Period:               in.Period,
		BaseSalary:           e.BaseSalary,
		FamilyAllowance:      allowance,
		Bonuses:              in.Bonuses,
		GrossIncome:          res.GrossIncome,
		PensionSystem:        e.PensionSystem,
		StatutoryDeductions:  res.StatutoryTotal,
		Deductions:           res.Deductions,
		NetPay:               res.NetPay,
		EmployerContribution: res.EmployerContribution,
		Withholdings:         res.Withholdings,
		CorrectsID:           in.CorrectsID,
		ProcessedAt:          time.Now(),
	}
	if err := uc.payrollRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	out := toRecordResponse(rec)
	return &out, nil
}

// checkCorrection sin CorrectsID solo se admite una planilla por trabajador y periodo;
// con CorrectsID el registro corregido debe ser del mismo trabajador y periodo.
func (uc *PayrollUseCase) checkCorrection(ctx context.Context, in dto.ProcessPayrollRequest) error {
	if in.CorrectsID == "" {
		existing, err := uc.payrollRepo.ListByEmployee(ctx, in.EmployeeID)
		if err != nil {
			return err
		}
		for _, r := range existing {
			if r.Period == in.Period {
				return fmt.Errorf("%w: ya existe planilla %s para %s; registre una corrección", domain.ErrDuplicate, r.ID, in.Period)
			}
		}
		return nil
	}
	orig, err := uc.payrollRepo.GetByID(ctx, in.CorrectsID)
	if err != nil {
		return err
	}
	if orig == nil {
		return fmt.Errorf("%w: planilla %s", domain.ErrNotFound, in.CorrectsID)
	}
	if orig.EmployeeID != in.EmployeeID || orig.Period != in.Period {
		return fmt.Errorf("%w: la corrección debe ser del mismo trabajador y periodo", domain.ErrInvalidInput)
	}
	return nil
}

// ListByPeriod planillas registradas en el periodo.
func (uc *PayrollUseCase) ListByPeriod(ctx context.Context, period string) ([]dto.PayrollRecordResponse, error) {
	list, err := uc.payrollRepo.ListByPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PayrollRecordResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toRecordResponse(r))
	}
	return out, nil
}

// History planillas del trabajador, incluidas las corregidas.
func (uc *PayrollUseCase) History(ctx context.Context, employeeID string) ([]dto.PayrollRecordResponse, error) {
	list, err := uc.payrollRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PayrollRecordResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toRecordResponse(r))
	}
	return out, nil
}

// storedWithholdings detalle guardado con el registro. Un registro sin detalle muestra el total
// retenido en una sola línea; nunca se recalcula con las tasas actuales.
func storedWithholdings(rec *entity.PayrollRecord) []dompayroll.Withholding {
	if len(rec.Withholdings) > 0 || rec.StatutoryDeductions.IsZero() {
		return rec.Withholdings
	}
	return []dompayroll.Withholding{{Concept: "Aportes retenidos", Amount: rec.StatutoryDeductions}}
}

// GeneratePayslip boleta de pago en PDF de un registro, con los aportes tal como se registraron.
func (uc *PayrollUseCase) GeneratePayslip(ctx context.Context, recordID string) ([]byte, error) {
	if uc.payslips == nil {
		return nil, fmt.Errorf("%w: generador de boletas no configurado", domain.ErrInvalidInput)
	}
	rec, err := uc.payrollRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	e, err := uc.employeeRepo.GetByID(ctx, rec.EmployeeID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return uc.payslips.Generate(ctx, e, rec, storedWithholdings(rec))
}

func toEmployeeResponse(e *entity.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:              e.ID,
		FullName:        e.FullName,
		DNI:             e.DNI,
		Role:            e.Role,
		StartDate:       e.StartDate,
		BaseSalary:      e.BaseSalary,
		FamilyAllowance: e.FamilyAllowance,
		PensionSystem:   string(e.PensionSystem),
	}
}

func toRecordResponse(r *entity.PayrollRecord) dto.PayrollRecordResponse {
	out := dto.PayrollRecordResponse{
		ID:                   r.ID,
		EmployeeID:           r.EmployeeID,
		Period:               r.Period,
		BaseSalary:           r.BaseSalary,
		FamilyAllowance:      r.FamilyAllowance,
		Bonuses:              r.Bonuses,
		GrossIncome:          r.GrossIncome,
		PensionSystem:        string(r.PensionSystem),
		StatutoryDeductions:  r.StatutoryDeductions,
		Deductions:           r.Deductions,
		NetPay:               r.NetPay,
		EmployerContribution: r.EmployerContribution,
		CorrectsID:           r.CorrectsID,
		ProcessedAt:          r.ProcessedAt,
	}
	for _, w := range r.Withholdings {
		out.Withholdings = append(out.Withholdings, dto.WithholdingResponse{Concept: w.Concept, Rate: w.Rate, Amount: w.Amount})
	}
	return out
}
