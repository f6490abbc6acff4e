package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

var (
	_ repository.EmployeeRepository = (*EmployeeRepo)(nil)
	_ repository.PayrollRepository  = (*PayrollRepo)(nil)
)

const employeeColumns = `id, full_name, dni, role, start_date, base_salary, family_allowance, pension_system, created_at`

// EmployeeRepo trabajadores sobre PostgreSQL.
type EmployeeRepo struct {
	q Querier
}

// NewEmployeeRepository construye el adaptador.
func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{q: q}
}

// Create persiste un trabajador. El DNI es único.
func (r *EmployeeRepo) Create(ctx context.Context, e *entity.Employee) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.FullName, e.DNI, e.Role, e.StartDate, e.BaseSalary, e.FamilyAllowance, string(e.PensionSystem), e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: dni %s", domain.ErrDuplicate, e.DNI)
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func scanEmployee(row pgx.Row) (*entity.Employee, error) {
	var e entity.Employee
	var pension string
	if err := row.Scan(&e.ID, &e.FullName, &e.DNI, &e.Role, &e.StartDate, &e.BaseSalary,
		&e.FamilyAllowance, &pension, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.PensionSystem = entity.PensionSystem(pension)
	return &e, nil
}

// GetByID obtiene un trabajador.
func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	e, err := scanEmployee(r.q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

// List trabajadores por nombre.
func (r *EmployeeRepo) List(ctx context.Context) ([]*entity.Employee, error) {
	rows, err := r.q.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY full_name, id`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()
	var list []*entity.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

const payrollColumns = `id, employee_id, period, base_salary, family_allowance, bonuses, gross_income, pension_system,
	statutory_deductions, deductions, net_pay, employer_contribution, withholdings, COALESCE(corrects_id, ''), processed_at`

// PayrollRepo planilla sobre PostgreSQL. Solo inserción.
type PayrollRepo struct {
	q Querier
}

// NewPayrollRepository construye el adaptador.
func NewPayrollRepository(q Querier) *PayrollRepo {
	return &PayrollRepo{q: q}
}

// Create inserta un registro de planilla. Un segundo registro original para el mismo periodo viola el índice único.
func (r *PayrollRepo) Create(ctx context.Context, p *entity.PayrollRecord) error {
	wh, err := withholdingsJSON(p.Withholdings)
	if err != nil {
		return fmt.Errorf("marshal withholdings: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO payroll_records (id, employee_id, period, base_salary, family_allowance, bonuses, gross_income,
			pension_system, statutory_deductions, deductions, net_pay, employer_contribution, withholdings,
			corrects_id, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		p.ID, p.EmployeeID, p.Period, p.BaseSalary, p.FamilyAllowance, p.Bonuses, p.GrossIncome,
		string(p.PensionSystem), p.StatutoryDeductions, p.Deductions, p.NetPay, p.EmployerContribution,
		wh, nullString(p.CorrectsID), p.ProcessedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: planilla %s %s", domain.ErrDuplicate, p.EmployeeID, p.Period)
		}
		return fmt.Errorf("insert payroll record: %w", err)
	}
	return nil
}

// withholdingsJSON serializa el detalle de aportes; nunca envía null, la columna guarda un arreglo.
func withholdingsJSON(wh []entity.PayrollWithholding) ([]byte, error) {
	if wh == nil {
		wh = []entity.PayrollWithholding{}
	}
	return json.Marshal(wh)
}

func scanPayroll(row pgx.Row) (*entity.PayrollRecord, error) {
	var p entity.PayrollRecord
	var pension string
	if err := row.Scan(&p.ID, &p.EmployeeID, &p.Period, &p.BaseSalary, &p.FamilyAllowance, &p.Bonuses, &p.GrossIncome,
		&pension, &p.StatutoryDeductions, &p.Deductions, &p.NetPay, &p.EmployerContribution, &p.Withholdings,
		&p.CorrectsID, &p.ProcessedAt); err != nil {
		return nil, err
	}
	p.PensionSystem = entity.PensionSystem(pension)
	return &p, nil
}

// GetByID obtiene un registro de planilla.
func (r *PayrollRepo) GetByID(ctx context.Context, id string) (*entity.PayrollRecord, error) {
	p, err := scanPayroll(r.q.QueryRow(ctx, `SELECT `+payrollColumns+` FROM payroll_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payroll record: %w", err)
	}
	return p, nil
}

func (r *PayrollRepo) list(ctx context.Context, where string, arg any) ([]*entity.PayrollRecord, error) {
	rows, err := r.q.Query(ctx, `SELECT `+payrollColumns+` FROM payroll_records WHERE `+where+` ORDER BY processed_at, id`, arg)
	if err != nil {
		return nil, fmt.Errorf("list payroll records: %w", err)
	}
	defer rows.Close()
	var list []*entity.PayrollRecord
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payroll record: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListByPeriod registros de un periodo (YYYY-MM).
func (r *PayrollRepo) ListByPeriod(ctx context.Context, period string) ([]*entity.PayrollRecord, error) {
	return r.list(ctx, `period = $1`, period)
}

// ListByEmployee historial de un trabajador.
func (r *PayrollRepo) ListByEmployee(ctx context.Context, employeeID string) ([]*entity.PayrollRecord, error) {
	return r.list(ctx, `employee_id = $1`, employeeID)
}
