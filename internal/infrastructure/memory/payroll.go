package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

var (
	_ repository.EmployeeRepository = (*EmployeeRepository)(nil)
	_ repository.PayrollRepository  = (*PayrollRepository)(nil)
)

// EmployeeRepository trabajadores en memoria.
type EmployeeRepository struct{ v view }

func (r *EmployeeRepository) Create(ctx context.Context, e *entity.Employee) error {
	return r.v.with(func(st *state) error {
		for _, other := range st.employees {
			if other.ID == e.ID || (e.DNI != "" && other.DNI == e.DNI) {
				return fmt.Errorf("%w: trabajador %s", domain.ErrDuplicate, e.DNI)
			}
		}
		st.employees[e.ID] = *e
		return nil
	})
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	var out *entity.Employee
	err := r.v.with(func(st *state) error {
		if e, ok := st.employees[id]; ok {
			out = &e
		}
		return nil
	})
	return out, err
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*entity.Employee, error) {
	var out []*entity.Employee
	err := r.v.with(func(st *state) error {
		for _, e := range st.employees {
			e := e
			out = append(out, &e)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
		return nil
	})
	return out, err
}

// PayrollRepository planillas en memoria; no hay actualización.
type PayrollRepository struct{ v view }

func (r *PayrollRepository) Create(ctx context.Context, rec *entity.PayrollRecord) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.payroll[rec.ID]; ok {
			return fmt.Errorf("%w: planilla %s", domain.ErrDuplicate, rec.ID)
		}
		// un solo registro original por trabajador y periodo; las correcciones no cuentan
		if rec.CorrectsID == "" {
			for _, other := range st.payroll {
				if other.CorrectsID == "" && other.EmployeeID == rec.EmployeeID && other.Period == rec.Period {
					return fmt.Errorf("%w: planilla %s %s", domain.ErrDuplicate, rec.EmployeeID, rec.Period)
				}
			}
		}
		st.payroll[rec.ID] = *rec.Clone()
		return nil
	})
}

func (r *PayrollRepository) GetByID(ctx context.Context, id string) (*entity.PayrollRecord, error) {
	var out *entity.PayrollRecord
	err := r.v.with(func(st *state) error {
		if rec, ok := st.payroll[id]; ok {
			out = rec.Clone()
		}
		return nil
	})
	return out, err
}

func (r *PayrollRepository) ListByPeriod(ctx context.Context, period string) ([]*entity.PayrollRecord, error) {
	return r.filter(func(rec entity.PayrollRecord) bool { return rec.Period == period })
}

func (r *PayrollRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*entity.PayrollRecord, error) {
	return r.filter(func(rec entity.PayrollRecord) bool { return rec.EmployeeID == employeeID })
}

func (r *PayrollRepository) filter(keep func(entity.PayrollRecord) bool) ([]*entity.PayrollRecord, error) {
	var out []*entity.PayrollRecord
	err := r.v.with(func(st *state) error {
		for _, rec := range st.payroll {
			if keep(rec) {
				out = append(out, rec.Clone())
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ProcessedAt.Before(out[j].ProcessedAt) })
		return nil
	})
	return out, err
}
