package repository

import (
	"context"

	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
)

// EmployeeRepository puerto de persistencia de trabajadores.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	List(ctx context.Context) ([]*entity.Employee, error)
}

// PayrollRepository puerto de la planilla. Solo inserción: los registros son inmutables.
type PayrollRepository interface {
	Create(ctx context.Context, record *entity.PayrollRecord) error
	GetByID(ctx context.Context, id string) (*entity.PayrollRecord, error)
	ListByPeriod(ctx context.Context, period string) ([]*entity.PayrollRecord, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*entity.PayrollRecord, error)
}
