package ports

//go:generate mockgen -source=documents.go -destination=mocks/documents_mock.go -package=mocks

import (
	"context"

	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/payroll"
	"github.com/jhoicas/cressendo-erp/internal/domain/tax"
)

// PayslipGenerator genera la boleta de pago en PDF.
type PayslipGenerator interface {
	Generate(ctx context.Context, employee *entity.Employee, record *entity.PayrollRecord, withholdings []payroll.Withholding) ([]byte, error)
}

// RegisterExporter exporta el registro de ventas del periodo (PLE) a hoja de cálculo.
type RegisterExporter interface {
	ExportSalesRegister(ctx context.Context, totals *tax.PeriodTotals) ([]byte, error)
}
