package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
)

// PurchaseRepository puerto del registro de compras.
type PurchaseRepository interface {
	Create(ctx context.Context, invoice *entity.PurchaseInvoice) error
	// ListBetween comprobantes con fecha en [start, end).
	ListBetween(ctx context.Context, start, end time.Time) ([]*entity.PurchaseInvoice, error)
}
