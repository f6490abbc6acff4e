package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
)

// SalesRepository puerto de persistencia de ventas y cotizaciones.
type SalesRepository interface {
	Create(ctx context.Context, tx *entity.SalesTransaction) error
	GetByID(ctx context.Context, id string) (*entity.SalesTransaction, error)
	// MarkCommitted promueve una cotización; devuelve domain.ErrAlreadyCommitted si ya no está en QUOTE.
	MarkCommitted(ctx context.Context, tx *entity.SalesTransaction) error
	// Discard elimina una cotización. domain.ErrAlreadyCommitted si ya fue confirmada, domain.ErrNotFound si no existe.
	Discard(ctx context.Context, id string) error
	// List historial de ventas y cotizaciones, las más recientes primero. status vacío lista todas.
	List(ctx context.Context, status entity.TransactionStatus, limit, offset int) ([]*entity.SalesTransaction, error)
	// ListCommitted ventas confirmadas en [start, end).
	ListCommitted(ctx context.Context, start, end time.Time) ([]*entity.SalesTransaction, error)
}
