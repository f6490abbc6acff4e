package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
)

// KardexFilter filtros para listar movimientos. Campos vacíos no filtran.
type KardexFilter struct {
	ProductID   string
	WarehouseID string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// StockMovementRepository puerto del kardex. Solo admite inserción: no hay Update ni Delete.
type StockMovementRepository interface {
	// Append persiste el movimiento y asigna su ID secuencial.
	Append(ctx context.Context, movement *entity.StockMovement) (int64, error)
	// List devuelve movimientos en orden de inserción (ID ascendente).
	List(ctx context.Context, filter KardexFilter) ([]*entity.StockMovement, error)
	// ListAfter pagina el historial completo por ID, para reconstruir saldos.
	ListAfter(ctx context.Context, afterID int64, limit int) ([]*entity.StockMovement, error)
}
