package repository

import (
	"context"

	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
)

// StockRepository puerto del saldo cacheado por (producto, almacén).
// Get y GetForUpdate devuelven saldo cero si el par no tiene fila.
type StockRepository interface {
	Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryBalance, error)
	// GetForUpdate bloquea el par hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryBalance, error)
	Upsert(ctx context.Context, balance *entity.InventoryBalance) error
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.InventoryBalance, error)
	ListAll(ctx context.Context) ([]*entity.InventoryBalance, error)
	// LockAll impide nuevos movimientos mientras se reconstruye el caché.
	LockAll(ctx context.Context) error
}
