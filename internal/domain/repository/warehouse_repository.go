package repository

import (
	"context"

	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetByName(ctx context.Context, name string) (*entity.Warehouse, error)
	List(ctx context.Context) ([]*entity.Warehouse, error)
}
