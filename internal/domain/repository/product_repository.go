package repository

import (
	"context"

	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetBySKU devuelven (nil, nil) cuando no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
