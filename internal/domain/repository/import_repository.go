package repository

import (
	"context"

	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
)

// ImportRepository puerto de persistencia de importaciones y sus líneas.
// GetByID devuelve la cabecera con todas sus líneas (snapshot consistente).
type ImportRepository interface {
	Create(ctx context.Context, shipment *entity.ImportShipment) error
	GetByID(ctx context.Context, id string) (*entity.ImportShipment, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.ImportShipment, error)
	UpdateHeader(ctx context.Context, shipment *entity.ImportShipment) error
	AddItem(ctx context.Context, item *entity.ImportLineItem) error
	UpdateItem(ctx context.Context, item *entity.ImportLineItem) error
	RemoveItem(ctx context.Context, importID, itemID string) error
	List(ctx context.Context, limit, offset int) ([]*entity.ImportShipment, error)
}
