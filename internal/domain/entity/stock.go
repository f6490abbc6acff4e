package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryBalance saldo cacheado de un producto en un almacén.
// Es una optimización: siempre debe coincidir con la suma de deltas del kardex para el par.
type InventoryBalance struct {
	ProductID      string
	WarehouseID    string
	Quantity       decimal.Decimal
	LastMovementID int64
	UpdatedAt      time.Time
}
