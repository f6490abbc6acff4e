package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del kardex.
type MovementType string

const (
	MovementInbound    MovementType = "INBOUND"    // entrada
	MovementOutbound   MovementType = "OUTBOUND"   // salida
	MovementTransfer   MovementType = "TRANSFER"   // traslado entre almacenes (un par de movimientos)
	MovementAdjustment MovementType = "ADJUSTMENT" // ajuste / corrección
)

// Motivos habituales (texto libre; la validación del texto es responsabilidad del llamador).
const (
	ReasonPurchase   = "purchase"
	ReasonSale       = "sale"
	ReasonShrinkage  = "shrinkage"
	ReasonTransfer   = "transfer"
	ReasonCorrection = "correction"
)

// Valid indica si el tipo es conocido.
func (t MovementType) Valid() bool {
	switch t {
	case MovementInbound, MovementOutbound, MovementTransfer, MovementAdjustment:
		return true
	}
	return false
}

// AcceptsDelta verifica el signo del delta según el tipo:
// INBOUND > 0, OUTBOUND < 0, TRANSFER y ADJUSTMENT distinto de cero.
func (t MovementType) AcceptsDelta(delta decimal.Decimal) bool {
	switch t {
	case MovementInbound:
		return delta.IsPositive()
	case MovementOutbound:
		return delta.IsNegative()
	case MovementTransfer, MovementAdjustment:
		return !delta.IsZero()
	}
	return false
}

// QuantityScale decimales que admite una cantidad de stock (NUMERIC(18,4) en la base).
const QuantityScale = 4

// FitsQuantityScale indica si q se guarda sin redondeo. Ceros a la derecha no cuentan: 1.50000 es válido.
func FitsQuantityScale(q decimal.Decimal) bool {
	return q.Equal(q.Truncate(QuantityScale))
}

// StockMovement entrada inmutable del kardex. ID es secuencial y define el orden de auditoría,
// independiente de colisiones de CreatedAt. Nunca se edita ni se borra: las correcciones son ADJUSTMENT.
type StockMovement struct {
	ID            int64
	TransactionID string // venta, importación o traslado que originó el movimiento
	ProductID     string
	WarehouseID   string
	Type          MovementType
	Reason        string
	Delta         decimal.Decimal // negativo para salidas
	CreatedAt     time.Time
}
