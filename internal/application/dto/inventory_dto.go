package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Delta lleva el signo: negativo en OUTBOUND, positivo en INBOUND.
type RegisterMovementRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	WarehouseID   string          `json:"warehouse_id" validate:"required"`
	Type          string          `json:"type" validate:"required"`
	Reason        string          `json:"reason"`
	Delta         decimal.Decimal `json:"delta"`
	AllowOversell bool            `json:"allow_oversell"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	FromWarehouseID string          `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string          `json:"to_warehouse_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// MovementResponse movimiento del kardex.
type MovementResponse struct {
	ID            int64           `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Type          string          `json:"type"`
	Reason        string          `json:"reason"`
	Delta         decimal.Decimal `json:"delta"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TransferResponse los dos movimientos del traslado.
type TransferResponse struct {
	TransactionID string           `json:"transaction_id"`
	Out           MovementResponse `json:"out"`
	In            MovementResponse `json:"in"`
}

// BalanceResponse saldo de un par (producto, almacén).
type BalanceResponse struct {
	ProductID      string          `json:"product_id"`
	WarehouseID    string          `json:"warehouse_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	LastMovementID int64           `json:"last_movement_id"`
}

// KardexLine movimiento con saldo corrido.
type KardexLine struct {
	MovementResponse
	Balance decimal.Decimal `json:"balance"`
}

// KardexResponse kardex de un par.
type KardexResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Lines       []KardexLine    `json:"lines"`
	Balance     decimal.Decimal `json:"balance"`
}

// ValuationLine valorización de un producto en un almacén.
type ValuationLine struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Value     decimal.Decimal `json:"value"`
}

// ValuationResponse kardex valorizado del almacén.
type ValuationResponse struct {
	WarehouseID string          `json:"warehouse_id"`
	Lines       []ValuationLine `json:"lines"`
	Total       decimal.Decimal `json:"total"`
}

// DriftResponse par cuyo caché no coincide con el historial.
type DriftResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Cached      decimal.Decimal `json:"cached"`
	Recomputed  decimal.Decimal `json:"recomputed"`
}

// RebuildResponse resultado de reconstruir los saldos desde el kardex.
type RebuildResponse struct {
	Movements int             `json:"movements"`
	Pairs     int             `json:"pairs"`
	Drift     []DriftResponse `json:"drift"`
	Repaired  bool            `json:"repaired"`
}
