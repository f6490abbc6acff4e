package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesLineRequest producto y cantidad; el precio lo resuelve el sistema por tarifa.
type SalesLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateSaleRequest body para POST /api/sales y /api/sales/quotes.
type CreateSaleRequest struct {
	Customer      string             `json:"customer"`
	DocumentType  string             `json:"document_type" validate:"required"`
	WarehouseID   string             `json:"warehouse_id" validate:"required"`
	Lines         []SalesLineRequest `json:"lines" validate:"required,min=1"`
	AllowOversell bool               `json:"allow_oversell"`
}

// PromoteQuoteRequest body para POST /api/sales/:id/commit.
type PromoteQuoteRequest struct {
	AllowOversell bool `json:"allow_oversell"`
}

// SalesLineResponse línea con la tarifa aplicada.
type SalesLineResponse struct {
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Tier       string          `json:"tier"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	MovementID int64           `json:"movement_id,omitempty"`
}

// SaleResponse venta o cotización.
type SaleResponse struct {
	ID           string              `json:"id"`
	Customer     string              `json:"customer"`
	DocumentType string              `json:"document_type"`
	WarehouseID  string              `json:"warehouse_id"`
	Status       string              `json:"status"`
	Lines        []SalesLineResponse `json:"lines"`
	Total        decimal.Decimal     `json:"total"`
	CreatedAt    time.Time           `json:"created_at"`
	CommittedAt  *time.Time          `json:"committed_at,omitempty"`
}

// SaleListResponse historial paginado de ventas y cotizaciones.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// AvailabilityLine disponibilidad de una línea antes de confirmar.
type AvailabilityLine struct {
	ProductID     string          `json:"product_id"`
	Requested     decimal.Decimal `json:"requested"`
	Balance       decimal.Decimal `json:"balance"`
	WouldOversell bool            `json:"would_oversell"`
}

// AvailabilityResponse resultado de verificar stock para una venta.
type AvailabilityResponse struct {
	WarehouseID string             `json:"warehouse_id"`
	Lines       []AvailabilityLine `json:"lines"`
	Available   bool               `json:"available"`
}
