package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Las tarifas por volumen son opcionales.
type CreateProductRequest struct {
	SKU          string           `json:"sku" validate:"required,min=1,max=100"`
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	Category     string           `json:"category"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	DozenPrice   *decimal.Decimal `json:"dozen_price"`
	HundredPrice *decimal.Decimal `json:"hundred_price"`
}

// UpdatePricesRequest reemplaza las tarifas; nil deja la tarifa ausente.
type UpdatePricesRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category     *string          `json:"category"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	DozenPrice   *decimal.Decimal `json:"dozen_price"`
	HundredPrice *decimal.Decimal `json:"hundred_price"`
}

// ProductResponse salida de un producto. Cost lo mantiene la nacionalización de importaciones.
type ProductResponse struct {
	ID           string           `json:"id"`
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	DozenPrice   *decimal.Decimal `json:"dozen_price"`
	HundredPrice *decimal.Decimal `json:"hundred_price"`
	Cost         decimal.Decimal  `json:"cost"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// PriceQuoteResponse precio resuelto para una cantidad.
type PriceQuoteResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Tier      string          `json:"tier"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
