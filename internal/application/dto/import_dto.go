package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateImportRequest cabecera de una importación.
type CreateImportRequest struct {
	CustomsRef    string          `json:"customs_ref"`
	ArrivalDate   *time.Time      `json:"arrival_date"`
	Freight       decimal.Decimal `json:"freight"`
	Insurance     decimal.Decimal `json:"insurance"`
	AdValoremRate decimal.Decimal `json:"ad_valorem_rate"`
	FXRate        decimal.Decimal `json:"fx_rate"`
}

// UpdateImportCostsRequest actualiza los costos compartidos; nil deja el valor actual.
type UpdateImportCostsRequest struct {
	CustomsRef    *string          `json:"customs_ref"`
	ArrivalDate   *time.Time       `json:"arrival_date"`
	Freight       *decimal.Decimal `json:"freight"`
	Insurance     *decimal.Decimal `json:"insurance"`
	AdValoremRate *decimal.Decimal `json:"ad_valorem_rate"`
	FXRate        *decimal.Decimal `json:"fx_rate"`
}

// ImportItemRequest línea de la importación (moneda extranjera).
type ImportItemRequest struct {
	Description string          `json:"description" validate:"required"`
	HSCode      string          `json:"hs_code"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	FOBUnit     decimal.Decimal `json:"fob_unit"`
}

// ImportStatusRequest body para PATCH /api/imports/:id/status.
type ImportStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// NationalizeRequest body para POST /api/imports/:id/nationalize.
type NationalizeRequest struct {
	WarehouseID    string `json:"warehouse_id" validate:"required"`
	PerceptionTier string `json:"perception_tier"`
}

// ImportItemResponse línea guardada.
type ImportItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	HSCode      string          `json:"hs_code"`
	ProductID   string          `json:"product_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	FOBUnit     decimal.Decimal `json:"fob_unit"`
}

// ImportResponse importación con sus líneas.
type ImportResponse struct {
	ID            string               `json:"id"`
	CustomsRef    string               `json:"customs_ref"`
	ArrivalDate   time.Time            `json:"arrival_date"`
	Status        string               `json:"status"`
	Freight       decimal.Decimal      `json:"freight"`
	Insurance     decimal.Decimal      `json:"insurance"`
	AdValoremRate decimal.Decimal      `json:"ad_valorem_rate"`
	FXRate        decimal.Decimal      `json:"fx_rate"`
	Items         []ImportItemResponse `json:"items"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ImportListResponse lista paginada de importaciones.
type ImportListResponse struct {
	Items []ImportResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// LandedCostLine costo puesto en almacén de una línea.
type LandedCostLine struct {
	ItemID            string          `json:"item_id"`
	Description       string          `json:"description"`
	ProductID         string          `json:"product_id,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	FOBUnit           decimal.Decimal `json:"fob_unit"`
	FOBTotal          decimal.Decimal `json:"fob_total"`
	Factor            decimal.Decimal `json:"factor"`
	Freight           decimal.Decimal `json:"freight"`
	Insurance         decimal.Decimal `json:"insurance"`
	Duty              decimal.Decimal `json:"ad_valorem"`
	CIF               decimal.Decimal `json:"cif"`
	LandedUnitForeign decimal.Decimal `json:"landed_unit_foreign"`
	LandedUnitHome    decimal.Decimal `json:"landed_unit_home"`
}

// LandedCostResponse costeo completo de la importación.
type LandedCostResponse struct {
	ImportID       string           `json:"import_id"`
	Lines          []LandedCostLine `json:"lines"`
	TotalFOB       decimal.Decimal  `json:"total_fob"`
	TotalFreight   decimal.Decimal  `json:"total_freight"`
	TotalInsurance decimal.Decimal  `json:"total_insurance"`
	TotalCIF       decimal.Decimal  `json:"total_cif"`
	TotalDuty      decimal.Decimal  `json:"total_ad_valorem"`
	IGVBase        decimal.Decimal  `json:"igv_base"`
	IGV            decimal.Decimal  `json:"igv"`
	PerceptionTier string           `json:"perception_tier"`
	PerceptionRate decimal.Decimal  `json:"perception_rate"`
	Perception     decimal.Decimal  `json:"perception"`
	PerceptionHome decimal.Decimal  `json:"perception_home"`
}

// NationalizeResponse resultado de nacionalizar: costeo aplicado y entradas registradas.
type NationalizeResponse struct {
	Import    ImportResponse     `json:"import"`
	Costing   LandedCostResponse `json:"costing"`
	Movements []MovementResponse `json:"movements"`
}
