package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportStatus estado de una importación.
type ImportStatus string

const (
	ImportDraft        ImportStatus = "DRAFT"
	ImportInTransit    ImportStatus = "IN_TRANSIT"
	ImportNationalized ImportStatus = "NATIONALIZED"
)

// CanTransitionTo solo permite avanzar: DRAFT → IN_TRANSIT → NATIONALIZED (o DRAFT → NATIONALIZED).
func (s ImportStatus) CanTransitionTo(next ImportStatus) bool {
	switch s {
	case ImportDraft:
		return next == ImportInTransit || next == ImportNationalized
	case ImportInTransit:
		return next == ImportNationalized
	}
	return false
}

// ImportShipment cabecera de importación con sus costos compartidos.
// FXRate es moneda local por unidad de moneda extranjera (ej. PEN/USD).
type ImportShipment struct {
	ID            string
	CustomsRef    string // DAM
	ArrivalDate   time.Time
	Status        ImportStatus
	Freight       decimal.Decimal
	Insurance     decimal.Decimal
	AdValoremRate decimal.Decimal
	FXRate        decimal.Decimal
	Items         []ImportLineItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ImportLineItem línea de la importación (moneda extranjera).
// ProductID es opcional hasta la nacionalización, cuando cada línea debe apuntar a un producto del catálogo.
type ImportLineItem struct {
	ID          string
	ImportID    string
	Description string
	HSCode      string
	ProductID   string
	Quantity    decimal.Decimal
	FOBUnit     decimal.Decimal
}

// Clone copia profunda para trabajar sobre un snapshot.
func (s *ImportShipment) Clone() *ImportShipment {
	c := *s
	c.Items = append([]ImportLineItem(nil), s.Items...)
	return &c
}
