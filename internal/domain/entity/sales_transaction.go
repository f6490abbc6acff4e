package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType comprobante emitido en la venta.
type DocumentType string

const (
	DocNotaVenta DocumentType = "NOTA_VENTA" // informal, no tributa
	DocBoleta    DocumentType = "BOLETA"     // boleta de venta
	DocFactura   DocumentType = "FACTURA"
)

// Valid indica si el comprobante es conocido.
func (d DocumentType) Valid() bool {
	switch d {
	case DocNotaVenta, DocBoleta, DocFactura:
		return true
	}
	return false
}

// TaxRelevant indica si el comprobante entra al registro de ventas (PLE).
func (d DocumentType) TaxRelevant() bool {
	return d == DocBoleta || d == DocFactura
}

// TransactionStatus estado de una venta.
type TransactionStatus string

const (
	StatusQuote     TransactionStatus = "QUOTE"     // cotización: sin efecto en stock
	StatusCommitted TransactionStatus = "COMMITTED" // confirmada: una salida de kardex por línea, inmutable
)

// TierLabel tarifa aplicada a una línea.
type TierLabel string

const (
	TierUnit    TierLabel = "UNIT"
	TierDozen   TierLabel = "DOZEN"
	TierHundred TierLabel = "HUNDRED"
)

// SalesLine línea de una venta o cotización.
type SalesLine struct {
	ProductID  string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	Tier       TierLabel
	Subtotal   decimal.Decimal
	MovementID int64 // salida de kardex asociada; 0 mientras sea cotización
}

// SalesTransaction cabecera de venta. WarehouseID es explícito: no hay almacén por defecto en el ledger.
type SalesTransaction struct {
	ID           string
	Customer     string
	DocumentType DocumentType
	WarehouseID  string
	Lines        []SalesLine
	Total        decimal.Decimal
	Status       TransactionStatus
	CreatedAt    time.Time
	CommittedAt  *time.Time
}

// Clone copia profunda (las líneas no se comparten).
func (t *SalesTransaction) Clone() *SalesTransaction {
	c := *t
	c.Lines = append([]SalesLine(nil), t.Lines...)
	if t.CommittedAt != nil {
		at := *t.CommittedAt
		c.CommittedAt = &at
	}
	return &c
}
