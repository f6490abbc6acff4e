package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseInvoice comprobante de compra para el registro de compras.
type PurchaseInvoice struct {
	ID          string
	Date        time.Time
	Provider    string
	RUC         string
	DocType     string // FACTURA, BOLETA, DAM, RECIBO_HONORARIOS
	Series      string
	Number      string
	BaseAmount  decimal.Decimal
	IGVAmount   decimal.Decimal
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}
