package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterLineResponse línea del registro de ventas.
type RegisterLineResponse struct {
	TransactionID string          `json:"transaction_id"`
	Date          time.Time       `json:"date"`
	DocumentType  string          `json:"document_type"`
	Customer      string          `json:"customer"`
	Total         decimal.Decimal `json:"total"`
	Base          decimal.Decimal `json:"base"`
	IGV           decimal.Decimal `json:"igv"`
	Taxable       bool            `json:"taxable"`
}

// SalesRegisterResponse registro de ventas del periodo [start, end).
// CashFlowTotal incluye notas de venta; TaxableTotal no.
type SalesRegisterResponse struct {
	Start            time.Time              `json:"start"`
	End              time.Time              `json:"end"`
	CashFlowTotal    decimal.Decimal        `json:"cash_flow_total"`
	TaxableTotal     decimal.Decimal        `json:"taxable_total"`
	TaxableBase      decimal.Decimal        `json:"taxable_base"`
	IGV              decimal.Decimal        `json:"igv"`
	IncomeTax        decimal.Decimal        `json:"income_tax"`
	Documents        int                    `json:"documents"`
	TaxableDocuments int                    `json:"taxable_documents"`
	Lines            []RegisterLineResponse `json:"lines"`
}

// CreatePurchaseRequest comprobante de compra. Si IGVAmount es nil se calcula como base × tasa.
type CreatePurchaseRequest struct {
	Date       time.Time        `json:"date"`
	Provider   string           `json:"provider" validate:"required"`
	RUC        string           `json:"ruc" validate:"required"`
	DocType    string           `json:"doc_type"`
	Series     string           `json:"series"`
	Number     string           `json:"number" validate:"required"`
	BaseAmount decimal.Decimal  `json:"base_amount"`
	IGVAmount  *decimal.Decimal `json:"igv_amount"`
}

// PurchaseResponse comprobante de compra registrado.
type PurchaseResponse struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Provider    string          `json:"provider"`
	RUC         string          `json:"ruc"`
	DocType     string          `json:"doc_type"`
	Series      string          `json:"series"`
	Number      string          `json:"number"`
	BaseAmount  decimal.Decimal `json:"base_amount"`
	IGVAmount   decimal.Decimal `json:"igv_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// PurchaseRegisterResponse registro de compras del periodo.
type PurchaseRegisterResponse struct {
	Start     time.Time          `json:"start"`
	End       time.Time          `json:"end"`
	Base      decimal.Decimal    `json:"base"`
	IGVCredit decimal.Decimal    `json:"igv_credit"`
	Total     decimal.Decimal    `json:"total"`
	Documents int                `json:"documents"`
	Items     []PurchaseResponse `json:"items"`
}
