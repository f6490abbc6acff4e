// Package sales arma y confirma ventas. El carrito es un valor por petición (TransactionBuilder),
// nunca estado global compartido.
package sales

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/pricing"
)

// TransactionBuilder acumula líneas de una venta. Agregar un producto ya presente suma la
// cantidad y vuelve a resolver la tarifa con el total.
type TransactionBuilder struct {
	customer    string
	docType     entity.DocumentType
	warehouseID string
	lines       []entity.SalesLine
	products    map[string]*entity.Product
}

// NewTransactionBuilder valida la cabecera y crea un carrito vacío.
func NewTransactionBuilder(customer string, docType entity.DocumentType, warehouseID string) (*TransactionBuilder, error) {
	if !docType.Valid() {
		return nil, fmt.Errorf("%w: comprobante %q", domain.ErrInvalidInput, docType)
	}
	if warehouseID == "" {
		return nil, fmt.Errorf("%w: almacén obligatorio", domain.ErrInvalidInput)
	}
	return &TransactionBuilder{
		customer:    customer,
		docType:     docType,
		warehouseID: warehouseID,
		products:    map[string]*entity.Product{},
	}, nil
}

// Add agrega qty unidades del producto con el precio de la tarifa que corresponda.
func (b *TransactionBuilder) Add(product *entity.Product, qty decimal.Decimal) error {
	if product == nil {
		return domain.ErrInvalidProduct
	}
	if !qty.IsPositive() || !entity.FitsQuantityScale(qty) {
		return fmt.Errorf("%w: cantidad %s para %s", domain.ErrInvalidInput, qty, product.SKU)
	}
	idx := -1
	for i := range b.lines {
		if b.lines[i].ProductID == product.ID {
			idx = i
			break
		}
	}
	total := qty
	if idx >= 0 {
		total = b.lines[idx].Quantity.Add(qty)
	}
	price, tier, err := pricing.Resolve(product, total)
	if err != nil {
		return err
	}
	line := entity.SalesLine{
		ProductID: product.ID,
		Quantity:  total,
		UnitPrice: price,
		Tier:      tier,
		Subtotal:  price.Mul(total),
	}
	if idx >= 0 {
		b.lines[idx] = line
	} else {
		b.lines = append(b.lines, line)
	}
	b.products[product.ID] = product
	return nil
}

// Remove quita la línea del producto; false si no estaba.
func (b *TransactionBuilder) Remove(productID string) bool {
	for i := range b.lines {
		if b.lines[i].ProductID == productID {
			b.lines = append(b.lines[:i], b.lines[i+1:]...)
			delete(b.products, productID)
			return true
		}
	}
	return false
}

// Lines copia de las líneas actuales.
func (b *TransactionBuilder) Lines() []entity.SalesLine {
	return append([]entity.SalesLine(nil), b.lines...)
}

// Total suma de subtotales.
func (b *TransactionBuilder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range b.lines {
		total = total.Add(l.Subtotal)
	}
	return total
}

// Build produce la transacción con el estado indicado. Falla si no hay líneas.
func (b *TransactionBuilder) Build(id string, status entity.TransactionStatus, now time.Time) (*entity.SalesTransaction, error) {
	if len(b.lines) == 0 {
		return nil, fmt.Errorf("%w: venta sin líneas", domain.ErrInvalidInput)
	}
	return &entity.SalesTransaction{
		ID:           id,
		Customer:     b.customer,
		DocumentType: b.docType,
		WarehouseID:  b.warehouseID,
		Lines:        b.Lines(),
		Total:        b.Total(),
		Status:       status,
		CreatedAt:    now,
	}, nil
}
