// Package pricing resuelve el precio unitario de venta según las tarifas por volumen del producto.
package pricing

import (
	"fmt"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Umbrales de las tarifas por volumen.
var (
	DozenThreshold   = decimal.NewFromInt(12)
	HundredThreshold = decimal.NewFromInt(100)
)

// Resolve elige el precio unitario aplicable para la cantidad pedida.
// Se prefiere la tarifa más grande aplicable; una tarifa ausente o <= 0 cae a la siguiente.
// Falla con domain.ErrInvalidProduct si el producto no tiene precio unitario.
func Resolve(product *entity.Product, quantity decimal.Decimal) (decimal.Decimal, entity.TierLabel, error) {
	if product == nil {
		return decimal.Zero, "", domain.ErrInvalidProduct
	}
	unit, ok := product.UnitPrice.Value()
	if !ok {
		return decimal.Zero, "", fmt.Errorf("%w: %s", domain.ErrInvalidProduct, product.SKU)
	}

	if quantity.GreaterThanOrEqual(HundredThreshold) && product.HundredPrice.Usable() {
		v, _ := product.HundredPrice.Value()
		return v, entity.TierHundred, nil
	}
	if quantity.GreaterThanOrEqual(DozenThreshold) && product.DozenPrice.Usable() {
		v, _ := product.DozenPrice.Value()
		return v, entity.TierDozen, nil
	}
	return unit, entity.TierUnit, nil
}
