package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceTier es un precio de tarifa opcional: Present(valor) o Absent.
// Un valor <= 0 se trata igual que ausente al resolver precios.
type PriceTier struct {
	value   decimal.Decimal
	present bool
}

// TierOf construye una tarifa presente.
func TierOf(v decimal.Decimal) PriceTier { return PriceTier{value: v, present: true} }

// NoTier construye una tarifa ausente.
func NoTier() PriceTier { return PriceTier{} }

// TierFromNull convierte una columna NUMERIC nullable en tarifa.
func TierFromNull(n decimal.NullDecimal) PriceTier {
	if !n.Valid {
		return NoTier()
	}
	return TierOf(n.Decimal)
}

// Value devuelve el valor y si la tarifa está presente.
func (t PriceTier) Value() (decimal.Decimal, bool) { return t.value, t.present }

// IsPresent indica si la tarifa tiene valor.
func (t PriceTier) IsPresent() bool { return t.present }

// Usable indica si la tarifa está presente y es positiva.
func (t PriceTier) Usable() bool { return t.present && t.value.IsPositive() }

// Null convierte la tarifa a NullDecimal para persistencia.
func (t PriceTier) Null() decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: t.value, Valid: t.present}
}

// Product representa un producto (SKU) del catálogo con tarifas por volumen.
// Cost es el costo base (moneda local); lo actualiza la nacionalización de importaciones.
// El stock no vive aquí: se deriva del kardex por almacén.
type Product struct {
	ID           string
	SKU          string // único global
	Name         string
	Category     string
	UnitPrice    PriceTier
	DozenPrice   PriceTier // 12+
	HundredPrice PriceTier // 100+
	Cost         decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidTiers verifica que las tarifas presentes no sean negativas.
func (p *Product) ValidTiers() bool {
	for _, t := range []PriceTier{p.UnitPrice, p.DozenPrice, p.HundredPrice} {
		if v, ok := t.Value(); ok && v.IsNegative() {
			return false
		}
	}
	return true
}
