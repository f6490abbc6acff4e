package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/pricing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tieredProduct() *entity.Product {
	return &entity.Product{
		SKU:          "BEB-001",
		UnitPrice:    entity.TierOf(d("10.00")),
		DozenPrice:   entity.TierOf(d("8.00")),
		HundredPrice: entity.TierOf(d("6.00")),
	}
}

func TestResolve_Escenario(t *testing.T) {
	p := tieredProduct()

	tests := []struct {
		qty       string
		wantPrice string
		wantTier  entity.TierLabel
	}{
		{"5", "10.00", entity.TierUnit},
		{"11", "10.00", entity.TierUnit},
		{"12", "8.00", entity.TierDozen},
		{"99", "8.00", entity.TierDozen},
		{"100", "6.00", entity.TierHundred},
		{"150", "6.00", entity.TierHundred},
	}
	for _, tt := range tests {
		t.Run(tt.qty, func(t *testing.T) {
			price, tier, err := pricing.Resolve(p, d(tt.qty))
			require.NoError(t, err)
			assert.True(t, price.Equal(d(tt.wantPrice)), "precio %s", price)
			assert.Equal(t, tt.wantTier, tier)
		})
	}
}

func TestResolve_TarifasAusentesOCeroCaen(t *testing.T) {
	p := &entity.Product{
		SKU:          "X",
		UnitPrice:    entity.TierOf(d("5")),
		DozenPrice:   entity.TierOf(d("4")),
		HundredPrice: entity.TierOf(d("0")),
	}
	price, tier, err := pricing.Resolve(p, d("200"))
	require.NoError(t, err)
	assert.True(t, price.Equal(d("4")))
	assert.Equal(t, entity.TierDozen, tier)

	p.DozenPrice = entity.NoTier()
	price, tier, err = pricing.Resolve(p, d("200"))
	require.NoError(t, err)
	assert.True(t, price.Equal(d("5")))
	assert.Equal(t, entity.TierUnit, tier)

	p.DozenPrice = entity.TierOf(d("-1"))
	price, _, err = pricing.Resolve(p, d("12"))
	require.NoError(t, err)
	assert.True(t, price.Equal(d("5")))
}

func TestResolve_SinPrecioUnitario(t *testing.T) {
	p := &entity.Product{SKU: "SIN-PRECIO", DozenPrice: entity.TierOf(d("3"))}
	_, _, err := pricing.Resolve(p, d("24"))
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)

	_, _, err = pricing.Resolve(nil, d("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)
}

func TestResolve_MonotoniaEnUmbrales(t *testing.T) {
	p := tieredProduct()
	prev := decimal.NewFromInt(1 << 30)
	for q := int64(1); q <= 150; q++ {
		price, _, err := pricing.Resolve(p, decimal.NewFromInt(q))
		require.NoError(t, err)
		assert.True(t, price.LessThanOrEqual(prev), "qty=%d precio=%s anterior=%s", q, price, prev)
		prev = price
	}
}
