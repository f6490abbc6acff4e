package sales_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cressendo-erp/internal/application/sales"
	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tiered() *entity.Product {
	return &entity.Product{
		ID:           "p1",
		SKU:          "BEB-001",
		UnitPrice:    entity.TierOf(d("10")),
		DozenPrice:   entity.TierOf(d("8")),
		HundredPrice: entity.TierOf(d("6")),
	}
}

func TestTransactionBuilder_ReagrupaYReresuelveTarifa(t *testing.T) {
	b, err := sales.NewTransactionBuilder("Juan", entity.DocBoleta, "w1")
	require.NoError(t, err)

	require.NoError(t, b.Add(tiered(), d("5")))
	assert.Equal(t, entity.TierUnit, b.Lines()[0].Tier)

	require.NoError(t, b.Add(tiered(), d("7")))
	lines := b.Lines()
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Quantity.Equal(d("12")))
	assert.Equal(t, entity.TierDozen, lines[0].Tier)
	assert.True(t, b.Total().Equal(d("96")))

	tx, err := b.Build("t1", entity.StatusQuote, time.Now())
	require.NoError(t, err)
	assert.Equal(t, entity.DocBoleta, tx.DocumentType)
	assert.True(t, tx.Total.Equal(d("96")))
}

func TestTransactionBuilder_Validaciones(t *testing.T) {
	_, err := sales.NewTransactionBuilder("", "TICKET", "w1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = sales.NewTransactionBuilder("", entity.DocFactura, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	b, _ := sales.NewTransactionBuilder("", entity.DocNotaVenta, "w1")
	assert.ErrorIs(t, b.Add(tiered(), d("0")), domain.ErrInvalidInput)
	assert.ErrorIs(t, b.Add(tiered(), d("0.00001")), domain.ErrInvalidInput)
	require.NoError(t, b.Add(tiered(), d("1.25000")), "ceros a la derecha no exceden la escala")
	assert.True(t, b.Remove("p1"))
	assert.ErrorIs(t, b.Add(&entity.Product{ID: "x", SKU: "SIN-PRECIO"}, d("1")), domain.ErrInvalidProduct)

	_, err = b.Build("t1", entity.StatusQuote, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransactionBuilder_Remove(t *testing.T) {
	b, _ := sales.NewTransactionBuilder("", entity.DocNotaVenta, "w1")
	require.NoError(t, b.Add(tiered(), d("150")))
	assert.True(t, b.Total().Equal(d("900")))

	assert.True(t, b.Remove("p1"))
	assert.False(t, b.Remove("p1"))
	assert.Empty(t, b.Lines())
	assert.True(t, b.Total().IsZero())
}
