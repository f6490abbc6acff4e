package tax_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/tax"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDecompose(t *testing.T) {
	tests := []struct {
		name  string
		gross string
		rate  string
		base  string
		vat   string
	}{
		{"igv 18", "118", "0.18", "100", "18"},
		{"tasa cero", "50", "0", "50", "0"},
		{"bruto cero", "0", "0.18", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, vat, err := tax.Decompose(d(tt.gross), d(tt.rate))
			require.NoError(t, err)
			assert.True(t, base.Equal(d(tt.base)), "base %s", base)
			assert.True(t, vat.Equal(d(tt.vat)), "igv %s", vat)
		})
	}
}

func TestDecompose_SumaExacta(t *testing.T) {
	for _, g := range []string{"1", "0.01", "99.99", "1234.57", "7"} {
		base, vat, err := tax.Decompose(d(g), d("0.18"))
		require.NoError(t, err)
		assert.True(t, base.Add(vat).Equal(d(g)), "bruto %s", g)
	}
}

// base × (1 + r) reconstruye el bruto para cualquier r > -1 y bruto >= 0.
func TestDecompose_IdaYVuelta(t *testing.T) {
	tolerance := d("0.000001")
	rates := []decimal.Decimal{
		d("0.18"), d("0.07"), d("0"), d("-0.5"), d("-0.999"), d("2.5"),
		d("1").Div(d("3")), d("1").Div(d("7")),
	}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		// tasas aleatorias en (-1, 3)
		rates = append(rates, decimal.NewFromFloat(rng.Float64()*4-0.9999).Round(6))
	}

	check := func(gross, rate decimal.Decimal) {
		base, vat, err := tax.Decompose(gross, rate)
		require.NoError(t, err)
		back := base.Mul(decimal.NewFromInt(1).Add(rate))
		diff := back.Sub(gross).Abs()
		if gross.IsZero() {
			assert.True(t, diff.LessThanOrEqual(tolerance), "bruto 0 tasa %s: %s", rate, back)
		} else {
			assert.True(t, diff.Div(gross).LessThanOrEqual(tolerance),
				"bruto %s tasa %s: reconstruido %s", gross, rate, back)
		}
		assert.True(t, base.Add(vat).Equal(gross))
	}

	for _, r := range rates {
		check(decimal.Zero, r)
		for j := 0; j < 20; j++ {
			// brutos de 0.01 a 1 000 000.00 con dos decimales
			gross := decimal.New(rng.Int63n(100_000_000)+1, -2)
			check(gross, r)
		}
	}
}

func TestDecompose_TasaInvalida(t *testing.T) {
	_, _, err := tax.Decompose(d("100"), d("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
}

func TestAggregatePeriod(t *testing.T) {
	eng, err := tax.NewEngine(d("0.18"), d("0.01"))
	require.NoError(t, err)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	entries := []tax.Entry{
		{ID: "f1", Date: start.Add(time.Hour), DocumentType: entity.DocFactura, Total: d("118")},
		{ID: "b1", Date: start.AddDate(0, 0, 10), DocumentType: entity.DocBoleta, Total: d("236")},
		{ID: "n1", Date: start.AddDate(0, 0, 11), DocumentType: entity.DocNotaVenta, Total: d("50")},
		{ID: "fuera", Date: end, DocumentType: entity.DocFactura, Total: d("1000")},
		{ID: "antes", Date: start.Add(-time.Second), DocumentType: entity.DocFactura, Total: d("1000")},
	}

	got, err := eng.AggregatePeriod(entries, start, end)
	require.NoError(t, err)

	assert.Equal(t, 3, got.Documents)
	assert.Equal(t, 2, got.TaxableDocuments)
	assert.True(t, got.CashFlowTotal.Equal(d("404")))
	assert.True(t, got.TaxableTotal.Equal(d("354")))
	assert.True(t, got.TaxableBase.Equal(d("300")))
	assert.True(t, got.VAT.Equal(d("54")))
	assert.True(t, got.IncomeTax.Equal(d("3")))
	require.Len(t, got.Lines, 3)
	assert.Equal(t, "f1", got.Lines[0].EntryID)
	assert.False(t, got.Lines[2].Taxable)
	assert.True(t, got.Lines[2].VAT.IsZero())
}

func TestAggregatePeriod_PeriodoVacio(t *testing.T) {
	eng, _ := tax.NewEngine(d("0.18"), d("0.01"))
	now := time.Now()
	_, err := eng.AggregatePeriod(nil, now, now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummarizePurchases(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	got := tax.SummarizePurchases([]*entity.PurchaseInvoice{
		{ID: "c1", Date: start, BaseAmount: d("100"), IGVAmount: d("18"), TotalAmount: d("118")},
		{ID: "c2", Date: end, BaseAmount: d("100"), IGVAmount: d("18"), TotalAmount: d("118")},
		nil,
	}, start, end)
	assert.Equal(t, 1, got.Documents)
	assert.True(t, got.VAT.Equal(d("18")))
	assert.True(t, got.Total.Equal(d("118")))
}

func TestMonthBounds(t *testing.T) {
	s, e, err := tax.MonthBounds("2026-12", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), s)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), e)

	_, _, err = tax.MonthBounds("marzo", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
