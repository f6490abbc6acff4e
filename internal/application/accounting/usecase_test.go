package accounting_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cressendo-erp/internal/application/accounting"
	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	"github.com/jhoicas/cressendo-erp/internal/application/ports"
	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/tax"
	"github.com/jhoicas/cressendo-erp/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type mapCache struct {
	data    map[string][]byte
	gen     int64
	gets    int
	hits    int
	failGet bool
	// beforeSet corre entre el cálculo y el Set, como una venta confirmada en paralelo.
	beforeSet func()
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.gets++
	if c.failGet {
		return false, errors.New("conexión rechazada")
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any) error {
	if c.beforeSet != nil {
		hook := c.beforeSet
		c.beforeSet = nil
		hook()
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *mapCache) Generation(context.Context) (int64, error) { return c.gen, nil }

func (c *mapCache) Invalidate(context.Context) error {
	c.gen++
	c.data = map[string][]byte{}
	return nil
}

var march = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func committed(id string, doc entity.DocumentType, total string, at time.Time) *entity.SalesTransaction {
	return &entity.SalesTransaction{
		ID:           id,
		DocumentType: doc,
		WarehouseID:  "w1",
		Total:        d(total),
		Status:       entity.StatusCommitted,
		CreatedAt:    at,
		CommittedAt:  &at,
	}
}

func newAccounting(t *testing.T, cache *mapCache) (*accounting.AccountingUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	for _, tx := range []*entity.SalesTransaction{
		committed("f1", entity.DocFactura, "118", march.Add(2*time.Hour)),
		committed("b1", entity.DocBoleta, "59", march.AddDate(0, 0, 5)),
		committed("n1", entity.DocNotaVenta, "40", march.AddDate(0, 0, 6)),
		committed("abril", entity.DocFactura, "1180", march.AddDate(0, 1, 0)),
	} {
		require.NoError(t, store.Sales().Create(ctx, tx))
	}
	require.NoError(t, store.Sales().Create(ctx, &entity.SalesTransaction{ID: "q1", DocumentType: entity.DocFactura, Total: d("500"), Status: entity.StatusQuote}))

	eng, err := tax.NewEngine(d("0.18"), d("0.01"))
	require.NoError(t, err)
	var c ports.PeriodTotalsCache
	if cache != nil {
		c = cache
	}
	return accounting.NewAccountingUseCase(store.Sales(), store.Purchases(), eng, c, nil, time.UTC, zerolog.Nop()), store
}

func TestSalesRegister_TotalesSeparados(t *testing.T) {
	uc, _ := newAccounting(t, nil)
	start, end, err := uc.MonthBounds("2026-03")
	require.NoError(t, err)

	reg, err := uc.SalesRegister(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, 3, reg.Documents)
	assert.Equal(t, 2, reg.TaxableDocuments)
	assert.True(t, reg.CashFlowTotal.Equal(d("217")))
	assert.True(t, reg.TaxableTotal.Equal(d("177")))
	assert.True(t, reg.TaxableBase.Equal(d("150")))
	assert.True(t, reg.IGV.Equal(d("27")))
	assert.True(t, reg.IncomeTax.Equal(d("1.5")))
	require.Len(t, reg.Lines, 3)
	assert.Equal(t, "f1", reg.Lines[0].TransactionID)
}

func TestSalesRegister_Cache(t *testing.T) {
	cache := newMapCache()
	uc, _ := newAccounting(t, cache)
	ctx := context.Background()
	start, end, _ := uc.MonthBounds("2026-03")

	first, err := uc.SalesRegister(ctx, start, end)
	require.NoError(t, err)
	second, err := uc.SalesRegister(ctx, start, end)
	require.NoError(t, err)

	assert.Equal(t, 1, cache.hits)
	assert.True(t, second.TaxableBase.Equal(first.TaxableBase))
	assert.Contains(t, cache.data, accounting.PeriodKey(start, end, 0))
}

func TestSalesRegister_InvalidacionDuranteElCalculo(t *testing.T) {
	cache := newMapCache()
	uc, store := newAccounting(t, cache)
	ctx := context.Background()
	start, end, _ := uc.MonthBounds("2026-03")

	before, err := uc.SalesRegister(ctx, start, end)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx))

	// La venta se confirma después del cálculo y antes del Set.
	cache.beforeSet = func() {
		require.NoError(t, store.Sales().Create(ctx, committed("late", entity.DocBoleta, "59", march.Add(20*24*time.Hour))))
		require.NoError(t, cache.Invalidate(ctx))
	}
	stale, err := uc.SalesRegister(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, before.Documents, stale.Documents)
	assert.Contains(t, cache.data, accounting.PeriodKey(start, end, 1))

	after, err := uc.SalesRegister(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, before.Documents+1, after.Documents)
	assert.True(t, after.CashFlowTotal.Equal(before.CashFlowTotal.Add(d("59"))))
	assert.Contains(t, cache.data, accounting.PeriodKey(start, end, 2))
}

func TestSalesRegister_CacheCaidoNoImpideResponder(t *testing.T) {
	cache := newMapCache()
	cache.failGet = true
	uc, _ := newAccounting(t, cache)
	start, end, _ := uc.MonthBounds("2026-03")

	reg, err := uc.SalesRegister(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Documents)
}

func TestExportSinExportador(t *testing.T) {
	uc, _ := newAccounting(t, nil)
	start, end, _ := uc.MonthBounds("2026-03")
	_, err := uc.ExportSalesRegister(context.Background(), start, end)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurchaseRegister(t *testing.T) {
	uc, _ := newAccounting(t, nil)
	ctx := context.Background()

	p, err := uc.RegisterPurchase(ctx, dto.CreatePurchaseRequest{
		Date: march.AddDate(0, 0, 3), Provider: "Plásticos SAC", RUC: "20100000001",
		Series: "F001", Number: "123", BaseAmount: d("250"),
	})
	require.NoError(t, err)
	assert.True(t, p.IGVAmount.Equal(d("45")))
	assert.True(t, p.TotalAmount.Equal(d("295")))
	assert.Equal(t, "FACTURA", p.DocType)

	igv := d("0")
	_, err = uc.RegisterPurchase(ctx, dto.CreatePurchaseRequest{
		Date: march.AddDate(0, 0, 4), Provider: "Juan Pérez", RUC: "10400000001",
		DocType: "RECIBO_HONORARIOS", Number: "E001-7", BaseAmount: d("300"), IGVAmount: &igv,
	})
	require.NoError(t, err)

	_, err = uc.RegisterPurchase(ctx, dto.CreatePurchaseRequest{
		Date: march, Provider: "Plásticos SAC", RUC: "20100000001", Series: "F001", Number: "123", BaseAmount: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.RegisterPurchase(ctx, dto.CreatePurchaseRequest{Provider: "x", RUC: "1", Number: "1", BaseAmount: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	start, end, _ := uc.MonthBounds("2026-03")
	reg, err := uc.PurchaseRegister(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Documents)
	assert.True(t, reg.IGVCredit.Equal(d("45")))
	assert.True(t, reg.Total.Equal(d("595")))
}
