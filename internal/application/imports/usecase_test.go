package imports_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	"github.com/jhoicas/cressendo-erp/internal/application/imports"
	"github.com/jhoicas/cressendo-erp/internal/application/inventory"
	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/landedcost"
	"github.com/jhoicas/cressendo-erp/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type importFixture struct {
	store  *memory.Store
	ledger *inventory.Ledger
	uc     *imports.ImportUseCase
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "BEB-001", UnitPrice: entity.TierOf(d("60")), Cost: d("40")}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p2", SKU: "COM-001", UnitPrice: entity.TierOf(d("50"))}))
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: "w1", Name: "central"}))

	runner := memory.NewTxRunner(store)
	ledger := inventory.NewLedger(runner, store.Products(), store.Warehouses(), store.Stock(), store.Movements(), false, zerolog.Nop())
	alloc := landedcost.NewAllocator(d("0.18"), landedcost.DefaultPerceptionRates())
	uc := imports.NewImportUseCase(runner, store.Imports(), store.Products(), ledger, alloc, zerolog.Nop())
	return &importFixture{store: store, ledger: ledger, uc: uc}
}

func (f *importFixture) draft(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	imp, err := f.uc.Create(ctx, dto.CreateImportRequest{
		CustomsRef:    "118-2026-10-000123",
		Freight:       d("100"),
		Insurance:     d("20"),
		AdValoremRate: d("0.06"),
		FXRate:        d("3.75"),
	})
	require.NoError(t, err)
	_, err = f.uc.AddItem(ctx, imp.ID, dto.ImportItemRequest{Description: "bebederos", ProductID: "p1", Quantity: d("30"), FOBUnit: d("10")})
	require.NoError(t, err)
	_, err = f.uc.AddItem(ctx, imp.ID, dto.ImportItemRequest{Description: "comederos", ProductID: "p2", Quantity: d("70"), FOBUnit: d("10")})
	require.NoError(t, err)
	return imp.ID
}

func TestImports_Costing(t *testing.T) {
	f := newImportFixture(t)
	id := f.draft(t)

	c, err := f.uc.Costing(context.Background(), id, "")
	require.NoError(t, err)
	require.Len(t, c.Lines, 2)
	assert.True(t, c.Lines[0].Freight.Equal(d("30")))
	assert.True(t, c.Lines[1].Insurance.Equal(d("14")))
	assert.True(t, c.TotalFreight.Equal(d("100")))
	assert.Equal(t, string(landedcost.PerceptionOther), c.PerceptionTier)

	_, err = f.uc.Costing(context.Background(), id, "VIP")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImports_CostingSinLineas(t *testing.T) {
	f := newImportFixture(t)
	imp, err := f.uc.Create(context.Background(), dto.CreateImportRequest{FXRate: d("3.7")})
	require.NoError(t, err)

	_, err = f.uc.Costing(context.Background(), imp.ID, "")
	assert.ErrorIs(t, err, domain.ErrZeroBasisAllocation)
}

func TestImports_CicloDeVida(t *testing.T) {
	f := newImportFixture(t)
	ctx := context.Background()
	id := f.draft(t)

	_, err := f.uc.SetStatus(ctx, id, dto.ImportStatusRequest{Status: string(entity.ImportInTransit)})
	require.NoError(t, err)
	_, err = f.uc.SetStatus(ctx, id, dto.ImportStatusRequest{Status: string(entity.ImportDraft)})
	assert.ErrorIs(t, err, domain.ErrConflict, "solo se avanza")
	_, err = f.uc.SetStatus(ctx, id, dto.ImportStatusRequest{Status: string(entity.ImportNationalized)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImports_Nationalize(t *testing.T) {
	f := newImportFixture(t)
	ctx := context.Background()
	id := f.draft(t)

	// 10 unidades previas de p1 a costo 40
	_, err := f.ledger.Record(ctx, inventory.RecordInput{ProductID: "p1", WarehouseID: "w1", Type: entity.MovementInbound, Delta: d("10")})
	require.NoError(t, err)

	res, err := f.uc.Nationalize(ctx, id, dto.NationalizeRequest{WarehouseID: "w1", PerceptionTier: string(landedcost.PerceptionFrequent)})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ImportNationalized), res.Import.Status)
	require.Len(t, res.Movements, 2)
	assert.Equal(t, id, res.Movements[0].TransactionID)
	assert.Equal(t, entity.ReasonPurchase, res.Movements[0].Reason)

	b, err := f.ledger.Balance(ctx, "p1", "w1")
	require.NoError(t, err)
	assert.True(t, b.Quantity.Equal(d("40")))

	// costo puesto en almacén p1: 11.8 USD × 3.75 = 44.25; promedio (10×40 + 30×44.25) / 40 = 43.1875
	p1, err := f.store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p1.Cost.Equal(d("43.1875")), "costo %s", p1.Cost)

	p2, err := f.store.Products().GetByID(ctx, "p2")
	require.NoError(t, err)
	assert.True(t, p2.Cost.Equal(d("44.25")))

	// congelada
	_, err = f.uc.AddItem(ctx, id, dto.ImportItemRequest{Description: "x", Quantity: d("1"), FOBUnit: d("1")})
	assert.ErrorIs(t, err, domain.ErrImportFrozen)
	_, err = f.uc.UpdateCosts(ctx, id, dto.UpdateImportCostsRequest{Freight: &decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrImportFrozen)
	_, err = f.uc.Nationalize(ctx, id, dto.NationalizeRequest{WarehouseID: "w1"})
	assert.ErrorIs(t, err, domain.ErrImportFrozen)

	b, _ = f.ledger.Balance(ctx, "p1", "w1")
	assert.True(t, b.Quantity.Equal(d("40")), "una segunda nacionalización no registra nada")
}

func TestImports_NationalizeRequiereProductos(t *testing.T) {
	f := newImportFixture(t)
	ctx := context.Background()
	id := f.draft(t)
	_, err := f.uc.AddItem(ctx, id, dto.ImportItemRequest{Description: "repuestos", Quantity: d("5"), FOBUnit: d("2")})
	require.NoError(t, err)

	_, err = f.uc.Nationalize(ctx, id, dto.NationalizeRequest{WarehouseID: "w1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	b, err := f.ledger.Balance(ctx, "p1", "w1")
	require.NoError(t, err)
	assert.True(t, b.Quantity.IsZero())

	imp, err := f.uc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ImportDraft), imp.Status)
}

func TestImports_EdicionRecalcula(t *testing.T) {
	f := newImportFixture(t)
	ctx := context.Background()
	id := f.draft(t)

	imp, err := f.uc.GetByID(ctx, id)
	require.NoError(t, err)
	_, err = f.uc.RemoveItem(ctx, id, imp.Items[1].ID)
	require.NoError(t, err)

	freight := d("50")
	_, err = f.uc.UpdateCosts(ctx, id, dto.UpdateImportCostsRequest{Freight: &freight})
	require.NoError(t, err)

	c, err := f.uc.Costing(ctx, id, "")
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.True(t, c.Lines[0].Freight.Equal(d("50")))
	assert.True(t, c.Lines[0].Insurance.Equal(d("20")))
}

func TestImports_ValidacionDeLinea(t *testing.T) {
	f := newImportFixture(t)
	ctx := context.Background()
	id := f.draft(t)

	_, err := f.uc.AddItem(ctx, id, dto.ImportItemRequest{Description: "x", Quantity: d("0"), FOBUnit: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.AddItem(ctx, id, dto.ImportItemRequest{Description: "x", ProductID: "nope", Quantity: d("1"), FOBUnit: d("1")})
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
	_, err = f.uc.AddItem(ctx, "nope", dto.ImportItemRequest{Description: "x", Quantity: d("1"), FOBUnit: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
