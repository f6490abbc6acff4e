package inventory_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/inventory"
)

func mov(id int64, p, w string, delta int64) *entity.StockMovement {
	return &entity.StockMovement{ID: id, ProductID: p, WarehouseID: w, Delta: decimal.NewFromInt(delta)}
}

func TestBalanceFold_ConservacionAleatoria(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	products := []string{"p1", "p2", "p3"}
	warehouses := []string{"central", "tienda"}

	fold := inventory.NewBalanceFold()
	expected := map[inventory.PairKey]int64{}
	byPair := map[inventory.PairKey][]*entity.StockMovement{}

	for i := int64(1); i <= 500; i++ {
		p := products[rng.Intn(len(products))]
		w := warehouses[rng.Intn(len(warehouses))]
		delta := int64(rng.Intn(41) - 20)
		m := mov(i, p, w, delta)
		fold.Apply(m)
		k := inventory.KeyOf(m)
		expected[k] += delta
		byPair[k] = append(byPair[k], m)
	}

	for k, want := range expected {
		assert.True(t, fold.Balance(k).Equal(decimal.NewFromInt(want)), "par %v", k)
		assert.True(t, inventory.FoldBalance(byPair[k]).Equal(decimal.NewFromInt(want)))
	}
}

func TestBalanceFold_Compare(t *testing.T) {
	fold := inventory.NewBalanceFold()
	fold.Apply(mov(1, "p1", "w1", 10))
	fold.Apply(mov(2, "p1", "w1", -3))
	fold.Apply(mov(3, "p2", "w1", 5))

	cached := []*entity.InventoryBalance{
		{ProductID: "p1", WarehouseID: "w1", Quantity: decimal.NewFromInt(7)},
		{ProductID: "p3", WarehouseID: "w1", Quantity: decimal.NewFromInt(4)},
	}
	drifts := fold.Compare(cached)
	require.Len(t, drifts, 2)
	assert.Equal(t, "p2", drifts[0].Key.ProductID)
	assert.True(t, drifts[0].Cached.IsZero())
	assert.True(t, drifts[0].Recomputed.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "p3", drifts[1].Key.ProductID)
	assert.True(t, drifts[1].Recomputed.IsZero())

	assert.Equal(t, int64(2), fold.LastMovementID(inventory.PairKey{ProductID: "p1", WarehouseID: "w1"}))
}

func TestRunningBalance(t *testing.T) {
	entries := inventory.RunningBalance(decimal.Zero, []*entity.StockMovement{
		mov(3, "p", "w", -2),
		mov(1, "p", "w", 10),
		mov(2, "p", "w", 5),
	})
	require.Len(t, entries, 3)
	assert.Equal(t, int64(1), entries[0].Movement.ID)
	assert.True(t, entries[0].Balance.Equal(decimal.NewFromInt(10)))
	assert.True(t, entries[2].Balance.Equal(decimal.NewFromInt(13)))
}

func TestWeightedAverageCost(t *testing.T) {
	got := inventory.WeightedAverageCost(
		decimal.NewFromInt(10), decimal.NewFromInt(5),
		decimal.NewFromInt(10), decimal.NewFromInt(7),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(6)))

	// sin stock previo: costo de la entrada
	got = inventory.WeightedAverageCost(decimal.Zero, decimal.Zero, decimal.NewFromInt(4), decimal.NewFromFloat(3.5))
	assert.True(t, got.Equal(decimal.NewFromFloat(3.5)))

	// stock negativo no arrastra valor
	got = inventory.WeightedAverageCost(decimal.NewFromInt(-2), decimal.NewFromInt(100), decimal.NewFromInt(4), decimal.NewFromInt(3))
	assert.True(t, got.Equal(decimal.NewFromInt(3)))
}

func TestSortedKeys(t *testing.T) {
	got := inventory.SortedKeys([]inventory.PairKey{
		{ProductID: "b", WarehouseID: "w1"},
		{ProductID: "a", WarehouseID: "w2"},
		{ProductID: "b", WarehouseID: "w1"},
		{ProductID: "a", WarehouseID: "w1"},
	})
	assert.Equal(t, []inventory.PairKey{
		{ProductID: "a", WarehouseID: "w1"},
		{ProductID: "a", WarehouseID: "w2"},
		{ProductID: "b", WarehouseID: "w1"},
	}, got)
}
