// Package inventory contiene la lógica pura del kardex: el saldo es un fold determinista
// sobre el historial de movimientos, y el caché se puede reconstruir y verificar contra él.
package inventory

import (
	"sort"

	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PairKey identifica un saldo (producto, almacén).
type PairKey struct {
	ProductID   string
	WarehouseID string
}

// KeyOf devuelve el par de un movimiento.
func KeyOf(m *entity.StockMovement) PairKey {
	return PairKey{ProductID: m.ProductID, WarehouseID: m.WarehouseID}
}

// Less orden total de pares; se usa para tomar bloqueos siempre en el mismo orden.
func (k PairKey) Less(o PairKey) bool {
	if k.ProductID != o.ProductID {
		return k.ProductID < o.ProductID
	}
	return k.WarehouseID < o.WarehouseID
}

// SortedKeys ordena los pares y descarta repetidos.
func SortedKeys(keys []PairKey) []PairKey {
	out := append([]PairKey(nil), keys...)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	uniq := out[:0]
	for _, k := range out {
		if len(uniq) > 0 && uniq[len(uniq)-1] == k {
			continue
		}
		uniq = append(uniq, k)
	}
	return uniq
}

// FoldBalance suma los deltas de una secuencia de movimientos.
func FoldBalance(movements []*entity.StockMovement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.Delta)
	}
	return total
}

// BalanceFold acumula saldos por par mientras se recorre el historial por páginas.
type BalanceFold struct {
	balances map[PairKey]decimal.Decimal
	lastID   map[PairKey]int64
}

// NewBalanceFold crea un acumulador vacío.
func NewBalanceFold() *BalanceFold {
	return &BalanceFold{
		balances: make(map[PairKey]decimal.Decimal),
		lastID:   make(map[PairKey]int64),
	}
}

// Apply incorpora un movimiento.
func (f *BalanceFold) Apply(m *entity.StockMovement) {
	k := KeyOf(m)
	f.balances[k] = f.balances[k].Add(m.Delta)
	if m.ID > f.lastID[k] {
		f.lastID[k] = m.ID
	}
}

// Balance saldo acumulado de un par (cero si no tuvo movimientos).
func (f *BalanceFold) Balance(k PairKey) decimal.Decimal { return f.balances[k] }

// LastMovementID último movimiento aplicado al par.
func (f *BalanceFold) LastMovementID(k PairKey) int64 { return f.lastID[k] }

// Keys pares con al menos un movimiento, en orden estable.
func (f *BalanceFold) Keys() []PairKey {
	keys := make([]PairKey, 0, len(f.balances))
	for k := range f.balances {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Drift diferencia entre el caché y el saldo recalculado.
type Drift struct {
	Key        PairKey
	Cached     decimal.Decimal
	Recomputed decimal.Decimal
}

// Compare contrasta el caché con el fold. Un par cacheado sin movimientos debe valer cero;
// un par con movimientos sin fila cacheada cuenta como caché cero.
func (f *BalanceFold) Compare(cached []*entity.InventoryBalance) []Drift {
	seen := make(map[PairKey]bool, len(cached))
	var drifts []Drift
	for _, b := range cached {
		k := PairKey{ProductID: b.ProductID, WarehouseID: b.WarehouseID}
		seen[k] = true
		want := f.balances[k]
		if !b.Quantity.Equal(want) {
			drifts = append(drifts, Drift{Key: k, Cached: b.Quantity, Recomputed: want})
		}
	}
	for _, k := range f.Keys() {
		if seen[k] {
			continue
		}
		if want := f.balances[k]; !want.IsZero() {
			drifts = append(drifts, Drift{Key: k, Cached: decimal.Zero, Recomputed: want})
		}
	}
	sort.Slice(drifts, func(i, j int) bool { return drifts[i].Key.Less(drifts[j].Key) })
	return drifts
}

// KardexEntry movimiento con el saldo corrido después de aplicarlo.
type KardexEntry struct {
	Movement *entity.StockMovement
	Balance  decimal.Decimal
}

// RunningBalance arma el kardex de un par a partir de sus movimientos en orden de ID.
// opening es el saldo anterior al primer movimiento recibido (cero si se parte del inicio).
func RunningBalance(opening decimal.Decimal, movements []*entity.StockMovement) []KardexEntry {
	sorted := append([]*entity.StockMovement(nil), movements...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	out := make([]KardexEntry, 0, len(sorted))
	bal := opening
	for _, m := range sorted {
		bal = bal.Add(m.Delta)
		out = append(out, KardexEntry{Movement: m, Balance: bal})
	}
	return out
}
