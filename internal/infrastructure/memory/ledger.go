package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/inventory"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.StockRepository         = (*StockRepository)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepository)(nil)
)

// StockRepository saldos cacheados por (producto, almacén).
type StockRepository struct{ v view }

func (r *StockRepository) Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryBalance, error) {
	var out *entity.InventoryBalance
	err := r.v.with(func(st *state) error {
		if b, ok := st.balances[inventory.PairKey{ProductID: productID, WarehouseID: warehouseID}]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

// GetForUpdate dentro de una transacción el candado del store ya serializa; fuera de ella
// se comporta como Get. Si el par no existe devuelve un saldo en cero.
func (r *StockRepository) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryBalance, error) {
	b, err := r.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		b = &entity.InventoryBalance{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}
	}
	return b, nil
}

func (r *StockRepository) Upsert(ctx context.Context, b *entity.InventoryBalance) error {
	return r.v.with(func(st *state) error {
		st.balances[inventory.PairKey{ProductID: b.ProductID, WarehouseID: b.WarehouseID}] = *b
		return nil
	})
}

func (r *StockRepository) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.InventoryBalance, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, b := range all {
		if b.WarehouseID == warehouseID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *StockRepository) ListAll(ctx context.Context) ([]*entity.InventoryBalance, error) {
	var out []*entity.InventoryBalance
	err := r.v.with(func(st *state) error {
		keys := make([]inventory.PairKey, 0, len(st.balances))
		for k := range st.balances {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
		for _, k := range keys {
			b := st.balances[k]
			out = append(out, &b)
		}
		return nil
	})
	return out, err
}

// LockAll no hace nada: la transacción en memoria ya es exclusiva.
func (r *StockRepository) LockAll(ctx context.Context) error { return nil }

// StockMovementRepository kardex en memoria, solo inserción.
type StockMovementRepository struct{ v view }

func (r *StockMovementRepository) Append(ctx context.Context, m *entity.StockMovement) (int64, error) {
	var id int64
	err := r.v.with(func(st *state) error {
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		st.lastMovID++
		id = st.lastMovID
		m.ID = id
		st.movements = append(st.movements, *m)
		return nil
	})
	return id, err
}

func (r *StockMovementRepository) List(ctx context.Context, f repository.KardexFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.v.with(func(st *state) error {
		var matched []*entity.StockMovement
		for i := range st.movements {
			m := st.movements[i]
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
				continue
			}
			if f.From != nil && m.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && !m.CreatedAt.Before(*f.To) {
				continue
			}
			matched = append(matched, &m)
		}
		out = page(matched, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func (r *StockMovementRepository) ListAfter(ctx context.Context, afterID int64, limit int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var out []*entity.StockMovement
	err := r.v.with(func(st *state) error {
		// los IDs son 1..n en orden de inserción
		for i := int(afterID); i < len(st.movements) && len(out) < limit; i++ {
			if i < 0 {
				continue
			}
			m := st.movements[i]
			out = append(out, &m)
		}
		return nil
	})
	return out, err
}
