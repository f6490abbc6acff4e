package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.ProductRepository   = (*ProductRepository)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepository)(nil)
)

// ProductRepository productos en memoria.
type ProductRepository struct{ v view }

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return fmt.Errorf("%w: producto %s", domain.ErrDuplicate, p.ID)
		}
		for _, other := range st.products {
			if strings.EqualFold(other.SKU, p.SKU) {
				return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, p.SKU)
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.with(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.with(func(st *state) error {
		for _, p := range st.products {
			if strings.EqualFold(p.SKU, sku) {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return domain.ErrNotFound
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepository) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	return r.v.with(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.ErrNotFound
		}
		p.Cost = cost
		p.UpdatedAt = time.Now()
		st.products[productID] = p
		return nil
	})
}

func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.with(func(st *state) error {
		all := make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			p := p
			all = append(all, &p)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

// WarehouseRepository almacenes en memoria.
type WarehouseRepository struct{ v view }

func (r *WarehouseRepository) Create(ctx context.Context, w *entity.Warehouse) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; ok {
			return fmt.Errorf("%w: almacén %s", domain.ErrDuplicate, w.ID)
		}
		for _, other := range st.warehouses {
			if strings.EqualFold(other.Name, w.Name) {
				return fmt.Errorf("%w: almacén %s", domain.ErrDuplicate, w.Name)
			}
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepository) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.v.with(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepository) GetByName(ctx context.Context, name string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.v.with(func(st *state) error {
		for _, w := range st.warehouses {
			if strings.EqualFold(w.Name, name) {
				w := w
				out = &w
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepository) List(ctx context.Context) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.v.with(func(st *state) error {
		for _, w := range st.warehouses {
			w := w
			out = append(out, &w)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}
