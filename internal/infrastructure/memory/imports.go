package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

var _ repository.ImportRepository = (*ImportRepository)(nil)

// ImportRepository importaciones en memoria.
type ImportRepository struct{ v view }

func (r *ImportRepository) Create(ctx context.Context, s *entity.ImportShipment) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.imports[s.ID]; ok {
			return fmt.Errorf("%w: importación %s", domain.ErrDuplicate, s.ID)
		}
		st.imports[s.ID] = s.Clone()
		return nil
	})
}

func (r *ImportRepository) GetByID(ctx context.Context, id string) (*entity.ImportShipment, error) {
	var out *entity.ImportShipment
	err := r.v.with(func(st *state) error {
		if s, ok := st.imports[id]; ok {
			out = s.Clone()
		}
		return nil
	})
	return out, err
}

func (r *ImportRepository) GetForUpdate(ctx context.Context, id string) (*entity.ImportShipment, error) {
	return r.GetByID(ctx, id)
}

// UpdateHeader reemplaza la cabecera conservando las líneas guardadas.
func (r *ImportRepository) UpdateHeader(ctx context.Context, s *entity.ImportShipment) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.imports[s.ID]
		if !ok {
			return domain.ErrNotFound
		}
		next := s.Clone()
		next.Items = cur.Items
		st.imports[s.ID] = next
		return nil
	})
}

func (r *ImportRepository) AddItem(ctx context.Context, it *entity.ImportLineItem) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.imports[it.ImportID]
		if !ok {
			return domain.ErrNotFound
		}
		for _, existing := range cur.Items {
			if existing.ID == it.ID {
				return fmt.Errorf("%w: línea %s", domain.ErrDuplicate, it.ID)
			}
		}
		cur.Items = append(cur.Items, *it)
		return nil
	})
}

func (r *ImportRepository) UpdateItem(ctx context.Context, it *entity.ImportLineItem) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.imports[it.ImportID]
		if !ok {
			return domain.ErrNotFound
		}
		for i := range cur.Items {
			if cur.Items[i].ID == it.ID {
				cur.Items[i] = *it
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *ImportRepository) RemoveItem(ctx context.Context, importID, itemID string) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.imports[importID]
		if !ok {
			return domain.ErrNotFound
		}
		for i := range cur.Items {
			if cur.Items[i].ID == itemID {
				cur.Items = append(cur.Items[:i:i], cur.Items[i+1:]...)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *ImportRepository) List(ctx context.Context, limit, offset int) ([]*entity.ImportShipment, error) {
	var out []*entity.ImportShipment
	err := r.v.with(func(st *state) error {
		all := make([]*entity.ImportShipment, 0, len(st.imports))
		for _, s := range st.imports {
			all = append(all, s.Clone())
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].ID < all[j].ID
			}
			return all[i].CreatedAt.After(all[j].CreatedAt)
		})
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}
