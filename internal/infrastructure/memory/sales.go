package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesRepository)(nil)

// SalesRepository ventas y cotizaciones en memoria.
type SalesRepository struct{ v view }

func (r *SalesRepository) Create(ctx context.Context, tx *entity.SalesTransaction) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.sales[tx.ID]; ok {
			return fmt.Errorf("%w: venta %s", domain.ErrDuplicate, tx.ID)
		}
		st.sales[tx.ID] = tx.Clone()
		return nil
	})
}

func (r *SalesRepository) GetByID(ctx context.Context, id string) (*entity.SalesTransaction, error) {
	var out *entity.SalesTransaction
	err := r.v.with(func(st *state) error {
		if tx, ok := st.sales[id]; ok {
			out = tx.Clone()
		}
		return nil
	})
	return out, err
}

func (r *SalesRepository) MarkCommitted(ctx context.Context, tx *entity.SalesTransaction) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.sales[tx.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if cur.Status != entity.StatusQuote {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyCommitted, tx.ID)
		}
		st.sales[tx.ID] = tx.Clone()
		return nil
	})
}

func (r *SalesRepository) Discard(ctx context.Context, id string) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.sales[id]
		if !ok {
			return domain.ErrNotFound
		}
		if cur.Status != entity.StatusQuote {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyCommitted, id)
		}
		delete(st.sales, id)
		return nil
	})
}

func (r *SalesRepository) List(ctx context.Context, status entity.TransactionStatus, limit, offset int) ([]*entity.SalesTransaction, error) {
	var out []*entity.SalesTransaction
	err := r.v.with(func(st *state) error {
		for _, tx := range st.sales {
			if status != "" && tx.Status != status {
				continue
			}
			out = append(out, tx)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].ID > out[j].ID
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
		out = page(out, limit, offset)
		for i, tx := range out {
			out[i] = tx.Clone()
		}
		return nil
	})
	return out, err
}

func (r *SalesRepository) ListCommitted(ctx context.Context, start, end time.Time) ([]*entity.SalesTransaction, error) {
	var out []*entity.SalesTransaction
	err := r.v.with(func(st *state) error {
		for _, tx := range st.sales {
			if tx.Status != entity.StatusCommitted || tx.CommittedAt == nil {
				continue
			}
			if tx.CommittedAt.Before(start) || !tx.CommittedAt.Before(end) {
				continue
			}
			out = append(out, tx.Clone())
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].CommittedAt.Equal(*out[j].CommittedAt) {
				return out[i].ID < out[j].ID
			}
			return out[i].CommittedAt.Before(*out[j].CommittedAt)
		})
		return nil
	})
	return out, err
}
