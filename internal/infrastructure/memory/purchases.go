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

var _ repository.PurchaseRepository = (*PurchaseRepository)(nil)

// PurchaseRepository registro de compras en memoria.
type PurchaseRepository struct{ v view }

func (r *PurchaseRepository) Create(ctx context.Context, inv *entity.PurchaseInvoice) error {
	return r.v.with(func(st *state) error {
		for _, other := range st.purchases {
			if other.ID == inv.ID || (other.RUC == inv.RUC && other.Series == inv.Series && other.Number == inv.Number) {
				return fmt.Errorf("%w: comprobante %s-%s", domain.ErrDuplicate, inv.Series, inv.Number)
			}
		}
		st.purchases[inv.ID] = *inv
		return nil
	})
}

func (r *PurchaseRepository) ListBetween(ctx context.Context, start, end time.Time) ([]*entity.PurchaseInvoice, error) {
	var out []*entity.PurchaseInvoice
	err := r.v.with(func(st *state) error {
		for _, inv := range st.purchases {
			if inv.Date.Before(start) || !inv.Date.Before(end) {
				continue
			}
			inv := inv
			out = append(out, &inv)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Date.Equal(out[j].Date) {
				return out[i].ID < out[j].ID
			}
			return out[i].Date.Before(out[j].Date)
		})
		return nil
	})
	return out, err
}
