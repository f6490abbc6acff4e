package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo registro de compras sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create inserta un comprobante. (RUC, serie, número) es único.
func (r *PurchaseRepo) Create(ctx context.Context, inv *entity.PurchaseInvoice) error {
	query, args, err := psql.Insert("purchase_invoices").
		Columns("id", "date", "provider", "ruc", "doc_type", "series", "number", "base_amount", "igv_amount", "total_amount", "created_at").
		Values(inv.ID, inv.Date, inv.Provider, inv.RUC, inv.DocType, inv.Series, inv.Number,
			inv.BaseAmount, inv.IGVAmount, inv.TotalAmount, inv.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert purchase: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: comprobante %s %s-%s", domain.ErrDuplicate, inv.RUC, inv.Series, inv.Number)
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// ListBetween comprobantes con fecha en [start, end).
func (r *PurchaseRepo) ListBetween(ctx context.Context, start, end time.Time) ([]*entity.PurchaseInvoice, error) {
	query, args, err := psql.
		Select("id", "date", "provider", "ruc", "doc_type", "series", "number", "base_amount", "igv_amount", "total_amount", "created_at").
		From("purchase_invoices").
		Where(squirrel.GtOrEq{"date": start}).
		Where(squirrel.Lt{"date": end}).
		OrderBy("date", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build purchase register query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseInvoice
	for rows.Next() {
		var p entity.PurchaseInvoice
		if err := rows.Scan(&p.ID, &p.Date, &p.Provider, &p.RUC, &p.DocType, &p.Series, &p.Number,
			&p.BaseAmount, &p.IGVAmount, &p.TotalAmount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
