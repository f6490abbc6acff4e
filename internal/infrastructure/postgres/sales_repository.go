package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesRepo)(nil)

const salesColumns = `id, customer, document_type, warehouse_id, total, status, created_at, committed_at`

// SalesRepo ventas y cotizaciones sobre PostgreSQL (cabecera + líneas).
type SalesRepo struct {
	q Querier
}

// NewSalesRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesRepository(q Querier) *SalesRepo {
	return &SalesRepo{q: q}
}

// Create persiste cabecera y líneas. Debe llamarse dentro de una transacción.
func (r *SalesRepo) Create(ctx context.Context, tx *entity.SalesTransaction) error {
	query := `
		INSERT INTO sales_transactions (` + salesColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.Customer, string(tx.DocumentType), tx.WarehouseID, tx.Total, string(tx.Status), tx.CreatedAt, tx.CommittedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: venta %s", domain.ErrDuplicate, tx.ID)
		}
		return fmt.Errorf("insert sales transaction: %w", err)
	}
	for i, l := range tx.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sales_lines (transaction_id, line_no, product_id, quantity, unit_price, tier, subtotal, movement_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			tx.ID, i+1, l.ProductID, l.Quantity, l.UnitPrice, string(l.Tier), l.Subtotal, nullMovementID(l.MovementID),
		)
		if err != nil {
			return fmt.Errorf("insert sales line: %w", err)
		}
	}
	return nil
}

func nullMovementID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func scanSale(row pgx.Row) (*entity.SalesTransaction, error) {
	var t entity.SalesTransaction
	var docType, status string
	if err := row.Scan(&t.ID, &t.Customer, &docType, &t.WarehouseID, &t.Total, &status, &t.CreatedAt, &t.CommittedAt); err != nil {
		return nil, err
	}
	t.DocumentType = entity.DocumentType(docType)
	t.Status = entity.TransactionStatus(status)
	return &t, nil
}

// loadLines completa las líneas de las ventas dadas en una sola consulta.
func (r *SalesRepo) loadLines(ctx context.Context, txs ...*entity.SalesTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.SalesTransaction, len(txs))
	ids := make([]string, 0, len(txs))
	for _, t := range txs {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}
	query, args, err := psql.
		Select("transaction_id", "product_id", "quantity", "unit_price", "tier", "subtotal", "movement_id").
		From("sales_lines").
		Where(squirrel.Eq{"transaction_id": ids}).
		OrderBy("transaction_id", "line_no").
		ToSql()
	if err != nil {
		return fmt.Errorf("build sales lines query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("list sales lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var txID, tier string
		var l entity.SalesLine
		var movID *int64
		if err := rows.Scan(&txID, &l.ProductID, &l.Quantity, &l.UnitPrice, &tier, &l.Subtotal, &movID); err != nil {
			return fmt.Errorf("scan sales line: %w", err)
		}
		l.Tier = entity.TierLabel(tier)
		if movID != nil {
			l.MovementID = *movID
		}
		if t, ok := byID[txID]; ok {
			t.Lines = append(t.Lines, l)
		}
	}
	return rows.Err()
}

// GetByID obtiene la venta con sus líneas.
func (r *SalesRepo) GetByID(ctx context.Context, id string) (*entity.SalesTransaction, error) {
	t, err := scanSale(r.q.QueryRow(ctx, `SELECT `+salesColumns+` FROM sales_transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales transaction: %w", err)
	}
	if err := r.loadLines(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// MarkCommitted promueve una cotización. La condición status = 'QUOTE' garantiza una sola promoción.
func (r *SalesRepo) MarkCommitted(ctx context.Context, tx *entity.SalesTransaction) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales_transactions SET status = $2, committed_at = $3, total = $4
		WHERE id = $1 AND status = 'QUOTE'`,
		tx.ID, string(entity.StatusCommitted), tx.CommittedAt, tx.Total,
	)
	if err != nil {
		return fmt.Errorf("commit sales transaction: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales_transactions WHERE id = $1)`, tx.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check sales transaction: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%w: %s", domain.ErrAlreadyCommitted, tx.ID)
	}
	for i, l := range tx.Lines {
		_, err := r.q.Exec(ctx,
			`UPDATE sales_lines SET movement_id = $3 WHERE transaction_id = $1 AND line_no = $2`,
			tx.ID, i+1, nullMovementID(l.MovementID),
		)
		if err != nil {
			return fmt.Errorf("link sales line movement: %w", err)
		}
	}
	return nil
}

// Discard elimina una cotización con sus líneas (ON DELETE CASCADE). La condición status = 'QUOTE'
// impide borrar una venta confirmada aunque otra transacción la promueva al mismo tiempo.
func (r *SalesRepo) Discard(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales_transactions WHERE id = $1 AND status = 'QUOTE'`, id)
	if err != nil {
		return fmt.Errorf("discard quote: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales_transactions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check sales transaction: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %s", domain.ErrAlreadyCommitted, id)
}

// List historial de ventas y cotizaciones, las más recientes primero.
func (r *SalesRepo) List(ctx context.Context, status entity.TransactionStatus, limit, offset int) ([]*entity.SalesTransaction, error) {
	qb := psql.Select(salesColumns).From("sales_transactions").OrderBy("created_at DESC", "id DESC")
	if status != "" {
		qb = qb.Where(squirrel.Eq{"status": string(status)})
	}
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	if offset > 0 {
		qb = qb.Offset(uint64(offset))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sales history query: %w", err)
	}
	return r.query(ctx, query, args...)
}

// query lee cabeceras y luego completa las líneas en una sola consulta.
func (r *SalesRepo) query(ctx context.Context, query string, args ...any) ([]*entity.SalesTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales transactions: %w", err)
	}
	var list []*entity.SalesTransaction
	for rows.Next() {
		t, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sales transaction: %w", err)
		}
		list = append(list, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, list...); err != nil {
		return nil, err
	}
	return list, nil
}

// ListCommitted ventas confirmadas en [start, end), por fecha de confirmación e ID.
func (r *SalesRepo) ListCommitted(ctx context.Context, start, end time.Time) ([]*entity.SalesTransaction, error) {
	query, args, err := psql.Select(salesColumns).
		From("sales_transactions").
		Where(squirrel.Eq{"status": string(entity.StatusCommitted)}).
		Where(squirrel.GtOrEq{"committed_at": start}).
		Where(squirrel.Lt{"committed_at": end}).
		OrderBy("committed_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sales register query: %w", err)
	}
	return r.query(ctx, query, args...)
}
