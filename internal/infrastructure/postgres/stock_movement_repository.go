package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, transaction_id, product_id, warehouse_id, type, reason, delta, created_at`

// StockMovementRepo kardex sobre PostgreSQL. La tabla rechaza UPDATE y DELETE por trigger.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append inserta el movimiento; el ID lo asigna la secuencia.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) (int64, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO stock_movements (transaction_id, product_id, warehouse_id, type, reason, delta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.TransactionID, m.ProductID, m.WarehouseID, string(m.Type), m.Reason, m.Delta, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: producto %s / almacén %s", domain.ErrInvalidInput, m.ProductID, m.WarehouseID)
		}
		return 0, fmt.Errorf("create stock movement: %w", err)
	}
	return m.ID, nil
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var typ string
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ProductID, &m.WarehouseID, &typ,
			&m.Reason, &m.Delta, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Type = entity.MovementType(typ)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// List movimientos filtrados en orden de inserción. El rango de fechas es [From, To).
func (r *StockMovementRepo) List(ctx context.Context, f repository.KardexFilter) ([]*entity.StockMovement, error) {
	qb := psql.Select(movementColumns).From("stock_movements").OrderBy("id")
	if f.ProductID != "" {
		qb = qb.Where("product_id = ?", f.ProductID)
	}
	if f.WarehouseID != "" {
		qb = qb.Where("warehouse_id = ?", f.WarehouseID)
	}
	if f.From != nil {
		qb = qb.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		qb = qb.Where("created_at < ?", *f.To)
	}
	if f.Limit > 0 {
		qb = qb.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		qb = qb.Offset(uint64(f.Offset))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build kardex query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return scanMovements(rows)
}

// ListAfter siguiente página del historial completo por ID.
func (r *StockMovementRepo) ListAfter(ctx context.Context, afterID int64, limit int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidInput
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+movementColumns+` FROM stock_movements WHERE id > $1 ORDER BY id LIMIT $2`,
		afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list movements after: %w", err)
	}
	return scanMovements(rows)
}
