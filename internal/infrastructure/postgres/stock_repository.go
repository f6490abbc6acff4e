package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const balanceColumns = `product_id, warehouse_id, quantity, last_movement_id, updated_at`

func scanBalance(row pgx.Row) (*entity.InventoryBalance, error) {
	var b entity.InventoryBalance
	if err := row.Scan(&b.ProductID, &b.WarehouseID, &b.Quantity, &b.LastMovementID, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Get obtiene el saldo cacheado de un producto en un almacén.
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryBalance, error) {
	b, err := scanBalance(r.q.QueryRow(ctx,
		`SELECT `+balanceColumns+` FROM inventory_balances WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryBalance{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return b, nil
}

// GetForUpdate bloquea la fila del par (SELECT FOR UPDATE). Si no existe la crea en cero antes,
// así el primer movimiento de un par también queda serializado.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryBalance, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_balances (product_id, warehouse_id, quantity, last_movement_id, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`,
		productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("ensure stock row: %w", err)
	}
	b, err := scanBalance(r.q.QueryRow(ctx,
		`SELECT `+balanceColumns+` FROM inventory_balances WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE`,
		productID, warehouseID))
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return b, nil
}

// Upsert inserta o actualiza el saldo del par.
func (r *StockRepo) Upsert(ctx context.Context, b *entity.InventoryBalance) error {
	query := `
		INSERT INTO inventory_balances (product_id, warehouse_id, quantity, last_movement_id, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, last_movement_id = EXCLUDED.last_movement_id, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, b.ProductID, b.WarehouseID, b.Quantity, b.LastMovementID, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

func (r *StockRepo) list(ctx context.Context, warehouseID string) ([]*entity.InventoryBalance, error) {
	qb := psql.Select(balanceColumns).From("inventory_balances").OrderBy("product_id", "warehouse_id")
	if warehouseID != "" {
		qb = qb.Where("warehouse_id = ?", warehouseID)
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list stock: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// ListByWarehouse saldos de un almacén.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.InventoryBalance, error) {
	return r.list(ctx, warehouseID)
}

// ListAll todos los saldos cacheados, ordenados por par.
func (r *StockRepo) ListAll(ctx context.Context) ([]*entity.InventoryBalance, error) {
	return r.list(ctx, "")
}

// LockAll bloquea saldos y kardex contra escrituras hasta el fin de la transacción.
func (r *StockRepo) LockAll(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `LOCK TABLE inventory_balances, stock_movements IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock stock: %w", err)
	}
	return nil
}
