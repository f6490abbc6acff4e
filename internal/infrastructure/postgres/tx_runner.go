package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/cressendo-erp/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los candados tomados con GetForUpdate se liberan al terminar.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ports.Repos{
		Movements: NewStockMovementRepository(tx),
		Stock:     NewStockRepository(tx),
		Products:  NewProductRepository(tx),
		Sales:     NewSalesRepository(tx),
		Imports:   NewImportRepository(tx),
	}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
