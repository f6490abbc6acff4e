package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para almacenes.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste un nuevo almacén.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, name, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, w.ID, w.Name, w.Location, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: almacén %s", domain.ErrDuplicate, w.Name)
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

func (r *WarehouseRepo) getOne(ctx context.Context, where string, arg any) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.q.QueryRow(ctx,
		`SELECT id, name, location, created_at, updated_at FROM warehouses WHERE `+where, arg,
	).Scan(&w.ID, &w.Name, &w.Location, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// GetByID obtiene un almacén por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	return r.getOne(ctx, `id = $1`, id)
}

// GetByName obtiene un almacén por nombre (sin distinguir mayúsculas).
func (r *WarehouseRepo) GetByName(ctx context.Context, name string) (*entity.Warehouse, error) {
	return r.getOne(ctx, `lower(name) = lower($1)`, name)
}

// List todos los almacenes por nombre.
func (r *WarehouseRepo) List(ctx context.Context) ([]*entity.Warehouse, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, location, created_at, updated_at FROM warehouses ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Location, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}
