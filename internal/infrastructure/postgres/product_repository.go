package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, category, unit_price, dozen_price, hundred_price, cost, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Las tarifas ausentes se guardan como NULL.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Category,
		p.UnitPrice.Null(), p.DozenPrice.Null(), p.HundredPrice.Null(),
		p.Cost, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, p.SKU)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var unit, dozen, hundred decimal.NullDecimal
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &unit, &dozen, &hundred,
		&p.Cost, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.UnitPrice = entity.TierFromNull(unit)
	p.DozenPrice = entity.TierFromNull(dozen)
	p.HundredPrice = entity.TierFromNull(hundred)
	return &p, nil
}

func (r *ProductRepo) getOne(ctx context.Context, where string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `id = $1`, id)
}

// GetBySKU obtiene un producto por SKU (sin distinguir mayúsculas).
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `lower(sku) = lower($1)`, sku)
}

// Update actualiza nombre, categoría y tarifas. No toca Cost: se maneja vía UpdateCost.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, category = $3, unit_price = $4, dozen_price = $5, hundred_price = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Category, p.UnitPrice.Null(), p.DozenPrice.Null(), p.HundredPrice.Null(), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCost actualiza solo el costo base (usado por la nacionalización).
func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`,
		productID, cost,
	)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos por SKU con paginación. limit <= 0 no limita.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	qb := psql.Select(productColumns).From("products").OrderBy("sku")
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	if offset > 0 {
		qb = qb.Offset(uint64(offset))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list products: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
