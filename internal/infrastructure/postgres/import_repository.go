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

var _ repository.ImportRepository = (*ImportRepo)(nil)

const importColumns = `id, customs_ref, arrival_date, status, freight, insurance, ad_valorem_rate, fx_rate, created_at, updated_at`

// ImportRepo importaciones y sus líneas sobre PostgreSQL.
type ImportRepo struct {
	q Querier
}

// NewImportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewImportRepository(q Querier) *ImportRepo {
	return &ImportRepo{q: q}
}

// Create persiste la cabecera y las líneas que traiga.
func (r *ImportRepo) Create(ctx context.Context, s *entity.ImportShipment) error {
	query := `
		INSERT INTO import_shipments (` + importColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CustomsRef, s.ArrivalDate, string(s.Status), s.Freight, s.Insurance, s.AdValoremRate, s.FXRate,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: importación %s", domain.ErrDuplicate, s.ID)
		}
		return fmt.Errorf("insert import: %w", err)
	}
	for i := range s.Items {
		if err := r.AddItem(ctx, &s.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

func scanImport(row pgx.Row) (*entity.ImportShipment, error) {
	var s entity.ImportShipment
	var status string
	if err := row.Scan(&s.ID, &s.CustomsRef, &s.ArrivalDate, &status, &s.Freight, &s.Insurance,
		&s.AdValoremRate, &s.FXRate, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Status = entity.ImportStatus(status)
	return &s, nil
}

func (r *ImportRepo) loadItems(ctx context.Context, s *entity.ImportShipment) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, import_id, description, hs_code, COALESCE(product_id, ''), quantity, fob_unit
		FROM import_items WHERE import_id = $1 ORDER BY position`, s.ID)
	if err != nil {
		return fmt.Errorf("list import items: %w", err)
	}
	defer rows.Close()
	s.Items = nil
	for rows.Next() {
		var it entity.ImportLineItem
		if err := rows.Scan(&it.ID, &it.ImportID, &it.Description, &it.HSCode, &it.ProductID, &it.Quantity, &it.FOBUnit); err != nil {
			return fmt.Errorf("scan import item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	return rows.Err()
}

func (r *ImportRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.ImportShipment, error) {
	query := `SELECT ` + importColumns + ` FROM import_shipments WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	s, err := scanImport(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get import: %w", err)
	}
	if err := r.loadItems(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID cabecera con todas sus líneas.
func (r *ImportRepo) GetByID(ctx context.Context, id string) (*entity.ImportShipment, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate igual que GetByID pero bloquea la cabecera.
func (r *ImportRepo) GetForUpdate(ctx context.Context, id string) (*entity.ImportShipment, error) {
	return r.get(ctx, id, true)
}

// UpdateHeader actualiza costos compartidos, estado y datos de aduana. No toca las líneas.
func (r *ImportRepo) UpdateHeader(ctx context.Context, s *entity.ImportShipment) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE import_shipments SET customs_ref = $2, arrival_date = $3, status = $4, freight = $5, insurance = $6,
			ad_valorem_rate = $7, fx_rate = $8, updated_at = $9
		WHERE id = $1`,
		s.ID, s.CustomsRef, s.ArrivalDate, string(s.Status), s.Freight, s.Insurance, s.AdValoremRate, s.FXRate, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update import: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// AddItem agrega una línea al final.
func (r *ImportRepo) AddItem(ctx context.Context, it *entity.ImportLineItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO import_items (id, import_id, position, description, hs_code, product_id, quantity, fob_unit)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM import_items WHERE import_id = $2), $3, $4, $5, $6, $7)`,
		it.ID, it.ImportID, it.Description, it.HSCode, nullString(it.ProductID), it.Quantity, it.FOBUnit,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("%w: línea %s", domain.ErrDuplicate, it.ID)
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: importación %s o producto %s", domain.ErrNotFound, it.ImportID, it.ProductID)
		}
		return fmt.Errorf("insert import item: %w", err)
	}
	return nil
}

// UpdateItem reemplaza los datos de una línea.
func (r *ImportRepo) UpdateItem(ctx context.Context, it *entity.ImportLineItem) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE import_items SET description = $3, hs_code = $4, product_id = $5, quantity = $6, fob_unit = $7
		WHERE import_id = $1 AND id = $2`,
		it.ImportID, it.ID, it.Description, it.HSCode, nullString(it.ProductID), it.Quantity, it.FOBUnit,
	)
	if err != nil {
		return fmt.Errorf("update import item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RemoveItem elimina una línea de una importación no nacionalizada.
func (r *ImportRepo) RemoveItem(ctx context.Context, importID, itemID string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM import_items WHERE import_id = $1 AND id = $2`, importID, itemID)
	if err != nil {
		return fmt.Errorf("delete import item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List importaciones más recientes primero, con sus líneas.
func (r *ImportRepo) List(ctx context.Context, limit, offset int) ([]*entity.ImportShipment, error) {
	qb := psql.Select(importColumns).From("import_shipments").OrderBy("created_at DESC", "id")
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	if offset > 0 {
		qb = qb.Offset(uint64(offset))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list imports: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	var list []*entity.ImportShipment
	for rows.Next() {
		s, err := scanImport(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan import: %w", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		if err := r.loadItems(ctx, s); err != nil {
			return nil, err
		}
	}
	return list, nil
}
