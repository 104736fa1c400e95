package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"route-backend/internal/models"
)

type SKURepository struct {
	DB *pgxpool.Pool
}

func NewSKURepository(db *pgxpool.Pool) *SKURepository {
	return &SKURepository{DB: db}
}

const skuColumns = `
	id, code, name, COALESCE(type, ''), COALESCE(category, ''),
	weight_grams, COALESCE(label_colour, ''), is_fresh_or_frozen,
	count_pointer, expiry_days, created_at, updated_at
`

func scanSKU(row pgx.Row, s *models.SKU) error {
	return row.Scan(
		&s.ID, &s.Code, &s.Name, &s.Type, &s.Category,
		&s.WeightGrams, &s.LabelColour, &s.IsFreshOrFrozen,
		&s.CountPointer, &s.ExpiryDays, &s.CreatedAt, &s.UpdatedAt,
	)
}

// FindOrCreate resolves a SKU by its global code, creating it with the
// default pointer on first sight. Name and category on an existing row are
// only filled in when blank; imports never clobber curated values.
func (r *SKURepository) FindOrCreate(ctx context.Context, code, name, category string) (*models.SKU, bool, error) {
	var s models.SKU
	created := false

	err := withRetry(ctx, func() error {
		tag, err := r.DB.Exec(ctx, `
			INSERT INTO skus (code, name, category, count_pointer)
			VALUES ($1, $2, $3, 'current')
			ON CONFLICT (code) DO NOTHING
		`, code, name, category)
		if err != nil {
			return fmt.Errorf("failed to insert sku: %w", err)
		}
		created = tag.RowsAffected() > 0

		if !created {
			if _, err := r.DB.Exec(ctx, `
				UPDATE skus SET
					name = CASE WHEN name = '' THEN $2 ELSE name END,
					category = CASE WHEN COALESCE(category, '') = '' THEN $3 ELSE category END,
					updated_at = NOW()
				WHERE code = $1
			`, code, name, category); err != nil {
				return fmt.Errorf("failed to backfill sku: %w", err)
			}
		}

		return scanSKU(r.DB.QueryRow(ctx,
			`SELECT `+skuColumns+` FROM skus WHERE code = $1`, code), &s)
	})
	if err != nil {
		return nil, false, err
	}
	return &s, created, nil
}

func (r *SKURepository) Get(ctx context.Context, id int) (*models.SKU, error) {
	var s models.SKU
	err := scanSKU(r.DB.QueryRow(ctx,
		`SELECT `+skuColumns+` FROM skus WHERE id = $1`, id), &s)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrSKUNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sku %d: %w", id, err)
	}
	return &s, nil
}

func (r *SKURepository) List(ctx context.Context) ([]*models.SKU, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+skuColumns+` FROM skus ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list skus: %w", err)
	}
	defer rows.Close()

	var out []*models.SKU
	for rows.Next() {
		var s models.SKU
		if err := scanSKU(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// UpdatePointer changes which imported count field future pick lines of this
// SKU resolve against. Existing pick entries keep their frozen counts.
func (r *SKURepository) UpdatePointer(ctx context.Context, id int, pointer models.CountPointer) (*models.SKU, error) {
	var s models.SKU
	err := scanSKU(r.DB.QueryRow(ctx, `
		UPDATE skus SET count_pointer = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+skuColumns,
		id, pointer), &s)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrSKUNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update sku pointer: %w", err)
	}
	return &s, nil
}

// UpdateExpiryDays sets or clears the SKU's default shelf life.
func (r *SKURepository) UpdateExpiryDays(ctx context.Context, id int, days *int) (*models.SKU, error) {
	var s models.SKU
	err := scanSKU(r.DB.QueryRow(ctx, `
		UPDATE skus SET expiry_days = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+skuColumns,
		id, days), &s)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrSKUNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update sku expiry days: %w", err)
	}
	return &s, nil
}
