package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"route-backend/internal/models"
)

type LocationRepository struct {
	DB *pgxpool.Pool
}

func NewLocationRepository(db *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{DB: db}
}

// FindOrCreate resolves a location by case-insensitive name within a company,
// creating it on first sight. Concurrent imports of the same name race on the
// unique index; ON CONFLICT DO NOTHING plus a re-read makes both land on the
// same row. The created flag is true only for the row's actual creator.
func (r *LocationRepository) FindOrCreate(ctx context.Context, companyID int, name string) (*models.Location, bool, error) {
	var loc models.Location
	created := false

	err := withRetry(ctx, func() error {
		tag, err := r.DB.Exec(ctx, `
			INSERT INTO locations (company_id, name)
			VALUES ($1, $2)
			ON CONFLICT (company_id, lower(name)) DO NOTHING
		`, companyID, name)
		if err != nil {
			return fmt.Errorf("failed to insert location: %w", err)
		}
		created = tag.RowsAffected() > 0

		return r.DB.QueryRow(ctx, `
			SELECT id, company_id, name, COALESCE(address, ''),
			       opening_minutes, closing_minutes, dwell_minutes,
			       created_at, updated_at
			FROM locations
			WHERE company_id = $1 AND lower(name) = lower($2)
		`, companyID, name).Scan(
			&loc.ID, &loc.CompanyID, &loc.Name, &loc.Address,
			&loc.OpeningMinutes, &loc.ClosingMinutes, &loc.DwellMinutes,
			&loc.CreatedAt, &loc.UpdatedAt,
		)
	})
	if err != nil {
		return nil, false, err
	}
	return &loc, created, nil
}

func (r *LocationRepository) Get(ctx context.Context, id int) (*models.Location, error) {
	var loc models.Location
	err := r.DB.QueryRow(ctx, `
		SELECT id, company_id, name, COALESCE(address, ''),
		       opening_minutes, closing_minutes, dwell_minutes,
		       created_at, updated_at
		FROM locations WHERE id = $1
	`, id).Scan(
		&loc.ID, &loc.CompanyID, &loc.Name, &loc.Address,
		&loc.OpeningMinutes, &loc.ClosingMinutes, &loc.DwellMinutes,
		&loc.CreatedAt, &loc.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get location %d: %w", id, err)
	}
	return &loc, nil
}

func (r *LocationRepository) List(ctx context.Context, companyID int) ([]*models.Location, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, company_id, name, COALESCE(address, ''),
		       opening_minutes, closing_minutes, dwell_minutes,
		       created_at, updated_at
		FROM locations
		WHERE company_id = $1
		ORDER BY name
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var out []*models.Location
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(
			&loc.ID, &loc.CompanyID, &loc.Name, &loc.Address,
			&loc.OpeningMinutes, &loc.ClosingMinutes, &loc.DwellMinutes,
			&loc.CreatedAt, &loc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &loc)
	}
	return out, rows.Err()
}
