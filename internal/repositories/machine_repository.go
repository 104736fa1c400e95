package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"route-backend/internal/models"
)

type MachineRepository struct {
	DB *pgxpool.Pool
}

func NewMachineRepository(db *pgxpool.Pool) *MachineRepository {
	return &MachineRepository{DB: db}
}

// FindOrCreateType resolves a machine type by name, creating it on first
// sight.
func (r *MachineRepository) FindOrCreateType(ctx context.Context, name string) (*models.MachineType, error) {
	var mt models.MachineType
	err := withRetry(ctx, func() error {
		if _, err := r.DB.Exec(ctx, `
			INSERT INTO machine_types (name)
			VALUES ($1)
			ON CONFLICT (name) DO NOTHING
		`, name); err != nil {
			return fmt.Errorf("failed to insert machine type: %w", err)
		}
		return r.DB.QueryRow(ctx,
			`SELECT id, name FROM machine_types WHERE name = $1`, name,
		).Scan(&mt.ID, &mt.Name)
	})
	if err != nil {
		return nil, err
	}
	return &mt, nil
}

// FindOrCreate resolves a machine by (company, code), creating it on first
// sight. Description, type and location are only filled in when the existing
// row is blank; imports never overwrite curated values with spreadsheet ones.
func (r *MachineRepository) FindOrCreate(ctx context.Context, companyID int, code, description string, machineTypeID, locationID *int) (*models.Machine, bool, error) {
	var m models.Machine
	created := false

	err := withRetry(ctx, func() error {
		tag, err := r.DB.Exec(ctx, `
			INSERT INTO machines (company_id, code, description, machine_type_id, location_id)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (company_id, code) DO NOTHING
		`, companyID, code, description, machineTypeID, locationID)
		if err != nil {
			return fmt.Errorf("failed to insert machine: %w", err)
		}
		created = tag.RowsAffected() > 0

		if !created {
			if _, err := r.DB.Exec(ctx, `
				UPDATE machines SET
					description = CASE WHEN description = '' THEN $3 ELSE description END,
					machine_type_id = COALESCE(machine_type_id, $4),
					location_id = COALESCE(location_id, $5),
					updated_at = NOW()
				WHERE company_id = $1 AND code = $2
			`, companyID, code, description, machineTypeID, locationID); err != nil {
				return fmt.Errorf("failed to backfill machine: %w", err)
			}
		}

		return r.scanOne(ctx, `WHERE m.company_id = $1 AND m.code = $2`, &m, companyID, code)
	})
	if err != nil {
		return nil, false, err
	}
	return &m, created, nil
}

func (r *MachineRepository) Get(ctx context.Context, id int) (*models.Machine, error) {
	var m models.Machine
	if err := r.scanOne(ctx, `WHERE m.id = $1`, &m, id); err != nil {
		return nil, fmt.Errorf("failed to get machine %d: %w", id, err)
	}
	return &m, nil
}

func (r *MachineRepository) scanOne(ctx context.Context, where string, m *models.Machine, args ...interface{}) error {
	query := `
		SELECT m.id, m.company_id, m.code, m.description,
		       m.machine_type_id, COALESCE(mt.name, ''),
		       m.location_id, COALESCE(l.name, ''),
		       m.created_at, m.updated_at
		FROM machines m
		LEFT JOIN machine_types mt ON mt.id = m.machine_type_id
		LEFT JOIN locations l ON l.id = m.location_id
	` + where
	return r.DB.QueryRow(ctx, query, args...).Scan(
		&m.ID, &m.CompanyID, &m.Code, &m.Description,
		&m.MachineTypeID, &m.MachineTypeName,
		&m.LocationID, &m.LocationName,
		&m.CreatedAt, &m.UpdatedAt,
	)
}

func (r *MachineRepository) List(ctx context.Context, companyID int) ([]*models.Machine, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT m.id, m.company_id, m.code, m.description,
		       m.machine_type_id, COALESCE(mt.name, ''),
		       m.location_id, COALESCE(l.name, ''),
		       m.created_at, m.updated_at
		FROM machines m
		LEFT JOIN machine_types mt ON mt.id = m.machine_type_id
		LEFT JOIN locations l ON l.id = m.location_id
		WHERE m.company_id = $1
		ORDER BY m.code
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	defer rows.Close()

	var out []*models.Machine
	for rows.Next() {
		var m models.Machine
		if err := rows.Scan(
			&m.ID, &m.CompanyID, &m.Code, &m.Description,
			&m.MachineTypeID, &m.MachineTypeName,
			&m.LocationID, &m.LocationName,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
