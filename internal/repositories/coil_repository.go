package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"route-backend/internal/models"
)

type CoilRepository struct {
	DB *pgxpool.Pool
}

func NewCoilRepository(db *pgxpool.Pool) *CoilRepository {
	return &CoilRepository{DB: db}
}

// FindOrCreate resolves a coil by (machine, code), creating it on first sight.
func (r *CoilRepository) FindOrCreate(ctx context.Context, machineID int, code string) (*models.Coil, bool, error) {
	var c models.Coil
	created := false

	err := withRetry(ctx, func() error {
		tag, err := r.DB.Exec(ctx, `
			INSERT INTO coils (machine_id, code)
			VALUES ($1, $2)
			ON CONFLICT (machine_id, code) DO NOTHING
		`, machineID, code)
		if err != nil {
			return fmt.Errorf("failed to insert coil: %w", err)
		}
		created = tag.RowsAffected() > 0

		return r.DB.QueryRow(ctx, `
			SELECT id, machine_id, code, created_at, updated_at
			FROM coils WHERE machine_id = $1 AND code = $2
		`, machineID, code).Scan(&c.ID, &c.MachineID, &c.Code, &c.CreatedAt, &c.UpdatedAt)
	})
	if err != nil {
		return nil, false, err
	}
	return &c, created, nil
}

// FindOrCreateItem resolves the coil-item for (coil, sku). A new row takes
// the imported par; an existing row keeps its par unless the import carries a
// different non-nil value, in which case the import wins. Par is a target
// level, so the freshest report is authoritative.
func (r *CoilRepository) FindOrCreateItem(ctx context.Context, coilID, skuID int, par *int) (*models.CoilItem, bool, error) {
	var ci models.CoilItem
	created := false
	insertPar := 0
	if par != nil {
		insertPar = *par
	}

	err := withRetry(ctx, func() error {
		tag, err := r.DB.Exec(ctx, `
			INSERT INTO coil_items (coil_id, sku_id, par)
			VALUES ($1, $2, $3)
			ON CONFLICT (coil_id, sku_id) DO NOTHING
		`, coilID, skuID, insertPar)
		if err != nil {
			return fmt.Errorf("failed to insert coil item: %w", err)
		}
		created = tag.RowsAffected() > 0

		if !created && par != nil {
			if _, err := r.DB.Exec(ctx, `
				UPDATE coil_items SET par = $3, updated_at = NOW()
				WHERE coil_id = $1 AND sku_id = $2 AND par <> $3
			`, coilID, skuID, *par); err != nil {
				return fmt.Errorf("failed to update coil item par: %w", err)
			}
		}

		return r.DB.QueryRow(ctx, `
			SELECT id, coil_id, sku_id, par, created_at, updated_at
			FROM coil_items WHERE coil_id = $1 AND sku_id = $2
		`, coilID, skuID).Scan(&ci.ID, &ci.CoilID, &ci.SKUID, &ci.Par, &ci.CreatedAt, &ci.UpdatedAt)
	})
	if err != nil {
		return nil, false, err
	}
	return &ci, created, nil
}

// ListItemsForMachines returns the coil items of the given machines with
// their coil and machine context, the shape pick generation iterates over.
func (r *CoilRepository) ListItemsForMachines(ctx context.Context, machineIDs []int) ([]*models.CoilItem, error) {
	if len(machineIDs) == 0 {
		return nil, nil
	}
	rows, err := r.DB.Query(ctx, `
		SELECT ci.id, ci.coil_id, ci.sku_id, ci.par, ci.created_at, ci.updated_at
		FROM coil_items ci
		JOIN coils c ON c.id = ci.coil_id
		WHERE c.machine_id = ANY($1)
		ORDER BY c.machine_id, c.code
	`, machineIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list coil items: %w", err)
	}
	defer rows.Close()

	var out []*models.CoilItem
	for rows.Next() {
		var ci models.CoilItem
		if err := rows.Scan(&ci.ID, &ci.CoilID, &ci.SKUID, &ci.Par, &ci.CreatedAt, &ci.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &ci)
	}
	return out, rows.Err()
}
