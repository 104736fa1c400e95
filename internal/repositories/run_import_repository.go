package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"route-backend/internal/models"
)

// RunImportRepository persists spreadsheet snapshots. Rows are append-only:
// there are no update or delete methods on purpose, the snapshot is the audit
// trail of what the spreadsheet said.
type RunImportRepository struct {
	DB *pgxpool.Pool
}

func NewRunImportRepository(db *pgxpool.Pool) *RunImportRepository {
	return &RunImportRepository{DB: db}
}

func (r *RunImportRepository) CreateImport(ctx context.Context, imp *models.RunImport) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO run_imports (batch_id, company_id, run_id, file_name, row_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, imp.BatchID, imp.CompanyID, imp.RunID, imp.FileName, imp.RowCount,
	).Scan(&imp.ID, &imp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create run import: %w", err)
	}
	return nil
}

func (r *RunImportRepository) AddMachine(ctx context.Context, m *models.RunImportMachine) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO run_import_machines
			(run_import_id, location_name, machine_code, machine_description, machine_type_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, m.RunImportID, m.LocationName, m.MachineCode, m.MachineDescription, m.MachineTypeName,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to add import machine: %w", err)
	}
	return nil
}

func (r *RunImportRepository) AddCoilItem(ctx context.Context, ci *models.RunImportCoilItem) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO run_import_coil_items
			(run_import_id, run_import_machine_id, coil_code, sku_code, sku_name,
			 sku_category, par, current, need, forecast, total, short, spoil, inventory_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`, ci.RunImportID, ci.RunImportMachineID, ci.CoilCode, ci.SKUCode, ci.SKUName,
		ci.SKUCategory, ci.Par, ci.Current, ci.Need, ci.Forecast, ci.Total,
		ci.Short, ci.Spoil, ci.InventoryCount,
	).Scan(&ci.ID)
	if err != nil {
		return fmt.Errorf("failed to add import coil item: %w", err)
	}
	return nil
}

func (r *RunImportRepository) ListImports(ctx context.Context, companyID int, limit int) ([]*models.RunImport, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, batch_id, company_id, run_id, COALESCE(file_name, ''), row_count, created_at
		FROM run_imports
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list run imports: %w", err)
	}
	defer rows.Close()

	var out []*models.RunImport
	for rows.Next() {
		var imp models.RunImport
		if err := rows.Scan(&imp.ID, &imp.BatchID, &imp.CompanyID, &imp.RunID,
			&imp.FileName, &imp.RowCount, &imp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &imp)
	}
	return out, rows.Err()
}
