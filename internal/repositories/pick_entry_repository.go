package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"route-backend/internal/models"
)

type PickEntryRepository struct {
	DB *pgxpool.Pool
}

func NewPickEntryRepository(db *pgxpool.Pool) *PickEntryRepository {
	return &PickEntryRepository{DB: db}
}

// Upsert inserts a pick entry for (run, coil item), or refreshes the frozen
// count if one exists and is still PENDING with no override. Re-generating a
// run never duplicates lines and never tramples picker progress.
func (r *PickEntryRepository) Upsert(ctx context.Context, tx pgx.Tx, runID, coilItemID, skuID, count int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO pick_entries (run_id, coil_item_id, sku_id, count, status)
		VALUES ($1, $2, $3, $4, 'PENDING')
		ON CONFLICT (run_id, coil_item_id) DO UPDATE SET
			count = EXCLUDED.count,
			sku_id = EXCLUDED.sku_id,
			updated_at = NOW()
		WHERE pick_entries.status = 'PENDING'
		  AND pick_entries.override_count IS NULL
	`, runID, coilItemID, skuID, count)
	if err != nil {
		return fmt.Errorf("failed to upsert pick entry: %w", err)
	}
	return nil
}

const pickEntryColumns = `
	pe.id, pe.run_id, pe.coil_item_id, pe.count, pe.override_count,
	pe.status, pe.picked_at,
	pe.sku_id, s.code, s.name,
	c.code, m.code, COALESCE(l.name, ''),
	pe.created_at, pe.updated_at
`

const pickEntryJoins = `
	FROM pick_entries pe
	JOIN skus s ON s.id = pe.sku_id
	JOIN coil_items ci ON ci.id = pe.coil_item_id
	JOIN coils c ON c.id = ci.coil_id
	JOIN machines m ON m.id = c.machine_id
	LEFT JOIN locations l ON l.id = m.location_id
`

func scanPickEntry(row pgx.Row, e *models.PickEntry) error {
	return row.Scan(
		&e.ID, &e.RunID, &e.CoilItemID, &e.Count, &e.OverrideCount,
		&e.Status, &e.PickedAt,
		&e.SKUID, &e.SKUCode, &e.SKUName,
		&e.CoilCode, &e.MachineCode, &e.LocationName,
		&e.CreatedAt, &e.UpdatedAt,
	)
}

// ListByRun returns every entry of a run with display context and expiry
// overrides, ordered the way pickers walk the warehouse: location, machine,
// coil.
func (r *PickEntryRepository) ListByRun(ctx context.Context, runID int) ([]*models.PickEntry, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+pickEntryColumns+pickEntryJoins+`
		WHERE pe.run_id = $1
		ORDER BY COALESCE(l.name, ''), m.code, c.code`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pick entries: %w", err)
	}
	defer rows.Close()

	var out []*models.PickEntry
	byID := make(map[int]*models.PickEntry)
	for rows.Next() {
		var e models.PickEntry
		if err := scanPickEntry(rows, &e); err != nil {
			return nil, err
		}
		out = append(out, &e)
		byID[e.ID] = &e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachExpiries(ctx, runID, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PickEntryRepository) attachExpiries(ctx context.Context, runID int, byID map[int]*models.PickEntry) error {
	rows, err := r.DB.Query(ctx, `
		SELECT ee.id, ee.pick_entry_id, ee.expiry_date, ee.quantity
		FROM pick_entry_expiries ee
		JOIN pick_entries pe ON pe.id = ee.pick_entry_id
		WHERE pe.run_id = $1
		ORDER BY ee.expiry_date
	`, runID)
	if err != nil {
		return fmt.Errorf("failed to list expiry overrides: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ov models.ExpiryOverride
		if err := rows.Scan(&ov.ID, &ov.PickEntryID, &ov.ExpiryDate, &ov.Quantity); err != nil {
			return err
		}
		if e, ok := byID[ov.PickEntryID]; ok {
			e.Expiries = append(e.Expiries, ov)
		}
	}
	return rows.Err()
}

// GetForUpdate reads one entry inside tx holding a row lock.
func (r *PickEntryRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int) (*models.PickEntry, error) {
	var e models.PickEntry
	err := tx.QueryRow(ctx, `
		SELECT id, run_id, coil_item_id, count, override_count, status,
		       picked_at, sku_id, created_at, updated_at
		FROM pick_entries WHERE id = $1 FOR UPDATE
	`, id).Scan(
		&e.ID, &e.RunID, &e.CoilItemID, &e.Count, &e.OverrideCount, &e.Status,
		&e.PickedAt, &e.SKUID, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrPickEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock pick entry %d: %w", id, err)
	}
	return &e, nil
}

// SetStatus writes one entry's status, stamping picked_at on PICKED and
// clearing it otherwise.
func (r *PickEntryRepository) SetStatus(ctx context.Context, tx pgx.Tx, id int, status models.PickStatus, at time.Time) error {
	var pickedAt *time.Time
	if status == models.PickPicked {
		pickedAt = &at
	}
	tag, err := tx.Exec(ctx, `
		UPDATE pick_entries SET status = $2, picked_at = $3, updated_at = NOW()
		WHERE id = $1
	`, id, status, pickedAt)
	if err != nil {
		return fmt.Errorf("failed to set pick status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrPickEntryNotFound
	}
	return nil
}

// ResetAll forces every entry of a run back to PENDING.
func (r *PickEntryRepository) ResetAll(ctx context.Context, tx pgx.Tx, runID int) error {
	_, err := tx.Exec(ctx, `
		UPDATE pick_entries
		SET status = 'PENDING', picked_at = NULL, updated_at = NOW()
		WHERE run_id = $1 AND status <> 'PENDING'
	`, runID)
	if err != nil {
		return fmt.Errorf("failed to reset pick entries: %w", err)
	}
	return nil
}

// SetOverride sets or clears (nil) the manual override count.
func (r *PickEntryRepository) SetOverride(ctx context.Context, tx pgx.Tx, id int, override *int) error {
	tag, err := tx.Exec(ctx, `
		UPDATE pick_entries SET override_count = $2, updated_at = NOW()
		WHERE id = $1
	`, id, override)
	if err != nil {
		return fmt.Errorf("failed to set override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrPickEntryNotFound
	}
	return nil
}

// ExpiryQuantitySum totals the expiry override quantities of one entry
// inside tx.
func (r *PickEntryRepository) ExpiryQuantitySum(ctx context.Context, tx pgx.Tx, id int) (int, error) {
	var sum int
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0) FROM pick_entry_expiries WHERE pick_entry_id = $1
	`, id).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum expiry overrides: %w", err)
	}
	return sum, nil
}

// ReplaceExpiries swaps the full expiry override set of one entry.
func (r *PickEntryRepository) ReplaceExpiries(ctx context.Context, tx pgx.Tx, id int, expiries []models.ExpiryOverride) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM pick_entry_expiries WHERE pick_entry_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear expiry overrides: %w", err)
	}
	for _, ov := range expiries {
		if _, err := tx.Exec(ctx, `
			INSERT INTO pick_entry_expiries (pick_entry_id, expiry_date, quantity)
			VALUES ($1, $2, $3)
		`, id, ov.ExpiryDate, ov.Quantity); err != nil {
			return fmt.Errorf("failed to insert expiry override: %w", err)
		}
	}
	return nil
}

// SubstituteSKU swaps the SKU behind a pick entry and updates the coil item
// so future runs pick the replacement too.
func (r *PickEntryRepository) SubstituteSKU(ctx context.Context, tx pgx.Tx, id, coilItemID, newSKUID int) error {
	if _, err := tx.Exec(ctx, `
		UPDATE pick_entries SET sku_id = $2, updated_at = NOW() WHERE id = $1
	`, id, newSKUID); err != nil {
		return fmt.Errorf("failed to substitute pick entry sku: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE coil_items SET sku_id = $2, updated_at = NOW() WHERE id = $1
	`, coilItemID, newSKUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrSKUAlreadyInCoil
		}
		return fmt.Errorf("failed to substitute coil item sku: %w", err)
	}
	return nil
}

// StatusCounts tallies entries of a run by status within tx, used for run
// status recomputation after each mutation.
func (r *PickEntryRepository) StatusCounts(ctx context.Context, tx pgx.Tx, runID int) (pending, picked, skipped int, err error) {
	rows, err := tx.Query(ctx, `
		SELECT status, COUNT(*) FROM pick_entries WHERE run_id = $1 GROUP BY status
	`, runID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count pick entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status models.PickStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return 0, 0, 0, err
		}
		switch status {
		case models.PickPending:
			pending = n
		case models.PickPicked:
			picked = n
		case models.PickSkipped:
			skipped = n
		}
	}
	return pending, picked, skipped, rows.Err()
}

// PickedEvents projects picked entries inside [from, to) for analytics.
func (r *PickEntryRepository) PickedEvents(ctx context.Context, from, to time.Time) ([]*models.PickedEvent, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT pe.picked_at, COALESCE(pe.override_count, pe.count),
		       s.code, s.name,
		       m.code, COALESCE(NULLIF(m.description, ''), m.code),
		       COALESCE(l.id::text, ''), COALESCE(l.name, '')
		`+pickEntryJoins+`
		WHERE pe.status = 'PICKED'
		  AND pe.picked_at >= $1 AND pe.picked_at < $2
		ORDER BY pe.picked_at
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query picked events: %w", err)
	}
	defer rows.Close()

	var out []*models.PickedEvent
	for rows.Next() {
		var ev models.PickedEvent
		if err := rows.Scan(
			&ev.At, &ev.Qty,
			&ev.SKUKey, &ev.SKULabel,
			&ev.MachineKey, &ev.MachineLabel,
			&ev.LocationKey, &ev.LocationLabel,
		); err != nil {
			return nil, err
		}
		out = append(out, &ev)
	}
	return out, rows.Err()
}
