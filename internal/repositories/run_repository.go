package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"route-backend/internal/models"
)

type RunRepository struct {
	DB *pgxpool.Pool
}

func NewRunRepository(db *pgxpool.Pool) *RunRepository {
	return &RunRepository{DB: db}
}

const runColumns = `
	id, company_id, COALESCE(name, ''), picker_user_id, runner_user_id,
	status, scheduled_for, picking_started_at, picking_ended_at,
	created_at, updated_at
`

func scanRun(row pgx.Row, run *models.Run) error {
	return row.Scan(
		&run.ID, &run.CompanyID, &run.Name, &run.PickerUserID, &run.RunnerUserID,
		&run.Status, &run.ScheduledFor, &run.PickingStartedAt, &run.PickingEndedAt,
		&run.CreatedAt, &run.UpdatedAt,
	)
}

func (r *RunRepository) Create(ctx context.Context, companyID int, req *models.CreateRunRequest) (*models.Run, error) {
	var run models.Run
	err := scanRun(r.DB.QueryRow(ctx, `
		INSERT INTO runs (company_id, name, picker_user_id, runner_user_id, status)
		VALUES ($1, $2, $3, $4, 'DRAFT')
		RETURNING `+runColumns,
		companyID, req.Name, req.PickerUserID, req.RunnerUserID), &run)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return &run, nil
}

func (r *RunRepository) Get(ctx context.Context, id int) (*models.Run, error) {
	var run models.Run
	err := scanRun(r.DB.QueryRow(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = $1`, id), &run)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %d: %w", id, err)
	}
	return &run, nil
}

// GetForUpdate reads a run inside tx holding a row lock, so status checks and
// the mutation they guard see a consistent run.
func (r *RunRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int) (*models.Run, error) {
	var run models.Run
	err := scanRun(tx.QueryRow(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = $1 FOR UPDATE`, id), &run)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock run %d: %w", id, err)
	}
	return &run, nil
}

func (r *RunRepository) List(ctx context.Context, companyID int, statuses []models.RunStatus) ([]*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE company_id = $1`
	args := []interface{}{companyID}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		strs := make([]string, len(statuses))
		for i, s := range statuses {
			strs[i] = string(s)
		}
		args = append(args, strs)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []*models.Run
	for rows.Next() {
		var run models.Run
		if err := scanRun(rows, &run); err != nil {
			return nil, err
		}
		out = append(out, &run)
	}
	return out, rows.Err()
}

// UpdateStatus writes the run's status. Transition legality is checked by the
// service before calling; this only persists.
func (r *RunRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status models.RunStatus) error {
	tag, err := tx.Exec(ctx, `
		UPDATE runs SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update run status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrRunNotFound
	}
	return nil
}

func (r *RunRepository) SetScheduledFor(ctx context.Context, tx pgx.Tx, id int, at time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE runs SET scheduled_for = $2, updated_at = NOW() WHERE id = $1
	`, id, at)
	if err != nil {
		return fmt.Errorf("failed to schedule run: %w", err)
	}
	return nil
}

// SetPickingWindow stamps the picking phase boundaries. Nil leaves a side
// untouched.
func (r *RunRepository) SetPickingWindow(ctx context.Context, tx pgx.Tx, id int, startedAt, endedAt *time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE runs SET
			picking_started_at = COALESCE($2, picking_started_at),
			picking_ended_at = COALESCE($3, picking_ended_at),
			updated_at = NOW()
		WHERE id = $1
	`, id, startedAt, endedAt)
	if err != nil {
		return fmt.Errorf("failed to set picking window: %w", err)
	}
	return nil
}

// ClearPickingEnd nulls picking_ended_at when a run reopens for more picking.
func (r *RunRepository) ClearPickingEnd(ctx context.Context, tx pgx.Tx, id int) error {
	_, err := tx.Exec(ctx, `
		UPDATE runs SET picking_ended_at = NULL, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to clear picking end: %w", err)
	}
	return nil
}
