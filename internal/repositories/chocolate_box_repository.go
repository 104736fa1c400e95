package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"route-backend/internal/models"
)

type ChocolateBoxRepository struct {
	DB *pgxpool.Pool
}

func NewChocolateBoxRepository(db *pgxpool.Pool) *ChocolateBoxRepository {
	return &ChocolateBoxRepository{DB: db}
}

// Create adds a numbered box to a run. Box numbers are unique per run; a
// duplicate surfaces as ErrDuplicateBoxNumber rather than a driver error.
func (r *ChocolateBoxRepository) Create(ctx context.Context, box *models.ChocolateBox) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO chocolate_boxes (run_id, number, machine_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, box.RunID, box.Number, box.MachineID).Scan(&box.ID, &box.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrDuplicateBoxNumber
		}
		return fmt.Errorf("failed to create chocolate box: %w", err)
	}
	return nil
}

func (r *ChocolateBoxRepository) ListByRun(ctx context.Context, runID int) ([]*models.ChocolateBox, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, run_id, number, machine_id, created_at
		FROM chocolate_boxes
		WHERE run_id = $1
		ORDER BY number
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chocolate boxes: %w", err)
	}
	defer rows.Close()

	var out []*models.ChocolateBox
	for rows.Next() {
		var box models.ChocolateBox
		if err := rows.Scan(&box.ID, &box.RunID, &box.Number, &box.MachineID, &box.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &box)
	}
	return out, rows.Err()
}

func (r *ChocolateBoxRepository) Delete(ctx context.Context, runID, boxID int) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM chocolate_boxes WHERE id = $1 AND run_id = $2`, boxID, runID)
	if err != nil {
		return fmt.Errorf("failed to delete chocolate box: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("chocolate box %d not found in run %d", boxID, runID)
	}
	return nil
}
