package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"route-backend/internal/cache"
	"route-backend/internal/metrics"
	"route-backend/internal/models"
	"route-backend/internal/repositories"
)

// RunService owns the run lifecycle outside of picking: creation, scheduling,
// delivery, cancellation and archival.
type RunService struct {
	DB      *pgxpool.Pool
	RunRepo *repositories.RunRepository
}

func NewRunService(db *pgxpool.Pool, runRepo *repositories.RunRepository) *RunService {
	return &RunService{DB: db, RunRepo: runRepo}
}

func (s *RunService) Create(ctx context.Context, companyID int, req *models.CreateRunRequest) (*models.Run, error) {
	run, err := s.RunRepo.Create(ctx, companyID, req)
	if err != nil {
		return nil, err
	}
	cache.InvalidateRunCaches(ctx)
	log.Printf("[Run] Created run %d (%s)", run.ID, run.Name)
	return run, nil
}

func (s *RunService) Get(ctx context.Context, id int) (*models.Run, error) {
	return s.RunRepo.Get(ctx, id)
}

// runListTTL is short: run lists change often and invalidation on mutation
// already covers the common case.
const runListTTL = 30 * time.Second

func (s *RunService) List(ctx context.Context, companyID int, statuses []models.RunStatus) ([]*models.Run, error) {
	parts := make([]string, len(statuses))
	for i, st := range statuses {
		parts[i] = string(st)
	}
	key := fmt.Sprintf("runs:list:%d:%s", companyID, strings.Join(parts, ","))

	if data, ok := cache.GetCached(ctx, key); ok {
		var runs []*models.Run
		if err := json.Unmarshal(data, &runs); err == nil {
			return runs, nil
		}
	}

	runs, err := s.RunRepo.List(ctx, companyID, statuses)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(runs); err == nil {
		cache.SetCached(ctx, key, data, runListTTL)
	}
	return runs, nil
}

// Schedule moves a READY run to SCHEDULED with a delivery time.
func (s *RunService) Schedule(ctx context.Context, id int, req *models.ScheduleRunRequest) (*models.Run, error) {
	return s.applyEvent(ctx, id, models.RunEventScheduled, func(tx pgx.Tx) error {
		return s.RunRepo.SetScheduledFor(ctx, tx, id, req.ScheduledFor)
	})
}

// StartDelivery moves a SCHEDULED run to IN_PROGRESS.
func (s *RunService) StartDelivery(ctx context.Context, id int) (*models.Run, error) {
	return s.applyEvent(ctx, id, models.RunEventDeliveryStarted, nil)
}

// CompleteDelivery moves an IN_PROGRESS run to COMPLETED, locking its picks.
func (s *RunService) CompleteDelivery(ctx context.Context, id int) (*models.Run, error) {
	return s.applyEvent(ctx, id, models.RunEventDeliveryCompleted, nil)
}

// Cancel abandons a run. Completed runs cannot be cancelled, only archived.
func (s *RunService) Cancel(ctx context.Context, id int) (*models.Run, error) {
	return s.applyEvent(ctx, id, models.RunEventCancelled, nil)
}

// Archive moves a run to HISTORICAL for record keeping.
func (s *RunService) Archive(ctx context.Context, id int) (*models.Run, error) {
	return s.applyEvent(ctx, id, models.RunEventArchived, nil)
}

// applyEvent runs one lifecycle event under the run's row lock. extra, when
// given, runs in the same transaction after the status write.
func (s *RunService) applyEvent(ctx context.Context, id int, event models.RunEvent, extra func(tx pgx.Tx) error) (*models.Run, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	run, err := s.RunRepo.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	next, err := models.NextRunStatus(run.Status, event)
	if err != nil {
		return nil, err
	}
	if err := s.RunRepo.UpdateStatus(ctx, tx, id, next); err != nil {
		return nil, err
	}
	if extra != nil {
		if err := extra(tx); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.RunTransitionsTotal.WithLabelValues(string(next)).Inc()
	cache.InvalidateRunCaches(ctx)
	log.Printf("[Run] Run %d: %s -> %s (%s)", id, run.Status, next, event)

	return s.RunRepo.Get(ctx, id)
}
