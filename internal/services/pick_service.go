package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"route-backend/internal/cache"
	"route-backend/internal/metrics"
	"route-backend/internal/models"
	"route-backend/internal/repositories"
)

// PickService owns pick generation and every picker-facing mutation. All
// mutations run in a transaction holding the run's row lock, and each one
// recomputes the run status from the full entry set before committing, so
// two devices toggling entries at once still converge on the right status.
type PickService struct {
	DB            *pgxpool.Pool
	RunRepo       *repositories.RunRepository
	PickEntryRepo *repositories.PickEntryRepository
	SKURepo       *repositories.SKURepository
}

func NewPickService(
	db *pgxpool.Pool,
	runRepo *repositories.RunRepository,
	pickEntryRepo *repositories.PickEntryRepository,
	skuRepo *repositories.SKURepository,
) *PickService {
	return &PickService{
		DB:            db,
		RunRepo:       runRepo,
		PickEntryRepo: pickEntryRepo,
		SKURepo:       skuRepo,
	}
}

func (s *PickService) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Generate freezes pick lines for a run from reconciled import rows. Counts
// are resolved once here; later pointer or override changes on the SKU never
// rewrite them. A DRAFT run moves to PICKING; re-generation against a
// PICKING run refreshes untouched PENDING lines only.
func (s *PickService) Generate(ctx context.Context, runID int, resolved []*models.ResolvedRow) (*models.RunSnapshot, error) {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		run, err := s.RunRepo.GetForUpdate(ctx, tx, runID)
		if err != nil {
			return err
		}
		if run.Status.IsLocked() || run.Status.IsTerminal() {
			return models.ErrRunLocked
		}

		generated := 0
		for _, row := range resolved {
			if row.CoilItem == nil || row.SKU == nil {
				continue
			}
			count := ResolveCount(row.SKU.CountPointer, row.Counts, row.CoilItem.Par)
			if err := s.PickEntryRepo.Upsert(ctx, tx, runID, row.CoilItem.ID, row.SKU.ID, count); err != nil {
				return err
			}
			generated++
		}

		if run.Status == models.RunDraft {
			next, err := models.NextRunStatus(run.Status, models.RunEventPickingStarted)
			if err != nil {
				return err
			}
			if err := s.RunRepo.UpdateStatus(ctx, tx, runID, next); err != nil {
				return err
			}
			now := time.Now()
			if err := s.RunRepo.SetPickingWindow(ctx, tx, runID, &now, nil); err != nil {
				return err
			}
			metrics.RunTransitionsTotal.WithLabelValues(string(next)).Inc()
		}

		metrics.PicksGeneratedTotal.Add(float64(generated))
		log.Printf("[Pick] Run %d: generated %d pick entries", runID, generated)
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateRunCaches(ctx)
	return s.Snapshot(ctx, runID)
}

// SetStatuses toggles a set of entries to PICKED or SKIPPED. Illegal
// per-entry transitions fail the whole request before anything commits.
func (s *PickService) SetStatuses(ctx context.Context, runID int, req *models.SetPickStatusRequest) (*models.RunSnapshot, error) {
	if !models.ValidPickStatus(req.Status) {
		return nil, fmt.Errorf("unknown pick status %q", req.Status)
	}

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		run, err := s.RunRepo.GetForUpdate(ctx, tx, runID)
		if err != nil {
			return err
		}
		if run.Status.IsLocked() || run.Status.IsTerminal() {
			return models.ErrRunLocked
		}

		now := time.Now()
		for _, id := range req.PickIDs {
			entry, err := s.PickEntryRepo.GetForUpdate(ctx, tx, id)
			if err != nil {
				return err
			}
			if entry.RunID != runID {
				return models.ErrPickEntryNotFound
			}
			if err := models.CheckPickTransition(entry.Status, req.Status, false); err != nil {
				return err
			}
			if err := s.PickEntryRepo.SetStatus(ctx, tx, id, req.Status, now); err != nil {
				return err
			}
		}

		return s.recomputeRunStatus(ctx, tx, run)
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateRunCaches(ctx)
	cache.InvalidateAnalyticsCaches(ctx)
	return s.Snapshot(ctx, runID)
}

// Reset forces entries back to PENDING, either a named subset or the whole
// run when no IDs are given. A READY run reopens to PICKING.
func (s *PickService) Reset(ctx context.Context, runID int, req *models.ResetPicksRequest) (*models.RunSnapshot, error) {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		run, err := s.RunRepo.GetForUpdate(ctx, tx, runID)
		if err != nil {
			return err
		}
		if run.Status.IsLocked() || run.Status.IsTerminal() {
			return models.ErrRunLocked
		}

		if len(req.PickIDs) == 0 {
			if err := s.PickEntryRepo.ResetAll(ctx, tx, runID); err != nil {
				return err
			}
		} else {
			now := time.Now()
			for _, id := range req.PickIDs {
				entry, err := s.PickEntryRepo.GetForUpdate(ctx, tx, id)
				if err != nil {
					return err
				}
				if entry.RunID != runID {
					return models.ErrPickEntryNotFound
				}
				if err := models.CheckPickTransition(entry.Status, models.PickPending, true); err != nil {
					return err
				}
				if err := s.PickEntryRepo.SetStatus(ctx, tx, id, models.PickPending, now); err != nil {
					return err
				}
			}
		}

		return s.recomputeRunStatus(ctx, tx, run)
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateRunCaches(ctx)
	cache.InvalidateAnalyticsCaches(ctx)
	return s.Snapshot(ctx, runID)
}

// checkExpiryBudget guards the invariant that a line's expiry override
// quantities never sum past its effective count. Every override-save
// operation revalidates it, since overrides can shrink the count under an
// existing expiry set.
func checkExpiryBudget(expirySum, effectiveCount int) error {
	if expirySum > effectiveCount {
		return &models.InvalidOverrideError{Value: expirySum, Reason: "expiry quantities exceed pick count"}
	}
	return nil
}

// SetOverride sets or clears the manual override count of one entry. An
// override must be zero or positive; the frozen count is never touched. The
// new effective count must still cover the entry's expiry overrides.
func (s *PickService) SetOverride(ctx context.Context, runID, pickID int, req *models.SetOverrideRequest) (*models.RunSnapshot, error) {
	if req.OverrideCount != nil && *req.OverrideCount < 0 {
		return nil, &models.InvalidOverrideError{Value: *req.OverrideCount, Reason: "override must not be negative"}
	}

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		run, err := s.RunRepo.GetForUpdate(ctx, tx, runID)
		if err != nil {
			return err
		}
		if run.Status.IsLocked() || run.Status.IsTerminal() {
			return models.ErrRunLocked
		}

		entry, err := s.PickEntryRepo.GetForUpdate(ctx, tx, pickID)
		if err != nil {
			return err
		}
		if entry.RunID != runID {
			return models.ErrPickEntryNotFound
		}

		expirySum, err := s.PickEntryRepo.ExpiryQuantitySum(ctx, tx, pickID)
		if err != nil {
			return err
		}
		effective := entry.Count
		if req.OverrideCount != nil {
			effective = *req.OverrideCount
		}
		if err := checkExpiryBudget(expirySum, effective); err != nil {
			return err
		}
		return s.PickEntryRepo.SetOverride(ctx, tx, pickID, req.OverrideCount)
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateRunCaches(ctx)
	return s.Snapshot(ctx, runID)
}

// SetExpiries replaces the expiry override rows of one entry. Quantities must
// be positive and their sum may not exceed the entry's effective count.
func (s *PickService) SetExpiries(ctx context.Context, runID, pickID int, req *models.SetExpiriesRequest) (*models.RunSnapshot, error) {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		run, err := s.RunRepo.GetForUpdate(ctx, tx, runID)
		if err != nil {
			return err
		}
		if run.Status.IsLocked() || run.Status.IsTerminal() {
			return models.ErrRunLocked
		}

		entry, err := s.PickEntryRepo.GetForUpdate(ctx, tx, pickID)
		if err != nil {
			return err
		}
		if entry.RunID != runID {
			return models.ErrPickEntryNotFound
		}

		total := 0
		for _, ov := range req.Expiries {
			if ov.Quantity <= 0 {
				return &models.InvalidOverrideError{Value: ov.Quantity, Reason: "expiry quantity must be positive"}
			}
			total += ov.Quantity
		}
		if err := checkExpiryBudget(total, entry.EffectiveCount()); err != nil {
			return err
		}

		return s.PickEntryRepo.ReplaceExpiries(ctx, tx, pickID, req.Expiries)
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateRunCaches(ctx)
	return s.Snapshot(ctx, runID)
}

// Substitute swaps the SKU behind a pick entry, for when the warehouse is out
// of the original product. The coil item follows so future runs pick the
// replacement too.
func (s *PickService) Substitute(ctx context.Context, runID, pickID int, req *models.SubstituteSKURequest) (*models.RunSnapshot, error) {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		run, err := s.RunRepo.GetForUpdate(ctx, tx, runID)
		if err != nil {
			return err
		}
		if run.Status.IsLocked() || run.Status.IsTerminal() {
			return models.ErrRunLocked
		}

		entry, err := s.PickEntryRepo.GetForUpdate(ctx, tx, pickID)
		if err != nil {
			return err
		}
		if entry.RunID != runID {
			return models.ErrPickEntryNotFound
		}
		if _, err := s.SKURepo.Get(ctx, req.NewSKUID); err != nil {
			return err
		}
		return s.PickEntryRepo.SubstituteSKU(ctx, tx, pickID, entry.CoilItemID, req.NewSKUID)
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateRunCaches(ctx)
	return s.Snapshot(ctx, runID)
}

// recomputeRunStatus derives the run's picking status from a fresh count of
// the full entry set. No pending entries finishes picking; a pending entry
// appearing on a READY run reopens it.
func (s *PickService) recomputeRunStatus(ctx context.Context, tx pgx.Tx, run *models.Run) error {
	pending, _, _, err := s.PickEntryRepo.StatusCounts(ctx, tx, run.ID)
	if err != nil {
		return err
	}

	switch {
	case pending == 0 && run.Status == models.RunPicking:
		next, err := models.NextRunStatus(run.Status, models.RunEventPickingFinished)
		if err != nil {
			return err
		}
		if err := s.RunRepo.UpdateStatus(ctx, tx, run.ID, next); err != nil {
			return err
		}
		now := time.Now()
		if err := s.RunRepo.SetPickingWindow(ctx, tx, run.ID, nil, &now); err != nil {
			return err
		}
		metrics.RunTransitionsTotal.WithLabelValues(string(next)).Inc()

	case pending > 0 && run.Status == models.RunReady:
		next, err := models.NextRunStatus(run.Status, models.RunEventPickingReopened)
		if err != nil {
			return err
		}
		if err := s.RunRepo.UpdateStatus(ctx, tx, run.ID, next); err != nil {
			return err
		}
		if err := s.RunRepo.ClearPickingEnd(ctx, tx, run.ID); err != nil {
			return err
		}
		metrics.RunTransitionsTotal.WithLabelValues(string(next)).Inc()
	}
	return nil
}

// Snapshot returns the run with its full entry set and status tallies.
// Mutations always answer with a snapshot so devices render fresh state.
func (s *PickService) Snapshot(ctx context.Context, runID int) (*models.RunSnapshot, error) {
	run, err := s.RunRepo.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	entries, err := s.PickEntryRepo.ListByRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	snap := &models.RunSnapshot{Run: run, Entries: entries}
	for _, e := range entries {
		switch e.Status {
		case models.PickPending:
			snap.Pending++
		case models.PickPicked:
			snap.Picked++
		case models.PickSkipped:
			snap.Skipped++
		}
	}
	return snap, nil
}
