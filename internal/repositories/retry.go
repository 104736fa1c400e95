package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"route-backend/internal/models"
)

const maxAttempts = 3

// withRetry runs fn up to three times with a short growing backoff. If every
// attempt fails the caller gets ErrStoreUnavailable wrapping the last error,
// so handlers can map it to 503 without inspecting driver errors.
func withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		// Not-found and constraint errors are deterministic, retrying them
		// only burns time.
		if !isTransient(lastErr) {
			return lastErr
		}
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
		}
	}
	return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, lastErr)
}

func isTransient(err error) bool {
	if errors.Is(err, models.ErrRunNotFound) ||
		errors.Is(err, models.ErrPickEntryNotFound) ||
		errors.Is(err, models.ErrSKUNotFound) ||
		errors.Is(err, models.ErrDuplicateBoxNumber) ||
		errors.Is(err, models.ErrSKUAlreadyInCoil) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
