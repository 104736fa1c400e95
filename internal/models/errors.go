package models

import (
	"errors"
	"fmt"
)

var (
	// ErrRunLocked is returned for any mutation against a COMPLETED or
	// CANCELLED run.
	ErrRunLocked = errors.New("run is locked (completed or cancelled)")

	// ErrStoreUnavailable is returned after transient store failures have
	// exhausted their retry budget.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrRunNotFound       = errors.New("run not found")
	ErrPickEntryNotFound = errors.New("pick entry not found")
	ErrSKUNotFound       = errors.New("sku not found")

	// ErrDuplicateBoxNumber is returned when a chocolate box number is
	// already taken within the run.
	ErrDuplicateBoxNumber = errors.New("box number already used for this run")

	// ErrSKUAlreadyInCoil is returned when a substitution would assign a SKU
	// to a coil that already stocks it.
	ErrSKUAlreadyInCoil = errors.New("replacement sku already stocked in this coil")
)

// RowError reports a single failed row from an import batch. Batches never
// abort on a bad row; failures are collected and returned alongside the
// successes.
type RowError struct {
	Row    int    `json:"row"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// MalformedRowError marks an import row that lacks the minimum identifying
// fields and was skipped.
func MalformedRowError(row int, reason string) *RowError {
	return &RowError{Row: row, Code: "MalformedImportRow", Reason: reason}
}

// InvalidOverrideError rejects an override mutation, echoing the offending
// value back to the caller.
type InvalidOverrideError struct {
	Value  int    `json:"value"`
	Reason string `json:"reason"`
}

func (e *InvalidOverrideError) Error() string {
	return fmt.Sprintf("invalid override %d: %s", e.Value, e.Reason)
}
