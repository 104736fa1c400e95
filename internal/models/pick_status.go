package models

import "fmt"

// PickStatus is the state of a single pick line.
type PickStatus string

const (
	PickPending PickStatus = "PENDING"
	PickPicked  PickStatus = "PICKED"
	PickSkipped PickStatus = "SKIPPED"
)

// ValidPickStatus reports whether s is a known pick status.
func ValidPickStatus(s PickStatus) bool {
	return s == PickPending || s == PickPicked || s == PickSkipped
}

// PickTransitionError reports an illegal pick status change.
type PickTransitionError struct {
	From PickStatus
	To   PickStatus
}

func (e *PickTransitionError) Error() string {
	return fmt.Sprintf("pick entry cannot move from %s to %s", e.From, e.To)
}

// CheckPickTransition validates a pick status change. A pending entry can be
// picked or skipped; going back to pending is only allowed through the
// explicit reset operation, and a picked entry cannot flip straight to
// skipped (it has to be reset first).
func CheckPickTransition(from, to PickStatus, reset bool) error {
	if from == to {
		return nil
	}
	if reset {
		if to != PickPending {
			return &PickTransitionError{From: from, To: to}
		}
		return nil
	}
	if from == PickPending && (to == PickPicked || to == PickSkipped) {
		return nil
	}
	return &PickTransitionError{From: from, To: to}
}
