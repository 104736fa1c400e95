package services

import (
	"errors"
	"testing"

	"route-backend/internal/models"
)

func TestCheckExpiryBudget(t *testing.T) {
	tests := []struct {
		name      string
		expirySum int
		effective int
		wantErr   bool
	}{
		{"sum below count", 5, 10, false},
		{"sum equals count", 10, 10, false},
		{"sum exceeds count", 11, 10, true},
		{"no expiries always fit", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkExpiryBudget(tt.expirySum, tt.effective)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkExpiryBudget(%d, %d) error = %v, wantErr %v",
					tt.expirySum, tt.effective, err, tt.wantErr)
			}
			if err != nil {
				var overrideErr *models.InvalidOverrideError
				if !errors.As(err, &overrideErr) {
					t.Errorf("budget violation should be an InvalidOverrideError, got %T", err)
				}
			}
		})
	}
}

func TestOverrideChangeRevalidatesExpiryBudget(t *testing.T) {
	// An expiry set saved against an inflated override must block shrinking
	// the effective count back under it: frozen count 10, override 20,
	// expiries totalling 15. Clearing the override drops the effective count
	// to 10, which no longer covers the 15 units already split onto dates.
	entry := models.PickEntry{Count: 10}
	expirySum := 15

	override := 20
	entry.OverrideCount = &override
	if err := checkExpiryBudget(expirySum, entry.EffectiveCount()); err != nil {
		t.Fatalf("expiry set within the overridden count should pass: %v", err)
	}

	// Clearing the override: effective count falls back to the frozen count.
	entry.OverrideCount = nil
	if err := checkExpiryBudget(expirySum, entry.EffectiveCount()); err == nil {
		t.Error("clearing the override must fail while expiries exceed the frozen count")
	}

	// Lowering instead of clearing hits the same wall.
	lower := 12
	entry.OverrideCount = &lower
	if err := checkExpiryBudget(expirySum, entry.EffectiveCount()); err == nil {
		t.Error("lowering the override under the expiry total must fail")
	}

	// A new override that still covers the set is fine.
	cover := 15
	entry.OverrideCount = &cover
	if err := checkExpiryBudget(expirySum, entry.EffectiveCount()); err != nil {
		t.Errorf("override matching the expiry total should pass: %v", err)
	}
}
