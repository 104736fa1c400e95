package models

import "testing"

func TestCheckPickTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    PickStatus
		to      PickStatus
		reset   bool
		wantErr bool
	}{
		{"pending to picked", PickPending, PickPicked, false, false},
		{"pending to skipped", PickPending, PickSkipped, false, false},
		{"same status is a no-op", PickPicked, PickPicked, false, false},
		{"picked back to pending needs reset", PickPicked, PickPending, false, true},
		{"skipped back to pending needs reset", PickSkipped, PickPending, false, true},
		{"picked to skipped needs reset first", PickPicked, PickSkipped, false, true},
		{"reset picked to pending", PickPicked, PickPending, true, false},
		{"reset skipped to pending", PickSkipped, PickPending, true, false},
		{"reset cannot target picked", PickPending, PickPicked, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPickTransition(tt.from, tt.to, tt.reset)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckPickTransition(%s, %s, %v) error = %v, wantErr %v",
					tt.from, tt.to, tt.reset, err, tt.wantErr)
			}
		})
	}
}

func TestEffectiveCount(t *testing.T) {
	override := 3
	zero := 0

	entry := PickEntry{Count: 10}
	if got := entry.EffectiveCount(); got != 10 {
		t.Errorf("EffectiveCount without override = %d, want 10", got)
	}

	entry.OverrideCount = &override
	if got := entry.EffectiveCount(); got != 3 {
		t.Errorf("EffectiveCount with override = %d, want 3", got)
	}

	// Zero is a valid override and distinct from "no override".
	entry.OverrideCount = &zero
	if got := entry.EffectiveCount(); got != 0 {
		t.Errorf("EffectiveCount with zero override = %d, want 0", got)
	}
}
