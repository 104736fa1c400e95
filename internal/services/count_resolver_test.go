package services

import (
	"testing"

	"route-backend/internal/models"
)

func intp(n int) *int { return &n }

func TestResolveCountPointerWins(t *testing.T) {
	snapshot := models.CountSnapshot{
		Current:  intp(4),
		Par:      intp(8),
		Need:     intp(2),
		Forecast: intp(6),
		Total:    intp(12),
	}
	tests := []struct {
		pointer models.CountPointer
		want    int
	}{
		{models.PointerCurrent, 4},
		{models.PointerPar, 8},
		{models.PointerNeed, 2},
		{models.PointerForecast, 6},
		{models.PointerTotal, 12},
	}
	for _, tt := range tests {
		t.Run(string(tt.pointer), func(t *testing.T) {
			if got := ResolveCount(tt.pointer, snapshot, 99); got != tt.want {
				t.Errorf("ResolveCount(%s) = %d, want %d", tt.pointer, got, tt.want)
			}
		})
	}
}

func TestResolveCountFallbackChain(t *testing.T) {
	tests := []struct {
		name     string
		snapshot models.CountSnapshot
		want     int
	}{
		{"total is first fallback", models.CountSnapshot{Total: intp(7), Need: intp(3)}, 7},
		{"need before par", models.CountSnapshot{Need: intp(3), Par: intp(5)}, 3},
		{"par before current", models.CountSnapshot{Par: intp(5), Current: intp(1)}, 5},
		{"current before forecast", models.CountSnapshot{Current: intp(1), Forecast: intp(9)}, 1},
		{"forecast is last resort", models.CountSnapshot{Forecast: intp(9)}, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Pointer names a field that is null on every snapshot here.
			got := ResolveCount(models.PointerCurrent, tt.snapshot, 42)
			if tt.snapshot.Current != nil {
				got = ResolveCount(models.PointerTotal, tt.snapshot, 42)
			}
			if got != tt.want {
				t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestResolveCountAllNullUsesPar(t *testing.T) {
	if got := ResolveCount(models.PointerNeed, models.CountSnapshot{}, 6); got != 6 {
		t.Errorf("empty snapshot should fall back to coil item par, got %d", got)
	}
}

func TestResolveCountNeverNegative(t *testing.T) {
	tests := []struct {
		name     string
		snapshot models.CountSnapshot
		par      int
	}{
		{"negative pointer field", models.CountSnapshot{Need: intp(-5)}, 10},
		{"negative fallback field", models.CountSnapshot{Total: intp(-1)}, 10},
		{"negative coil item par", models.CountSnapshot{}, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveCount(models.PointerNeed, tt.snapshot, tt.par); got != 0 {
				t.Errorf("got %d, want 0", got)
			}
		})
	}
}
