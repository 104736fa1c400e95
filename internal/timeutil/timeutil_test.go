package timeutil

import (
	"testing"
	"time"

	"route-backend/internal/models"
)

func TestLoadZoneFallsBackToUTC(t *testing.T) {
	if got := LoadZone(""); got != time.UTC {
		t.Errorf("LoadZone(\"\") = %v, want UTC", got)
	}
	if got := LoadZone("Not/AZone"); got != time.UTC {
		t.Errorf("LoadZone(unknown) = %v, want UTC", got)
	}
	if got := LoadZone("Europe/London"); got.String() != "Europe/London" {
		t.Errorf("LoadZone(Europe/London) = %v", got)
	}
}

func TestStartOfWeekIsMonday(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"wednesday", "2026-08-26", "2026-08-24"},
		{"monday maps to itself", "2026-08-24", "2026-08-24"},
		{"sunday belongs to prior monday", "2026-08-30", "2026-08-24"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, _ := time.ParseInLocation(DateLayout, tt.in, time.UTC)
			got := StartOfWeek(in.Add(13*time.Hour), time.UTC)
			if got.Format(DateLayout) != tt.want {
				t.Errorf("StartOfWeek(%s) = %s, want %s", tt.in, got.Format(DateLayout), tt.want)
			}
			if got.Hour() != 0 || got.Minute() != 0 {
				t.Errorf("StartOfWeek(%s) not at midnight: %v", tt.in, got)
			}
		})
	}
}

func TestBucketStart(t *testing.T) {
	loc := time.UTC
	at := time.Date(2026, time.August, 26, 15, 30, 0, 0, loc)

	tests := []struct {
		agg  models.Aggregation
		want time.Time
	}{
		{models.AggDay, time.Date(2026, time.August, 26, 0, 0, 0, 0, loc)},
		{models.AggWeek, time.Date(2026, time.August, 26, 0, 0, 0, 0, loc)}, // week buckets by day
		{models.AggMonth, time.Date(2026, time.August, 1, 0, 0, 0, 0, loc)},
		{models.AggQuarter, time.Date(2026, time.July, 1, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(string(tt.agg), func(t *testing.T) {
			if got := BucketStart(at, tt.agg, loc); !got.Equal(tt.want) {
				t.Errorf("BucketStart(%s) = %v, want %v", tt.agg, got, tt.want)
			}
		})
	}
}

func TestNextBucket(t *testing.T) {
	loc := time.UTC

	day := time.Date(2026, time.August, 31, 0, 0, 0, 0, loc)
	if got := NextBucket(day, models.AggDay, loc); !got.Equal(time.Date(2026, time.September, 1, 0, 0, 0, 0, loc)) {
		t.Errorf("NextBucket day across month end = %v", got)
	}

	month := time.Date(2026, time.December, 1, 0, 0, 0, 0, loc)
	if got := NextBucket(month, models.AggMonth, loc); !got.Equal(time.Date(2027, time.January, 1, 0, 0, 0, 0, loc)) {
		t.Errorf("NextBucket month across year end = %v", got)
	}

	quarter := time.Date(2026, time.October, 1, 0, 0, 0, 0, loc)
	if got := NextBucket(quarter, models.AggQuarter, loc); !got.Equal(time.Date(2027, time.January, 1, 0, 0, 0, 0, loc)) {
		t.Errorf("NextBucket quarter across year end = %v", got)
	}
}

func TestStartOfQuarter(t *testing.T) {
	tests := []struct {
		month time.Month
		want  time.Month
	}{
		{time.January, time.January},
		{time.March, time.January},
		{time.April, time.April},
		{time.August, time.July},
		{time.December, time.October},
	}
	for _, tt := range tests {
		at := time.Date(2026, tt.month, 15, 12, 0, 0, 0, time.UTC)
		got := StartOfQuarter(at, time.UTC)
		if got.Month() != tt.want || got.Day() != 1 {
			t.Errorf("StartOfQuarter(%s) = %v, want month %s day 1", tt.month, got, tt.want)
		}
	}
}
