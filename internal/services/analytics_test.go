package services

import (
	"testing"
	"time"

	"route-backend/internal/models"
)

var testNow = time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC) // a Wednesday

func event(at time.Time, qty int, sku string) *models.PickedEvent {
	return &models.PickedEvent{
		At: at, Qty: qty,
		SKUKey: sku, SKULabel: sku,
		MachineKey: "M1", MachineLabel: "M1",
		LocationKey: "1", LocationLabel: "Depot",
	}
}

func TestBuildBreakdownWeekAlwaysEightPoints(t *testing.T) {
	// Two events, six empty days: the series still has exactly 8 daily
	// buckets in ascending order with zeros padded in.
	events := []*models.PickedEvent{
		event(testNow.AddDate(0, 0, -3), 5, "COKE"),
		event(testNow, 2, "COKE"),
	}
	series := buildBreakdown(events, models.AggWeek, models.FocusSKU, "UTC", testNow, time.UTC)

	if len(series.Points) != 8 {
		t.Fatalf("week series has %d points, want 8", len(series.Points))
	}
	for i := 1; i < len(series.Points); i++ {
		if !series.Points[i-1].Start.Before(series.Points[i].Start) {
			t.Fatal("points not in ascending order")
		}
	}
	if series.Total != 7 {
		t.Errorf("Total = %d, want 7", series.Total)
	}
	// Last bucket is today.
	last := series.Points[len(series.Points)-1]
	if last.Start.Day() != 26 {
		t.Errorf("last bucket starts %v, want today", last.Start)
	}
}

func TestBuildBreakdownEmptyInput(t *testing.T) {
	series := buildBreakdown(nil, models.AggWeek, models.FocusSKU, "UTC", testNow, time.UTC)

	if len(series.Points) != 8 {
		t.Fatalf("empty input: %d points, want 8", len(series.Points))
	}
	if series.Total != 0 || series.PreviousTotal != 0 {
		t.Error("empty input should total zero")
	}
	if series.Trend != models.TrendNeutral {
		t.Errorf("empty input trend = %s, want neutral", series.Trend)
	}
	if series.DeltaPercent != nil {
		t.Errorf("two empty windows carry no delta, got %v", *series.DeltaPercent)
	}
	if series.High != nil || series.Low != nil {
		t.Error("all-zero series must have no extrema")
	}
}

func TestDeltaPercentZeroBaseline(t *testing.T) {
	// Denominator floors at 1 so a zero baseline still yields a finite
	// percentage.
	if got := deltaPercent(5, 0); got != 500 {
		t.Errorf("deltaPercent(5, 0) = %v, want 500", got)
	}
	if got := deltaPercent(0, 0); got != 0 {
		t.Errorf("deltaPercent(0, 0) = %v, want 0", got)
	}
	if got := deltaPercent(6, 4); got != 50 {
		t.Errorf("deltaPercent(6, 4) = %v, want 50", got)
	}
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		delta float64
		want  models.Trend
	}{
		{5.0, models.TrendUp},
		{-5.0, models.TrendDown},
		{0.0, models.TrendNeutral},
		{0.005, models.TrendNeutral},
		{-0.005, models.TrendNeutral},
	}
	for _, tt := range tests {
		if got := classifyTrend(tt.delta); got != tt.want {
			t.Errorf("classifyTrend(%v) = %s, want %s", tt.delta, got, tt.want)
		}
	}
}

func TestExtremaTiesGoToEarliestBucket(t *testing.T) {
	day := 24 * time.Hour
	base := testNow.Truncate(day)
	points := []models.BreakdownPoint{
		{Start: base, End: base.Add(day), Total: 0},
		{Start: base.Add(day), End: base.Add(2 * day), Total: 9},
		{Start: base.Add(2 * day), End: base.Add(3 * day), Total: 3},
		{Start: base.Add(3 * day), End: base.Add(4 * day), Total: 9},
		{Start: base.Add(4 * day), End: base.Add(5 * day), Total: 3},
	}

	high, low := extrema(points)
	if high == nil || !high.Start.Equal(base.Add(day)) {
		t.Errorf("high should be the earliest 9-bucket, got %+v", high)
	}
	if low == nil || !low.Start.Equal(base.Add(2*day)) {
		t.Errorf("low should be the earliest non-zero 3-bucket, got %+v", low)
	}
}

func TestProgressPercentClamped(t *testing.T) {
	w := models.Window{Start: testNow, End: testNow.Add(10 * time.Hour)}

	if got := progressPercent(w, testNow.Add(5*time.Hour)); got != 50 {
		t.Errorf("mid-window progress = %v, want 50", got)
	}
	if got := progressPercent(w, testNow.Add(-time.Hour)); got != 0 {
		t.Errorf("before window progress = %v, want 0", got)
	}
	if got := progressPercent(w, testNow.Add(20*time.Hour)); got != 100 {
		t.Errorf("after window progress = %v, want 100", got)
	}
}

func TestMomentumLeaders(t *testing.T) {
	weekStart := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC) // Monday
	current := models.Window{Start: weekStart, End: weekStart.AddDate(0, 0, 7)}
	previous := models.Window{Start: weekStart.AddDate(0, 0, -7), End: weekStart}

	events := []*models.PickedEvent{
		// RISER: 2 -> 10
		event(previous.Start.Add(time.Hour), 2, "RISER"),
		event(current.Start.Add(time.Hour), 10, "RISER"),
		// FALLER: 8 -> 1
		event(previous.Start.Add(2*time.Hour), 8, "FALLER"),
		event(current.Start.Add(2*time.Hour), 1, "FALLER"),
		// FLAT: 5 -> 5, never a leader
		event(previous.Start.Add(3*time.Hour), 5, "FLAT"),
		event(current.Start.Add(3*time.Hour), 5, "FLAT"),
		// Outside both windows, ignored entirely.
		event(previous.Start.AddDate(0, 0, -3), 100, "OLD"),
	}

	leaders := momentumLeaders(events, current, previous, focusKeyFn(models.FocusSKU))

	if leaders.Up == nil || leaders.Up.Key != "RISER" {
		t.Fatalf("up leader = %+v, want RISER", leaders.Up)
	}
	if leaders.Up.Delta != 8 {
		t.Errorf("up delta = %d, want 8", leaders.Up.Delta)
	}
	if leaders.Down == nil || leaders.Down.Key != "FALLER" {
		t.Fatalf("down leader = %+v, want FALLER", leaders.Down)
	}
	if leaders.Down.Delta != -7 {
		t.Errorf("down delta = %d, want -7", leaders.Down.Delta)
	}
	if leaders.DefaultSelection != "up" {
		t.Errorf("default selection = %q, want up", leaders.DefaultSelection)
	}
}

func TestMomentumExcludesZeroBothWeeks(t *testing.T) {
	weekStart := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
	current := models.Window{Start: weekStart, End: weekStart.AddDate(0, 0, 7)}
	previous := models.Window{Start: weekStart.AddDate(0, 0, -7), End: weekStart}

	// Only a faller exists; the default selection must follow it.
	events := []*models.PickedEvent{
		event(previous.Start.Add(time.Hour), 4, "FALLER"),
	}
	leaders := momentumLeaders(events, current, previous, focusKeyFn(models.FocusSKU))

	if leaders.Up != nil {
		t.Errorf("no riser expected, got %+v", leaders.Up)
	}
	if leaders.Down == nil || leaders.Down.Key != "FALLER" {
		t.Fatalf("down leader = %+v, want FALLER", leaders.Down)
	}
	if leaders.DefaultSelection != "down" {
		t.Errorf("default selection = %q, want down", leaders.DefaultSelection)
	}

	// No events at all: both directions empty, no default.
	empty := momentumLeaders(nil, current, previous, focusKeyFn(models.FocusSKU))
	if empty.Up != nil || empty.Down != nil || empty.DefaultSelection != "" {
		t.Errorf("empty momentum = %+v, want all empty", empty)
	}
}

func TestSegmentAveragesSortedAndPerDay(t *testing.T) {
	weekStart := time.Date(2026, time.August, 17, 0, 0, 0, 0, time.UTC)
	week := models.Window{Start: weekStart, End: weekStart.AddDate(0, 0, 7)}

	events := []*models.PickedEvent{
		event(weekStart.Add(time.Hour), 14, "A"),  // 2 per day
		event(weekStart.Add(2*time.Hour), 7, "B"), // 1 per day
		event(week.End.Add(time.Hour), 70, "C"),   // outside, ignored
	}
	avgs := segmentAverages(events, week, focusKeyFn(models.FocusSKU))

	if len(avgs) != 2 {
		t.Fatalf("got %d segments, want 2", len(avgs))
	}
	if avgs[0].Key != "A" || avgs[0].Average != 2 {
		t.Errorf("top segment = %+v, want A at 2/day", avgs[0])
	}
	if avgs[1].Key != "B" || avgs[1].Average != 1 {
		t.Errorf("second segment = %+v, want B at 1/day", avgs[1])
	}
}

func TestBuildMomentumReportWindows(t *testing.T) {
	report := buildMomentum(nil, "UTC", testNow, time.UTC)

	wantCurrent := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
	if !report.CurrentWeek.Start.Equal(wantCurrent) {
		t.Errorf("current week start = %v, want %v", report.CurrentWeek.Start, wantCurrent)
	}
	if !report.PreviousWeek.End.Equal(report.CurrentWeek.Start) {
		t.Error("previous week must end exactly where the current week starts")
	}
	if got := report.CurrentWeek.End.Sub(report.CurrentWeek.Start); got != 7*24*time.Hour {
		t.Errorf("current week span = %v, want 168h", got)
	}
}
