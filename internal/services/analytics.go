package services

import (
	"math"
	"sort"
	"time"

	"route-backend/internal/models"
	"route-backend/internal/timeutil"
)

// trendEpsilon keeps near-flat movement from flapping between up and down.
const trendEpsilon = 0.01

// bucketCountFor is how many trailing buckets each aggregation shows. Week is
// special: a rolling 8-day window of daily buckets, always exactly 8 points.
func bucketCountFor(agg models.Aggregation) int {
	switch agg {
	case models.AggWeek:
		return 8
	case models.AggDay:
		return 30
	case models.AggMonth:
		return 12
	case models.AggQuarter:
		return 8
	}
	return 0
}

// breakdownWindow returns the [start, end) interval covered by a breakdown
// ending at the bucket containing now.
func breakdownWindow(agg models.Aggregation, now time.Time, loc *time.Location) models.Window {
	n := bucketCountFor(agg)
	end := timeutil.NextBucket(timeutil.BucketStart(now, agg, loc), agg, loc)
	start := timeutil.BucketStart(now, agg, loc)
	for i := 1; i < n; i++ {
		start = timeutil.BucketStart(start.Add(-time.Second), agg, loc)
	}
	return models.Window{Start: start, End: end}
}

// previousWindow returns the equal-length interval directly before w.
func previousWindow(agg models.Aggregation, w models.Window, loc *time.Location) models.Window {
	n := bucketCountFor(agg)
	start := w.Start
	for i := 0; i < n; i++ {
		start = timeutil.BucketStart(start.Add(-time.Second), agg, loc)
	}
	return models.Window{Start: start, End: w.Start}
}

// bucketEvents sums event quantities into the window's buckets, padding every
// empty bucket with an explicit zero point so charts always get the full
// ascending series.
func bucketEvents(events []*models.PickedEvent, agg models.Aggregation, w models.Window, loc *time.Location) []models.BreakdownPoint {
	var points []models.BreakdownPoint
	for start := w.Start; start.Before(w.End); start = timeutil.NextBucket(start, agg, loc) {
		points = append(points, models.BreakdownPoint{
			Start: start,
			End:   timeutil.NextBucket(start, agg, loc),
		})
	}

	for _, ev := range events {
		if ev.At.Before(w.Start) || !ev.At.Before(w.End) {
			continue
		}
		for i := range points {
			if !ev.At.Before(points[i].Start) && ev.At.Before(points[i].End) {
				points[i].Total += ev.Qty
				break
			}
		}
	}
	return points
}

func sumWindow(events []*models.PickedEvent, w models.Window) int {
	total := 0
	for _, ev := range events {
		if !ev.At.Before(w.Start) && ev.At.Before(w.End) {
			total += ev.Qty
		}
	}
	return total
}

// deltaPercent compares current against previous with a floor of 1 on the
// denominator, so a zero baseline still yields a finite percentage.
func deltaPercent(current, previous int) float64 {
	denom := previous
	if denom < 1 {
		denom = 1
	}
	return float64(current-previous) / float64(denom) * 100
}

func classifyTrend(delta float64) models.Trend {
	switch {
	case delta > trendEpsilon:
		return models.TrendUp
	case delta < -trendEpsilon:
		return models.TrendDown
	default:
		return models.TrendNeutral
	}
}

// extrema finds the highest and lowest non-zero buckets. Ties go to the
// earliest bucket. All-zero series have no extrema.
func extrema(points []models.BreakdownPoint) (high, low *models.BreakdownPoint) {
	for i := range points {
		p := points[i]
		if p.Total == 0 {
			continue
		}
		if high == nil || p.Total > high.Total {
			cp := p
			high = &cp
		}
		if low == nil || p.Total < low.Total {
			cp := p
			low = &cp
		}
	}
	return high, low
}

// progressPercent is how far wall time has moved through the window, clamped
// to [0, 100].
func progressPercent(w models.Window, now time.Time) float64 {
	span := w.End.Sub(w.Start)
	if span <= 0 {
		return 0
	}
	pct := float64(now.Sub(w.Start)) / float64(span) * 100
	return math.Max(0, math.Min(100, pct))
}

type segmentKeyFn func(*models.PickedEvent) (key, label string)

func focusKeyFn(focus models.Focus) segmentKeyFn {
	switch focus {
	case models.FocusMachine:
		return func(ev *models.PickedEvent) (string, string) { return ev.MachineKey, ev.MachineLabel }
	case models.FocusLocation:
		return func(ev *models.PickedEvent) (string, string) { return ev.LocationKey, ev.LocationLabel }
	default:
		return func(ev *models.PickedEvent) (string, string) { return ev.SKUKey, ev.SKULabel }
	}
}

// segmentAverages computes each segment's average units per day over the
// given calendar week, sorted descending then by key for stable output.
func segmentAverages(events []*models.PickedEvent, w models.Window, keyFn segmentKeyFn) []models.SegmentAverage {
	days := int(w.End.Sub(w.Start).Hours() / 24)
	if days <= 0 {
		days = 7
	}

	totals := make(map[string]int)
	labels := make(map[string]string)
	for _, ev := range events {
		if ev.At.Before(w.Start) || !ev.At.Before(w.End) {
			continue
		}
		key, label := keyFn(ev)
		if key == "" {
			continue
		}
		totals[key] += ev.Qty
		labels[key] = label
	}

	out := make([]models.SegmentAverage, 0, len(totals))
	for key, total := range totals {
		out = append(out, models.SegmentAverage{
			Key:     key,
			Label:   labels[key],
			Average: float64(total) / float64(days),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Average != out[j].Average {
			return out[i].Average > out[j].Average
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// momentumLeaders finds, for one entity dimension, the largest week-over-week
// gain and loss. Entities with zero in both weeks carry no signal and are
// excluded; ties break on the smaller key for determinism.
func momentumLeaders(events []*models.PickedEvent, current, previous models.Window, keyFn segmentKeyFn) models.MomentumLeaders {
	type tally struct {
		label    string
		current  int
		previous int
	}
	tallies := make(map[string]*tally)

	track := func(ev *models.PickedEvent, isCurrent bool) {
		key, label := keyFn(ev)
		if key == "" {
			return
		}
		t, ok := tallies[key]
		if !ok {
			t = &tally{label: label}
			tallies[key] = t
		}
		if isCurrent {
			t.current += ev.Qty
		} else {
			t.previous += ev.Qty
		}
	}

	for _, ev := range events {
		if !ev.At.Before(current.Start) && ev.At.Before(current.End) {
			track(ev, true)
		} else if !ev.At.Before(previous.Start) && ev.At.Before(previous.End) {
			track(ev, false)
		}
	}

	var leaders models.MomentumLeaders
	better := func(candidate *models.MomentumLeader, incumbent *models.MomentumLeader, up bool) bool {
		if incumbent == nil {
			return true
		}
		if up {
			if candidate.Delta != incumbent.Delta {
				return candidate.Delta > incumbent.Delta
			}
		} else {
			if candidate.Delta != incumbent.Delta {
				return candidate.Delta < incumbent.Delta
			}
		}
		return candidate.Key < incumbent.Key
	}

	keys := make([]string, 0, len(tallies))
	for key := range tallies {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		t := tallies[key]
		if t.current == 0 && t.previous == 0 {
			continue
		}
		leader := &models.MomentumLeader{
			Key:      key,
			Label:    t.label,
			Current:  t.current,
			Previous: t.previous,
			Delta:    t.current - t.previous,
		}
		if leader.Delta > 0 && better(leader, leaders.Up, true) {
			leaders.Up = leader
		}
		if leader.Delta < 0 && better(leader, leaders.Down, false) {
			leaders.Down = leader
		}
	}

	if leaders.Up != nil {
		leaders.DefaultSelection = "up"
	} else if leaders.Down != nil {
		leaders.DefaultSelection = "down"
	}
	return leaders
}

// buildBreakdown assembles the full breakdown view model from raw picked
// events. Empty input produces a well-formed zero series, never an error.
func buildBreakdown(events []*models.PickedEvent, agg models.Aggregation, focus models.Focus, tz string, now time.Time, loc *time.Location) *models.BreakdownSeries {
	window := breakdownWindow(agg, now, loc)
	prior := previousWindow(agg, window, loc)

	points := bucketEvents(events, agg, window, loc)
	total := 0
	for _, p := range points {
		total += p.Total
	}
	previousTotal := sumWindow(events, prior)

	high, low := extrema(points)

	series := &models.BreakdownSeries{
		Aggregation:     agg,
		TimeZone:        tz,
		Points:          points,
		Total:           total,
		PreviousTotal:   previousTotal,
		Trend:           models.TrendNeutral,
		High:            high,
		Low:             low,
		ProgressPercent: progressPercent(window, now),
	}

	// Two empty windows carry no movement to compare; the delta stays
	// unreported rather than a misleading 0%.
	if total != 0 || previousTotal != 0 {
		delta := deltaPercent(total, previousTotal)
		series.DeltaPercent = &delta
		series.Trend = classifyTrend(delta)
	}

	if agg == models.AggWeek {
		// Reference averages come from the last full calendar week, not the
		// rolling window, so they are stable within a week.
		weekStart := timeutil.StartOfWeek(now, loc)
		prevWeek := models.Window{
			Start: timeutil.AddDays(weekStart, -7, loc),
			End:   weekStart,
		}
		series.WeekAverages = segmentAverages(events, prevWeek, focusKeyFn(focus))
	}
	return series
}

// buildMomentum compares this calendar week against the previous one across
// all three entity dimensions.
func buildMomentum(events []*models.PickedEvent, tz string, now time.Time, loc *time.Location) *models.MomentumReport {
	weekStart := timeutil.StartOfWeek(now, loc)
	current := models.Window{Start: weekStart, End: timeutil.AddDays(weekStart, 7, loc)}
	previous := models.Window{Start: timeutil.AddDays(weekStart, -7, loc), End: weekStart}

	return &models.MomentumReport{
		TimeZone:        tz,
		CurrentWeek:     current,
		PreviousWeek:    previous,
		SKULeaders:      momentumLeaders(events, current, previous, focusKeyFn(models.FocusSKU)),
		MachineLeaders:  momentumLeaders(events, current, previous, focusKeyFn(models.FocusMachine)),
		LocationLeaders: momentumLeaders(events, current, previous, focusKeyFn(models.FocusLocation)),
	}
}
