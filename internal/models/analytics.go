package models

import "time"

// Aggregation is the bucket unit for breakdowns.
type Aggregation string

const (
	AggDay     Aggregation = "day"
	AggWeek    Aggregation = "week" // rolling 8-day window, not a calendar week
	AggMonth   Aggregation = "month"
	AggQuarter Aggregation = "quarter"
)

// ValidAggregation reports whether a is a known aggregation unit.
func ValidAggregation(a Aggregation) bool {
	return a == AggDay || a == AggWeek || a == AggMonth || a == AggQuarter
}

// Focus selects the entity dimension of a breakdown or leaderboard.
type Focus string

const (
	FocusSKU      Focus = "sku"
	FocusMachine  Focus = "machine"
	FocusLocation Focus = "location"
)

// ValidFocus reports whether f is a known focus.
func ValidFocus(f Focus) bool {
	return f == FocusSKU || f == FocusMachine || f == FocusLocation
}

// Trend classifies period-over-period movement.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// BreakdownPoint is one [start, end) bucket with its picked-quantity total.
type BreakdownPoint struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Total int       `json:"total"`
}

// SegmentAverage is the trailing reference average for one segment,
// computed over the calendar week preceding the rolling window.
type SegmentAverage struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Average float64 `json:"average"`
}

// BreakdownSeries is the full time-bucketed view model for a breakdown chart.
// Empty inputs produce a well-formed zero series, never an error.
type BreakdownSeries struct {
	Aggregation     Aggregation      `json:"aggregation"`
	TimeZone        string           `json:"time_zone"`
	Points          []BreakdownPoint `json:"points"`
	WeekAverages    []SegmentAverage `json:"week_averages,omitempty"`
	Total           int              `json:"total"`
	PreviousTotal   int              `json:"previous_total"`
	DeltaPercent    *float64         `json:"delta_percent,omitempty"`
	Trend           Trend            `json:"trend"`
	High            *BreakdownPoint  `json:"high,omitempty"`
	Low             *BreakdownPoint  `json:"low,omitempty"`
	ProgressPercent float64          `json:"progress_percent"`
}

// PickedEvent is one picked entry projected for analytics: when it was
// picked, how many units, and the entity labels it rolls up under.
type PickedEvent struct {
	At            time.Time `json:"at"`
	Qty           int       `json:"qty"`
	SKUKey        string    `json:"sku_key"`
	SKULabel      string    `json:"sku_label"`
	MachineKey    string    `json:"machine_key"`
	MachineLabel  string    `json:"machine_label"`
	LocationKey   string    `json:"location_key"`
	LocationLabel string    `json:"location_label"`
}

// Window is a [start, end) interval in absolute time.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MomentumLeader is the entity with the largest week-over-week move in one
// direction.
type MomentumLeader struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Current  int    `json:"current"`
	Previous int    `json:"previous"`
	Delta    int    `json:"delta"`
}

// MomentumLeaders holds both directions for one entity dimension.
// DefaultSelection is "up" when an up leader exists, otherwise "down".
type MomentumLeaders struct {
	Up               *MomentumLeader `json:"up,omitempty"`
	Down             *MomentumLeader `json:"down,omitempty"`
	DefaultSelection string          `json:"default_selection,omitempty"`
}

// MomentumReport compares this calendar week against the previous one across
// all three entity dimensions.
type MomentumReport struct {
	TimeZone        string          `json:"time_zone"`
	CurrentWeek     Window          `json:"current_week"`
	PreviousWeek    Window          `json:"previous_week"`
	SKULeaders      MomentumLeaders `json:"sku_leaders"`
	MachineLeaders  MomentumLeaders `json:"machine_leaders"`
	LocationLeaders MomentumLeaders `json:"location_leaders"`
}
