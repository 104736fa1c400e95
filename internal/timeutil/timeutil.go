package timeutil

import (
	"time"

	"route-backend/internal/models"
)

// LoadZone resolves an IANA zone name, falling back to UTC when the name is
// empty or unknown. Bucket boundaries are always computed in the caller's
// zone and compared in absolute time.
func LoadZone(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// StartOfDay returns midnight of t's day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// AddDays moves a zone-local instant by whole calendar days, staying correct
// across DST shifts.
func AddDays(t time.Time, days int, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day()+days, lt.Hour(), lt.Minute(), lt.Second(), lt.Nanosecond(), loc)
}

// StartOfWeek returns the Monday 00:00 of t's calendar week in loc.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return AddDays(day, -offset, loc)
}

// StartOfMonth returns the first of t's month at 00:00 in loc.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, loc)
}

// StartOfQuarter returns the first day of t's quarter at 00:00 in loc.
func StartOfQuarter(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	qm := time.Month(((int(lt.Month())-1)/3)*3 + 1)
	return time.Date(lt.Year(), qm, 1, 0, 0, 0, 0, loc)
}

// BucketStart returns the start of the bucket containing t for the given
// aggregation. Week aggregation buckets by day: the rolling 8-day window is
// built from daily buckets.
func BucketStart(t time.Time, agg models.Aggregation, loc *time.Location) time.Time {
	switch agg {
	case models.AggMonth:
		return StartOfMonth(t, loc)
	case models.AggQuarter:
		return StartOfQuarter(t, loc)
	default:
		return StartOfDay(t, loc)
	}
}

// NextBucket returns the start of the bucket after start.
func NextBucket(start time.Time, agg models.Aggregation, loc *time.Location) time.Time {
	lt := start.In(loc)
	switch agg {
	case models.AggMonth:
		return time.Date(lt.Year(), lt.Month()+1, 1, 0, 0, 0, 0, loc)
	case models.AggQuarter:
		return time.Date(lt.Year(), lt.Month()+3, 1, 0, 0, 0, 0, loc)
	default:
		return AddDays(lt, 1, loc)
	}
}

// Common layouts.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)
