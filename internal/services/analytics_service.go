package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"route-backend/internal/cache"
	"route-backend/internal/config"
	"route-backend/internal/metrics"
	"route-backend/internal/models"
	"route-backend/internal/repositories"
	"route-backend/internal/timeutil"
)

// AnalyticsService serves time-bucketed breakdowns and momentum leaderboards
// over picked quantities. Reports are cached in Redis; pick mutations
// invalidate the whole analytics keyspace.
type AnalyticsService struct {
	PickEntryRepo *repositories.PickEntryRepository
	cfg           *config.Config
	now           func() time.Time
}

func NewAnalyticsService(pickEntryRepo *repositories.PickEntryRepository, cfg *config.Config) *AnalyticsService {
	return &AnalyticsService{
		PickEntryRepo: pickEntryRepo,
		cfg:           cfg,
		now:           time.Now,
	}
}

func (s *AnalyticsService) cacheTTL() time.Duration {
	return time.Duration(s.cfg.Analytics.CacheTTLSeconds) * time.Second
}

func (s *AnalyticsService) zone(tz string) (string, *time.Location) {
	if tz == "" {
		tz = s.cfg.Analytics.DefaultTimeZone
	}
	return tz, timeutil.LoadZone(tz)
}

// Breakdown returns the bucketed series for one aggregation unit and focus
// dimension in the given zone (empty falls back to the configured default).
func (s *AnalyticsService) Breakdown(ctx context.Context, agg models.Aggregation, focus models.Focus, tz string) (*models.BreakdownSeries, error) {
	if !models.ValidAggregation(agg) {
		return nil, fmt.Errorf("unknown aggregation %q", agg)
	}
	if !models.ValidFocus(focus) {
		return nil, fmt.Errorf("unknown focus %q", focus)
	}
	tz, loc := s.zone(tz)
	now := s.now()

	key := fmt.Sprintf("analytics:breakdown:%s:%s:%s:%s",
		agg, focus, tz, timeutil.BucketStart(now, agg, loc).Format(timeutil.DateLayout))
	if data, ok := cache.GetCached(ctx, key); ok {
		var series models.BreakdownSeries
		if err := json.Unmarshal(data, &series); err == nil {
			metrics.AnalyticsCacheHits.WithLabelValues("hit").Inc()
			return &series, nil
		}
	}
	metrics.AnalyticsCacheHits.WithLabelValues("miss").Inc()

	window := breakdownWindow(agg, now, loc)
	prior := previousWindow(agg, window, loc)
	// One fetch covers the window, its comparison window and the reference
	// calendar week.
	from := prior.Start
	if wk := timeutil.AddDays(timeutil.StartOfWeek(now, loc), -7, loc); wk.Before(from) {
		from = wk
	}
	events, err := s.PickEntryRepo.PickedEvents(ctx, from, window.End)
	if err != nil {
		return nil, err
	}

	series := buildBreakdown(events, agg, focus, tz, now, loc)

	if data, err := json.Marshal(series); err == nil {
		cache.SetCached(ctx, key, data, s.cacheTTL())
	}
	return series, nil
}

// Momentum returns the week-over-week leaders across all entity dimensions.
func (s *AnalyticsService) Momentum(ctx context.Context, tz string) (*models.MomentumReport, error) {
	tz, loc := s.zone(tz)
	now := s.now()

	key := fmt.Sprintf("analytics:momentum:%s:%s",
		tz, timeutil.StartOfWeek(now, loc).Format(timeutil.DateLayout))
	if data, ok := cache.GetCached(ctx, key); ok {
		var report models.MomentumReport
		if err := json.Unmarshal(data, &report); err == nil {
			metrics.AnalyticsCacheHits.WithLabelValues("hit").Inc()
			return &report, nil
		}
	}
	metrics.AnalyticsCacheHits.WithLabelValues("miss").Inc()

	weekStart := timeutil.StartOfWeek(now, loc)
	from := timeutil.AddDays(weekStart, -7, loc)
	to := timeutil.AddDays(weekStart, 7, loc)
	events, err := s.PickEntryRepo.PickedEvents(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := buildMomentum(events, tz, now, loc)

	if data, err := json.Marshal(report); err == nil {
		cache.SetCached(ctx, key, data, s.cacheTTL())
	}
	return report, nil
}
