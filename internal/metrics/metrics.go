package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by method and path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_rows_total",
			Help: "Spreadsheet rows processed by outcome (resolved, failed).",
		},
		[]string{"outcome"},
	)

	PicksGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "picks_generated_total",
			Help: "Pick entries generated across all runs.",
		},
	)

	RunTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "run_transitions_total",
			Help: "Run state transitions by target status.",
		},
		[]string{"to"},
	)

	AnalyticsCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_cache_total",
			Help: "Analytics cache lookups by result (hit, miss).",
		},
		[]string{"result"},
	)
)
