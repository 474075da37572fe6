// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamecompare_http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamecompare_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Storefront upstream calls
	StorefrontRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamecompare_storefront_requests_total",
			Help: "Logical storefront requests by outcome (ok, http_error, network_error, breaker_open)",
		},
		[]string{"platform", "outcome"},
	)

	StorefrontRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamecompare_storefront_retries_total",
			Help: "Retry attempts issued against storefront APIs",
		},
		[]string{"platform"},
	)

	StorefrontLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamecompare_storefront_request_duration_seconds",
			Help:    "Storefront request latency including retries",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"platform"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gamecompare_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Cache
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamecompare_cache_requests_total",
			Help: "TTL cache lookups by key namespace and result",
		},
		[]string{"namespace", "result"},
	)

	ComparisonLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamecompare_comparison_lookups_total",
			Help: "Comparison requests served fresh from cache or recomputed",
		},
		[]string{"result"},
	)

	// Sync
	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamecompare_sync_runs_total",
			Help: "Sync runs by platform and terminal status",
		},
		[]string{"platform", "status"},
	)

	SyncRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamecompare_sync_records_total",
			Help: "Upstream records handled by sync runs (added, updated, error)",
		},
		[]string{"platform", "result"},
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamecompare_sync_duration_seconds",
			Help:    "Duration of sync runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 900},
		},
		[]string{"platform"},
	)

	SyncLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gamecompare_sync_last_success_timestamp",
			Help: "Unix timestamp of the last completed sync",
		},
		[]string{"platform"},
	)

	PopularSearchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamecompare_popular_search_failures_total",
			Help: "Failed best-effort popular search increments",
		},
	)
)
