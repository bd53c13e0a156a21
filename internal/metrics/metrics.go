package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindstream_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mindstream_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mindstream_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Catalog metrics
var (
	CatalogLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindstream_catalog_loads_total",
			Help: "Total number of catalog load attempts",
		},
		[]string{"trigger", "status"}, // trigger: "startup", "watch", "manual"
	)

	CatalogLoadDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mindstream_catalog_last_load_duration_seconds",
			Help: "Duration of the last catalog load in seconds",
		},
	)

	CatalogLastLoadTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mindstream_catalog_last_load_timestamp",
			Help: "Unix timestamp of the last successful catalog load",
		},
	)

	CatalogRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mindstream_catalog_records",
			Help: "Number of media records in the current catalog",
		},
	)

	CatalogSections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mindstream_catalog_sections",
			Help: "Number of top-level sections in the current catalog",
		},
	)

	CatalogRecordsDropped = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mindstream_catalog_records_dropped",
			Help: "Number of malformed records dropped by the last load",
		},
	)

	CatalogFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindstream_catalog_fetches_total",
			Help: "Total number of remote catalog fetch attempts",
		},
		[]string{"status"},
	)
)

// Session metrics
var (
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mindstream_sessions_active",
			Help: "Number of live browsing sessions",
		},
	)

	SessionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindstream_sessions_created_total",
			Help: "Total number of browsing sessions created",
		},
	)

	NavigationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindstream_navigations_total",
			Help: "Total number of navigation transitions",
		},
		[]string{"action", "status"}, // action: descend/ascend/reset; status: ok/invalid
	)

	ActivationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindstream_activations_total",
			Help: "Total number of media activations",
		},
	)

	ForcedPausesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindstream_forced_pauses_total",
			Help: "Total number of players paused to enforce exclusivity",
		},
	)
)

// Database metrics
var (
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindstream_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mindstream_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)
)
