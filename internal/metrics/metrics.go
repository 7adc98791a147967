package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lab_console_http_requests_total",
			Help: "Browser API requests by method, route and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lab_console_http_request_duration_seconds",
			Help:    "Browser API request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lab_console_backend_requests_total",
			Help: "Calls to the lab backend by method, resource and outcome.",
		},
		[]string{"method", "resource", "outcome"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lab_console_backend_request_duration_seconds",
			Help:    "Lab backend call latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "resource"},
	)

	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lab_console_exports_total",
			Help: "Generated exports and documents by entity, format and outcome.",
		},
		[]string{"entity", "format", "outcome"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lab_console_cache_lookups_total",
			Help: "Catalog cache lookups by result.",
		},
		[]string{"result"},
	)
)

// Outcome labels
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeUnreachable = "unreachable"
)
