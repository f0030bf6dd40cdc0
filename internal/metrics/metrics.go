package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Storage service metrics
var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatview",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatview",
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "endpoint"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chatview",
			Subsystem: "server",
			Name:      "rate_limited_total",
			Help:      "Write requests rejected by the rate limiter",
		},
	)

	ResponderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatview",
			Subsystem: "server",
			Name:      "responder_calls_total",
			Help:      "Assistant responder invocations",
		},
		[]string{"status"},
	)
)

// Client view metrics
var (
	ReconcileRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatview",
			Subsystem: "client",
			Name:      "reconcile_runs_total",
			Help:      "Reconciliation passes started",
		},
		[]string{"view"},
	)

	StaleCompletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatview",
			Subsystem: "client",
			Name:      "stale_completions_total",
			Help:      "Completions discarded because a newer generation had started",
		},
		[]string{"view"},
	)

	FragmentFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatview",
			Subsystem: "client",
			Name:      "fragment_failures_total",
			Help:      "Template fragments that failed to load",
		},
		[]string{"template"},
	)

	ReportedErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatview",
			Subsystem: "client",
			Name:      "reported_errors_total",
			Help:      "Errors surfaced to the user, by operation",
		},
		[]string{"operation"},
	)
)
