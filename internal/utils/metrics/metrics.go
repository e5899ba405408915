// File: internal/utils/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests.
	RequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "area_engine_requests_total",
		Help: "The total number of HTTP requests",
	})

	// ResponsesTotal counts HTTP responses by status code.
	ResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "area_engine_responses_total",
		Help: "The total number of HTTP responses by status code",
	}, []string{"status"})

	// RequestDuration measures HTTP request handling time.
	RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "area_engine_request_duration_seconds",
		Help:    "The HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// SchedulerTicksTotal counts completed scheduler ticks.
	SchedulerTicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "area_engine_scheduler_ticks_total",
		Help: "The total number of completed scheduler ticks",
	})

	// AppletRunsTotal counts applet executions by outcome.
	AppletRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "area_engine_applet_runs_total",
		Help: "The total number of applet executions by outcome",
	}, []string{"outcome"})

	// UserBatchesTotal counts per-user runner batches by status.
	UserBatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "area_engine_user_batches_total",
		Help: "The total number of per-user runner batches by status",
	}, []string{"status"})

	// TokenRefreshTotal counts credential refresh attempts by status.
	TokenRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "area_engine_token_refresh_total",
		Help: "The total number of access token refreshes",
	}, []string{"status"})

	// ProviderCallDuration measures external provider call time.
	ProviderCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "area_engine_provider_call_duration_seconds",
		Help:    "The external provider call duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "operation"})

	// ManualRunsTotal counts on-demand run-now invocations.
	ManualRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "area_engine_manual_runs_total",
		Help: "The total number of manual run-now invocations",
	})
)
