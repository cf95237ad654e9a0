package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

var (
	// Form submissions by final outcome
	FormSubmissions = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "forms_submissions_total",
			Help: "Total number of form submissions by outcome",
		},
		[]string{"form", "outcome"}, // outcome: delivered, dropped, rejected, dispatch_failed, not_configured, error
	)

	// Rate limiter decisions
	RateLimitDecisions = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "forms_rate_limit_decisions_total",
			Help: "Total number of rate limit decisions",
		},
		[]string{"form", "decision"}, // decision: allowed, denied, store_error
	)

	// Provider attempts, one per retry
	EmailAttempts = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "forms_email_attempts_total",
			Help: "Total number of email provider attempts",
		},
		[]string{"provider", "status"}, // status: success, failed, breaker_open
	)

	// Dispatch latency including retries (seconds)
	EmailDispatchDuration = promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forms_email_dispatch_duration_seconds",
			Help:    "Email dispatch duration in seconds, retries included",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"provider", "status"},
	)

	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~16s
		},
		[]string{"method", "path", "status"},
	)
)

// Registry exposes the private registry, mainly for tests.
func Registry() *prometheus.Registry {
	return registry
}

// Handler serves the private registry in the exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

func IncrementFormSubmission(form, outcome string) {
	FormSubmissions.WithLabelValues(form, outcome).Inc()
}

func IncrementRateLimitDecision(form, decision string) {
	RateLimitDecisions.WithLabelValues(form, decision).Inc()
}

func IncrementEmailAttempt(provider, status string) {
	EmailAttempts.WithLabelValues(provider, status).Inc()
}

func RecordEmailDispatchDuration(provider, status string, duration time.Duration) {
	EmailDispatchDuration.WithLabelValues(provider, status).Observe(duration.Seconds())
}

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
