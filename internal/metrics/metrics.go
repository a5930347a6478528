// Package metrics holds the Prometheus collectors for the form endpoints.
//
// Collectors live on a private registry so tests and the /metrics route
// never see the global default registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	SubmissionsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "forms_submissions_total",
			Help: "Form submissions by endpoint and outcome code",
		},
		[]string{"endpoint", "outcome"},
	)

	UpstreamDuration = promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forms_upstream_duration_seconds",
			Help:    "Latency of outbound calls to third-party services",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"target"},
	)

	NotificationsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "forms_notifications_total",
			Help: "Best-effort side-channel notifications by channel and result",
		},
		[]string{"channel", "result"},
	)

	RateLimitHitsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "forms_rate_limit_hits_total",
			Help: "Submissions rejected by the per-client rate limit",
		},
		[]string{"endpoint"},
	)
)

func init() {
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler serves the private registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
