package httpclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quefilme",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of outbound requests by upstream and status",
		},
		[]string{"service", "status"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quefilme",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Outbound request latency in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"service"},
	)

	// breakerState: 0 closed, 1 half-open, 2 open
	breakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "quefilme",
			Subsystem: "upstream",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state per upstream (0 closed, 1 half-open, 2 open)",
		},
		[]string{"service"},
	)
)

func recordUpstream(service string, status int, duration time.Duration) {
	upstreamRequestsTotal.WithLabelValues(service, statusLabel(status)).Inc()
	upstreamRequestDuration.WithLabelValues(service).Observe(duration.Seconds())
}
