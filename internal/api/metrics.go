package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label for requests answered with code 0.
const outcomeSuccess = "success"

// Metrics counts request outcomes per device family and times each handler.
// It owns its registry so independent handlers never collide.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	timing   *prometheus.SummaryVec
}

// NewMetrics creates the collectors, prefixed with the twin's name.
func NewMetrics(twinName string) *Metrics {
	ns := strings.NewReplacer("-", "_", " ", "_").Replace(twinName)

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "requests_total",
				Help:      "VeSync API requests by device family and outcome.",
			},
			[]string{"family", "outcome"},
		),
		timing: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Namespace: ns,
				Name:      "request_duration_seconds",
				Help:      "VeSync API handler timing.",
			},
			[]string{"handler"},
		),
	}
	m.registry.MustRegister(m.requests, m.timing)
	return m
}

// Count records one request outcome.
func (m *Metrics) Count(family, outcome string) {
	m.requests.WithLabelValues(family, outcome).Inc()
}

// Timing records how long a handler took since start.
func (m *Metrics) Timing(start time.Time, handler string) {
	m.timing.WithLabelValues(handler).Observe(time.Since(start).Seconds())
}

// Handler serves the collected metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
