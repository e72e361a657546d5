// Package prometheus exposes pipeline observations as Prometheus metrics.
package prometheus

import (
	"net/http"
	"time"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "scraper"

// Ensure Metrics implements scraper.Metrics.
var _ scraper.Metrics = (*Metrics)(nil)

// Metrics implements scraper.Metrics with counters and a latency histogram.
type Metrics struct {
	registry *prometheus.Registry

	FetchesTotal  *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	OutcomesTotal *prometheus.CounterVec
}

// NewMetrics registers the scraper metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "fetches_total",
				Help:      "Total number of fetch attempts by host and status.",
			},
			[]string{"host", "status"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Latency of fetch attempts.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
			},
			[]string{"host"},
		),
		OutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "link_outcomes_total",
				Help:      "Total number of discovered links by source and outcome.",
			},
			[]string{"source", "outcome"},
		),
	}
}

// ObserveFetch records a single fetch attempt.
func (m *Metrics) ObserveFetch(host string, status scraper.FetchStatus, latency time.Duration) {
	m.FetchesTotal.WithLabelValues(host, string(status)).Inc()
	m.FetchDuration.WithLabelValues(host).Observe(latency.Seconds())
}

// ObserveOutcome records what happened to one discovered link.
func (m *Metrics) ObserveOutcome(source string, outcome scraper.Outcome) {
	m.OutcomesTotal.WithLabelValues(source, string(outcome)).Inc()
}

// Registry returns the registry holding the scraper metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registered metrics in the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
