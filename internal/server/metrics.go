package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metrics holds the server collectors, registered on a private registry.
type metrics struct {
	registry *prometheus.Registry

	// requests counts API calls by route and outcome (ok, bad_request, unavailable, error).
	requests *prometheus.CounterVec
	// latency measures recommendation handling in seconds, cache hits included.
	latency prometheus.Histogram
	// warnings counts emitted recommendation warnings by kind.
	warnings *prometheus.CounterVec
	// cache counts response cache lookups by result (hit, miss).
	cache *prometheus.CounterVec
	// records is the catalog size of the engine being served.
	records prometheus.Gauge
	// reloads counts engine swaps.
	reloads prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kuliner",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total API requests by route and outcome",
		}, []string{"route", "outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kuliner",
			Subsystem: "recommend",
			Name:      "duration_seconds",
			Help:      "Recommendation request latency in seconds",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kuliner",
			Subsystem: "recommend",
			Name:      "warnings_total",
			Help:      "Total recommendation warnings by kind",
		}, []string{"kind"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kuliner",
			Subsystem: "recommend",
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by result",
		}, []string{"result"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kuliner",
			Subsystem: "engine",
			Name:      "records",
			Help:      "Catalog records served by the current engine",
		}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kuliner",
			Subsystem: "engine",
			Name:      "reloads_total",
			Help:      "Total engine swaps after a dataset reload",
		}),
	}
	m.registry.MustRegister(
		m.requests, m.latency, m.warnings, m.cache, m.records, m.reloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
