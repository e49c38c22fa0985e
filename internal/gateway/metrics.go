package gateway

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the gateway's prometheus collectors on a private registry so
// tests can run several gateways in one process.
type Metrics struct {
	registry *prometheus.Registry

	turns             prometheus.Counter
	cacheHits         prometheus.Counter
	admissionDenials  prometheus.Counter
	recoveries        prometheus.Counter
	generationLatency prometheus.Histogram
}

// NewMetrics creates and registers the gateway collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		turns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tripflow",
			Subsystem: "gateway",
			Name:      "turns_total",
			Help:      "Chat turns processed.",
		}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tripflow",
			Subsystem: "gateway",
			Name:      "cache_hits_total",
			Help:      "Turns answered from the deduplication cache.",
		}),
		admissionDenials: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tripflow",
			Subsystem: "gateway",
			Name:      "admission_denials_total",
			Help:      "Turns rejected by the rate limiter.",
		}),
		recoveries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tripflow",
			Subsystem: "gateway",
			Name:      "recoveries_total",
			Help:      "Turns answered with a recovery response instead of generation.",
		}),
		generationLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tripflow",
			Subsystem: "gateway",
			Name:      "turn_duration_seconds",
			Help:      "Wall-clock duration of a full chat turn.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}
}

// ObserveTurn records one completed turn.
func (m *Metrics) ObserveTurn(elapsed time.Duration, cached bool) {
	m.turns.Inc()
	if cached {
		m.cacheHits.Inc()
	}
	m.generationLatency.Observe(elapsed.Seconds())
}

// Handler serves the registry in prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
