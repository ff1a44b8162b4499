package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "imagegen"

// Metrics holds the collectors for spec generation and image builds.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	generations *prometheus.CounterVec
	builds      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New creates collectors on a private registry, with Go runtime metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Build spec renderings by outcome.",
		}, []string{"outcome"}),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Local image builds by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages.",
			Buckets:   []float64{0.5, 1, 5, 15, 60, 300, 900, 1800, 3600},
		}, []string{"stage"}),
	}
	m.registry.MustRegister(
		m.generations,
		m.builds,
		m.duration,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry exposes the underlying registry for scraping.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveGeneration(err error, d time.Duration) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome(err)).Inc()
	m.duration.WithLabelValues("generate").Observe(d.Seconds())
}

func (m *Metrics) ObserveBuild(err error, d time.Duration) {
	if m == nil {
		return
	}
	m.builds.WithLabelValues(outcome(err)).Inc()
	m.duration.WithLabelValues("build").Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
