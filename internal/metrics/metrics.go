// Package metrics exposes Prometheus collectors for pattern-set builds and scans.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several instances can coexist in one
// process (tests, embedded use). A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	scans        *prometheus.CounterVec
	hits         *prometheus.CounterVec
	builds       *prometheus.CounterVec
	buildSeconds *prometheus.HistogramVec
	states       *prometheus.GaugeVec
	patterns     *prometheus.GaugeVec
	generation   prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patternscan_scans_total",
				Help: "Number of texts scanned",
			},
			[]string{"set"},
		),
		hits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patternscan_hits_total",
				Help: "Number of pattern occurrences reported",
			},
			[]string{"set"},
		),
		builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patternscan_builds_total",
				Help: "Number of pattern-set builds",
			},
			[]string{"set", "result"},
		),
		buildSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "patternscan_build_duration_seconds",
				Help:    "Time to build and finalize a pattern set",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
			[]string{"set"},
		),
		states: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "patternscan_automaton_states",
				Help: "Number of automaton states per pattern set",
			},
			[]string{"set"},
		),
		patterns: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "patternscan_patterns",
				Help: "Number of distinct patterns per pattern set",
			},
			[]string{"set"},
		),
		generation: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "patternscan_generation",
				Help: "Current pattern-set generation",
			},
		),
	}
	m.registry.MustRegister(
		m.scans,
		m.hits,
		m.builds,
		m.buildSeconds,
		m.states,
		m.patterns,
		m.generation,
	)
	return m
}

// ObserveScan records one scan of set that reported hits occurrences.
func (m *Metrics) ObserveScan(set string, hits int) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(set).Inc()
	m.hits.WithLabelValues(set).Add(float64(hits))
}

// ObserveBuild records a build attempt. states and patterns are only
// published when err is nil.
func (m *Metrics) ObserveBuild(set string, states, patterns int, d time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.builds.WithLabelValues(set, "error").Inc()
		return
	}
	m.builds.WithLabelValues(set, "ok").Inc()
	m.buildSeconds.WithLabelValues(set).Observe(d.Seconds())
	m.states.WithLabelValues(set).Set(float64(states))
	m.patterns.WithLabelValues(set).Set(float64(patterns))
}

// SetGeneration publishes the current generation.
func (m *Metrics) SetGeneration(gen uint64) {
	if m == nil {
		return
	}
	m.generation.Set(float64(gen))
}

// Forget drops the per-set gauges of a removed set.
func (m *Metrics) Forget(set string) {
	if m == nil {
		return
	}
	m.states.DeleteLabelValues(set)
	m.patterns.DeleteLabelValues(set)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
