// Package metrics exposes Prometheus counters for the safety service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"suraksha_mesh/internal/models"
)

const namespace = "suraksha"

// Metrics owns its registry so several instances can live in one process.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	assessments        *prometheus.CounterVec
	validationFailures prometheus.Counter
	clamps             prometheus.Counter
	persistFailures    prometheus.Counter
	narrations         *prometheus.CounterVec
	narrationLatency   prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Readings classified, by decision and source.",
		}, []string{"decision", "source"}),
		validationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Telemetry payloads rejected at ingestion.",
		}),
		clamps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_score_clamped_total",
			Help:      "Readings whose risk score was outside 0..100.",
		}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Assessments that could not be written to storage.",
		}),
		narrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narrations_total",
			Help:      "Narration attempts by outcome (live, demo, error).",
		}, []string{"outcome"}),
		narrationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "narration_latency_seconds",
			Help:      "Time spent producing a narrative.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}

	m.registry.MustRegister(
		m.assessments,
		m.validationFailures,
		m.clamps,
		m.persistFailures,
		m.narrations,
		m.narrationLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAssessment(a models.Assessment, clamped bool) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(string(a.Verdict.Decision), a.Source).Inc()
	if clamped {
		m.clamps.Inc()
	}
}

func (m *Metrics) IncValidationFailure() {
	if m == nil {
		return
	}
	m.validationFailures.Inc()
}

func (m *Metrics) IncPersistFailure() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}

// ObserveNarration records one narration attempt.
func (m *Metrics) ObserveNarration(d time.Duration, demo bool, err error) {
	if m == nil {
		return
	}
	outcome := "live"
	switch {
	case err != nil:
		outcome = "error"
	case demo:
		outcome = "demo"
	}
	m.narrations.WithLabelValues(outcome).Inc()
	m.narrationLatency.Observe(d.Seconds())
}
