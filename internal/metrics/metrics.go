// Package metrics exposes Prometheus metrics for beam evaluations.
package metrics

import (
	"math"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the evaluation collectors. A nil *Metrics records nothing.
type Metrics struct {
	evaluations     *prometheus.CounterVec
	evalDuration    *prometheus.HistogramVec
	evalErrors      *prometheus.CounterVec
	utilization     *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	consumedSection prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timber_evaluations_total",
				Help: "Total number of beam evaluations",
			},
			[]string{"operation", "passed"}, // operation: check, batch, import, recommend, suggest
		),
		evalDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "timber_evaluation_duration_seconds",
				Help:    "Time taken to evaluate a request",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
			},
			[]string{"operation"},
		),
		evalErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timber_evaluation_errors_total",
				Help: "Total number of rejected evaluations",
			},
			[]string{"operation", "error_type"}, // error_type: validation, not_found, internal
		),
		utilization: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "timber_max_utilization_ratio",
				Help:    "Governing ULS utilization of evaluated beams",
				Buckets: []float64{0.25, 0.5, 0.75, 0.8, 0.9, 1.0, 1.25, 1.5, 2, 5},
			},
			[]string{"situation"}, // situation: normal, fire
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timber_cache_lookups_total",
				Help: "Evaluation cache lookups",
			},
			[]string{"result"}, // result: hit, miss
		),
		consumedSection: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "timber_fire_consumed_sections_total",
				Help: "Fire checks where the section burned through",
			},
		),
	}
	if err := reg.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.evaluations,
		m.evalDuration,
		m.evalErrors,
		m.utilization,
		m.cacheLookups,
		m.consumedSection,
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

// RecordEvaluation counts a finished evaluation and its duration in seconds.
func (m *Metrics) RecordEvaluation(operation string, passed bool, seconds float64) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(operation, strconv.FormatBool(passed)).Inc()
	m.evalDuration.WithLabelValues(operation).Observe(seconds)
}

func (m *Metrics) RecordError(operation, errorType string) {
	if m == nil {
		return
	}
	m.evalErrors.WithLabelValues(operation, errorType).Inc()
}

// RecordUtilization observes a governing utilization. Infinite values are
// counted as consumed sections instead.
func (m *Metrics) RecordUtilization(situation string, u float64) {
	if m == nil {
		return
	}
	if math.IsInf(u, 1) {
		m.consumedSection.Inc()
		return
	}
	m.utilization.WithLabelValues(situation).Observe(u)
}

func (m *Metrics) RecordCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
