package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks rule evaluation metrics.
//
// Metrics:
//   - bb_validation_evaluations_total: Total rule-set evaluations by rule set and trigger
//   - bb_validation_evaluation_duration_seconds: Rule-set evaluation duration
//   - bb_validation_rule_hits_total: Number of times a rule matched
//   - bb_validation_rule_misses_total: Number of times a rule did not match
//   - bb_validation_rule_errors_total: Number of rule evaluation errors
type Metrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	ruleHitsTotal      *prometheus.CounterVec
	ruleMissesTotal    *prometheus.CounterVec
	ruleErrorsTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers validation metrics with the provided
// registry. The namespace defaults to "bb" when empty.
func NewMetrics(namespace string, registry *prometheus.Registry) *Metrics {
	if namespace == "" {
		namespace = "bb"
	}

	m := &Metrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "validation",
				Name:      "evaluations_total",
				Help:      "Total number of rule-set evaluations",
			},
			[]string{"rule_set", "trigger"},
		),

		evaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "validation",
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of rule-set evaluation in seconds",
				// Evaluations are pure CPU and should be fast (< 1ms)
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 12), // 1µs to 2ms
			},
			[]string{"rule_set"},
		),

		ruleHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "validation",
				Name:      "rule_hits_total",
				Help:      "Total number of rule matches",
			},
			[]string{"rule_id"},
		),

		ruleMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "validation",
				Name:      "rule_misses_total",
				Help:      "Total number of rule misses",
			},
			[]string{"rule_id"},
		),

		ruleErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "validation",
				Name:      "rule_errors_total",
				Help:      "Total number of rule evaluation errors",
			},
			[]string{"rule_id"},
		),
	}

	registry.MustRegister(
		m.evaluationsTotal,
		m.evaluationDuration,
		m.ruleHitsTotal,
		m.ruleMissesTotal,
		m.ruleErrorsTotal,
	)

	return m
}

// RecordEvaluation records a completed rule-set evaluation.
func (m *Metrics) RecordEvaluation(ruleSetID, trigger string, duration time.Duration) {
	if m == nil {
		return
	}
	m.evaluationsTotal.WithLabelValues(ruleSetID, trigger).Inc()
	m.evaluationDuration.WithLabelValues(ruleSetID).Observe(duration.Seconds())
}

// RecordHit records a rule whose condition matched.
func (m *Metrics) RecordHit(ruleID string) {
	if m == nil {
		return
	}
	m.ruleHitsTotal.WithLabelValues(ruleID).Inc()
}

// RecordMiss records a rule whose condition did not match.
func (m *Metrics) RecordMiss(ruleID string) {
	if m == nil {
		return
	}
	m.ruleMissesTotal.WithLabelValues(ruleID).Inc()
}

// RecordRuleError records a rule whose evaluation errored.
func (m *Metrics) RecordRuleError(ruleID string) {
	if m == nil {
		return
	}
	m.ruleErrorsTotal.WithLabelValues(ruleID).Inc()
}
