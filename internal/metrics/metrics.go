// Package metrics holds the Prometheus instruments for the audit planner.
// Every method is safe to call on a nil *Metrics so components can run
// uninstrumented in tests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Generation outcomes.
const (
	OutcomeSuccess          = "success"
	OutcomeValidationFailed = "validation_failed"
	OutcomeGenerationFailed = "generation_failed"
)

// Metrics provides observability for generation, risk lookup and rendering.
type Metrics struct {
	// Generation requests by outcome
	Generations *prometheus.CounterVec

	// End-to-end generation latency, collaborator calls included
	GenerationLatency prometheus.Histogram

	// Risk analysis calls that failed and were skipped
	RiskAnalysisDegraded prometheus.Counter

	// Risk lookups answered from the fallback table
	RiskFallbacks prometheus.Counter

	// Renders by format and outcome
	Renders *prometheus.CounterVec

	// Records currently held in session history
	HistoryRecords prometheus.Gauge
}

// New registers every instrument on reg. Pass prometheus.DefaultRegisterer in
// main and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Generations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auditplan_generations_total",
			Help: "Audit plan generation requests by outcome",
		}, []string{"outcome"}),

		GenerationLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "auditplan_generation_duration_seconds",
			Help:    "Duration of a full generation including risk lookup and model calls",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		}),

		RiskAnalysisDegraded: f.NewCounter(prometheus.CounterOpts{
			Name: "auditplan_risk_analysis_degraded_total",
			Help: "Generations that continued without a risk analysis",
		}),

		RiskFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "auditplan_risk_fallbacks_total",
			Help: "Risk lookups that returned the fixed fallback table",
		}),

		Renders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auditplan_renders_total",
			Help: "Document renders by format and outcome",
		}, []string{"format", "outcome"}),

		HistoryRecords: f.NewGauge(prometheus.GaugeOpts{
			Name: "auditplan_history_records",
			Help: "Audit records held in the current session history",
		}),
	}
}

// IncrementGeneration records a generation outcome.
func (m *Metrics) IncrementGeneration(outcome string) {
	if m != nil {
		m.Generations.WithLabelValues(outcome).Inc()
	}
}

// ObserveGenerationLatency records the duration of one generation.
func (m *Metrics) ObserveGenerationLatency(d time.Duration) {
	if m != nil {
		m.GenerationLatency.Observe(d.Seconds())
	}
}

// IncrementRiskAnalysisDegraded counts a skipped risk analysis.
func (m *Metrics) IncrementRiskAnalysisDegraded() {
	if m != nil {
		m.RiskAnalysisDegraded.Inc()
	}
}

// IncrementRiskFallback counts a lookup answered from the fallback table.
func (m *Metrics) IncrementRiskFallback() {
	if m != nil {
		m.RiskFallbacks.Inc()
	}
}

// IncrementRender records a render attempt.
func (m *Metrics) IncrementRender(format string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = "error"
	}
	m.Renders.WithLabelValues(format, outcome).Inc()
}

// SetHistoryRecords publishes the current history length.
func (m *Metrics) SetHistoryRecords(n int) {
	if m != nil {
		m.HistoryRecords.Set(float64(n))
	}
}
