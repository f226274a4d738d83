package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the fraud module.
type Metrics struct {
	// Signal evaluation latencies by signal
	SignalLatency *prometheus.HistogramVec

	// Degraded signal evaluations by signal
	SignalDegraded *prometheus.CounterVec

	// Assessment outcomes by risk level
	AssessmentOutcome *prometheus.CounterVec

	// Overall risk score distribution
	RiskScore prometheus.Histogram

	// Circuit breaker state changes by signal
	BreakerTransitions *prometheus.CounterVec
}

// New creates a new Metrics instance with all fraud module metrics registered.
func New() *Metrics {
	return &Metrics{
		SignalLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vocilia_fraud_signal_duration_seconds",
			Help:    "Duration of signal evaluations by signal",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"signal"}), // signal: "device", "geographic", "temporal", "content", "voice"

		SignalDegraded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vocilia_fraud_signal_degraded_total",
			Help: "Total degraded signal evaluations by signal",
		}, []string{"signal"}),

		AssessmentOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vocilia_fraud_assessments_total",
			Help: "Total assessments by risk level",
		}, []string{"risk_level"}),

		RiskScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vocilia_fraud_risk_score",
			Help:    "Distribution of overall risk scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),

		BreakerTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vocilia_fraud_breaker_transitions_total",
			Help: "Circuit breaker transitions by signal and direction",
		}, []string{"signal", "direction"}), // direction: "opened", "closed"
	}
}

// ObserveSignalLatency records the duration of one signal evaluation.
func (m *Metrics) ObserveSignalLatency(signal string, d time.Duration) {
	if m != nil {
		m.SignalLatency.WithLabelValues(signal).Observe(d.Seconds())
	}
}

// IncrementSignalDegraded records a degraded signal evaluation.
func (m *Metrics) IncrementSignalDegraded(signal string) {
	if m != nil {
		m.SignalDegraded.WithLabelValues(signal).Inc()
	}
}

// IncrementAssessment records an assessment outcome.
func (m *Metrics) IncrementAssessment(riskLevel string) {
	if m != nil {
		m.AssessmentOutcome.WithLabelValues(riskLevel).Inc()
	}
}

// ObserveRiskScore records an overall risk score.
func (m *Metrics) ObserveRiskScore(score float64) {
	if m != nil {
		m.RiskScore.Observe(score)
	}
}

// IncrementBreakerTransition records a circuit breaker opening or closing.
func (m *Metrics) IncrementBreakerTransition(signal, direction string) {
	if m != nil {
		m.BreakerTransitions.WithLabelValues(signal, direction).Inc()
	}
}
