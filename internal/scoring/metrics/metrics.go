package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the scoring module.
type Metrics struct {
	// Score distribution by component
	ScoreDistribution *prometheus.HistogramVec

	// Scoring latency
	ScoreLatency prometheus.Histogram

	// Calibration applications by segment
	CalibrationApplied *prometheus.CounterVec
}

// New creates a new Metrics instance with all scoring module metrics registered.
func New() *Metrics {
	return &Metrics{
		ScoreDistribution: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vocilia_scoring_score",
			Help:    "Distribution of quality scores by component",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}, []string{"component"}), // component: "authenticity", "concreteness", "depth", "total"

		ScoreLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vocilia_scoring_duration_seconds",
			Help:    "Duration of quality score computation",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),

		CalibrationApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vocilia_scoring_calibration_applied_total",
			Help: "Total calibrated scores by business type and language",
		}, []string{"business_type", "language"}),
	}
}

// ObserveScore records one component of a computed score.
func (m *Metrics) ObserveScore(component string, value float64) {
	if m != nil {
		m.ScoreDistribution.WithLabelValues(component).Observe(value)
	}
}

// ObserveScoreLatency records the duration of a score computation.
func (m *Metrics) ObserveScoreLatency(d time.Duration) {
	if m != nil {
		m.ScoreLatency.Observe(d.Seconds())
	}
}

// IncrementCalibrationApplied records a calibration application.
func (m *Metrics) IncrementCalibrationApplied(businessType, language string) {
	if m != nil {
		m.CalibrationApplied.WithLabelValues(businessType, language).Inc()
	}
}
