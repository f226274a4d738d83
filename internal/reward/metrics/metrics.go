package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the reward module.
type Metrics struct {
	// Decisions by outcome
	Decisions *prometheus.CounterVec

	// Final reward amounts in minor units
	RewardAmount prometheus.Histogram

	// Cap applications by cap kind
	CapApplied *prometheus.CounterVec
}

// New creates a new Metrics instance with all reward module metrics registered.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vocilia_reward_decisions_total",
			Help: "Total reward decisions by outcome",
		}, []string{"outcome"}), // outcome: "paid", "zero", "blocked"

		RewardAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vocilia_reward_amount_minor_units",
			Help:    "Final reward amounts in currency minor units",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10),
		}),

		CapApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vocilia_reward_cap_applied_total",
			Help: "Total rewards reduced by a cap, by cap kind",
		}, []string{"cap"}), // cap: "single", "usage"
	}
}

// IncrementDecision records one decision outcome.
func (m *Metrics) IncrementDecision(outcome string) {
	if m != nil {
		m.Decisions.WithLabelValues(outcome).Inc()
	}
}

// ObserveReward records a final reward amount.
func (m *Metrics) ObserveReward(amount int64) {
	if m != nil {
		m.RewardAmount.Observe(float64(amount))
	}
}

// IncrementCapApplied records a reward reduced by the given cap.
func (m *Metrics) IncrementCapApplied(kind string) {
	if m != nil {
		m.CapApplied.WithLabelValues(kind).Inc()
	}
}
