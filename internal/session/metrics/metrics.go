package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the session module.
type Metrics struct {
	// Lifecycle counters
	SessionsStarted   prometheus.Counter
	SessionsCompleted prometheus.Counter
	SessionsAbandoned *prometheus.CounterVec
	ActiveSessions    prometheus.Gauge

	// Transition flow by edge
	Transitions *prometheus.CounterVec

	// Turn handling latency
	TurnLatency prometheus.Histogram

	// Completion pipeline latency and failures by stage
	StageLatency     *prometheus.HistogramVec
	PipelineRetries  *prometheus.CounterVec
	PipelineFailures *prometheus.CounterVec

	// Timer fires discarded by the generation guard
	StaleTimerFires *prometheus.CounterVec
}

// New creates a new Metrics instance with all session module metrics registered.
func New() *Metrics {
	return &Metrics{
		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vocilia_sessions_started_total",
			Help: "Total feedback sessions started",
		}),

		SessionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vocilia_sessions_completed_total",
			Help: "Total feedback sessions completed with a reward decision",
		}),

		SessionsAbandoned: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vocilia_sessions_abandoned_total",
			Help: "Total feedback sessions abandoned, by reason",
		}, []string{"reason"}), // reason: "inactivity", "ceiling_exceeded", "completion_retries_exhausted"

		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vocilia_sessions_active",
			Help: "Feedback sessions currently in a non-terminal state",
		}),

		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vocilia_session_transitions_total",
			Help: "State machine transitions by edge",
		}, []string{"from", "to"}),

		TurnLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vocilia_session_turn_duration_seconds",
			Help:    "Duration of turn handling from receipt to state update",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}),

		StageLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vocilia_session_pipeline_stage_duration_seconds",
			Help:    "Duration of completion pipeline stages",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"stage"}), // stage: "scoring", "fraud", "reward", "total"

		PipelineRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vocilia_session_pipeline_retries_total",
			Help: "Completion pipeline retries by stage",
		}, []string{"stage"}),

		PipelineFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vocilia_session_pipeline_failures_total",
			Help: "Completion pipeline failures by stage, after retries",
		}, []string{"stage"}),

		StaleTimerFires: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vocilia_session_stale_timer_fires_total",
			Help: "Timer fires discarded because the session record moved on",
		}, []string{"timer"}), // timer: "silence", "abandon", "ceiling"
	}
}

// IncrementStarted records a session start.
func (m *Metrics) IncrementStarted() {
	if m != nil {
		m.SessionsStarted.Inc()
	}
}

// IncrementCompleted records a completed session.
func (m *Metrics) IncrementCompleted() {
	if m != nil {
		m.SessionsCompleted.Inc()
	}
}

// IncrementAbandoned records an abandoned session.
func (m *Metrics) IncrementAbandoned(reason string) {
	if m != nil {
		m.SessionsAbandoned.WithLabelValues(reason).Inc()
	}
}

// IncrementActive bumps the active session gauge.
func (m *Metrics) IncrementActive() {
	if m != nil {
		m.ActiveSessions.Inc()
	}
}

// DecrementActive drops the active session gauge.
func (m *Metrics) DecrementActive() {
	if m != nil {
		m.ActiveSessions.Dec()
	}
}

// IncrementTransition records one state machine edge.
func (m *Metrics) IncrementTransition(from, to string) {
	if m != nil {
		m.Transitions.WithLabelValues(from, to).Inc()
	}
}

// ObserveTurnLatency records the duration of one turn append.
func (m *Metrics) ObserveTurnLatency(d time.Duration) {
	if m != nil {
		m.TurnLatency.Observe(d.Seconds())
	}
}

// ObserveStageLatency records the duration of one pipeline stage.
func (m *Metrics) ObserveStageLatency(stage string, d time.Duration) {
	if m != nil {
		m.StageLatency.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// IncrementPipelineRetry records a retried pipeline stage.
func (m *Metrics) IncrementPipelineRetry(stage string) {
	if m != nil {
		m.PipelineRetries.WithLabelValues(stage).Inc()
	}
}

// IncrementPipelineFailure records a failed pipeline stage.
func (m *Metrics) IncrementPipelineFailure(stage string) {
	if m != nil {
		m.PipelineFailures.WithLabelValues(stage).Inc()
	}
}

// IncrementStaleTimer records a timer fire discarded by the generation guard.
func (m *Metrics) IncrementStaleTimer(timer string) {
	if m != nil {
		m.StaleTimerFires.WithLabelValues(timer).Inc()
	}
}
