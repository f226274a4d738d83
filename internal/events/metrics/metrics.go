package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the event feed.
type Metrics struct {
	// Events accepted for delivery, by type
	Published *prometheus.CounterVec

	// Events dropped because the buffer was full, by type
	Dropped *prometheus.CounterVec

	// Sink delivery failures
	SinkFailures prometheus.Counter
}

// New creates a new Metrics instance with all event feed metrics registered.
func New() *Metrics {
	return &Metrics{
		Published: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vocilia_events_published_total",
			Help: "Total events accepted for delivery by type",
		}, []string{"type"}),

		Dropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vocilia_events_dropped_total",
			Help: "Total events dropped on a full buffer by type",
		}, []string{"type"}),

		SinkFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vocilia_events_sink_failures_total",
			Help: "Total event deliveries the sink rejected",
		}),
	}
}

// IncrementPublished records one accepted event.
func (m *Metrics) IncrementPublished(eventType string) {
	if m != nil {
		m.Published.WithLabelValues(eventType).Inc()
	}
}

// IncrementDropped records one dropped event.
func (m *Metrics) IncrementDropped(eventType string) {
	if m != nil {
		m.Dropped.WithLabelValues(eventType).Inc()
	}
}

// IncrementSinkFailure records one failed delivery.
func (m *Metrics) IncrementSinkFailure() {
	if m != nil {
		m.SinkFailures.Inc()
	}
}
