package events

import (
	"context"
	"fmt"
	"log/slog"

	"vocilia/internal/events/metrics"
)

// Worker drains an event inbox into a sink. One failed delivery is logged
// and counted, not fatal; the feed keeps moving.
type Worker struct {
	sink    Publisher
	inbox   <-chan Event
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type WorkerOption func(*Worker)

func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		w.logger = logger
	}
}

func WithWorkerMetrics(m *metrics.Metrics) WorkerOption {
	return func(w *Worker) {
		w.metrics = m
	}
}

// NewWorker creates a worker draining inbox into sink.
func NewWorker(sink Publisher, inbox <-chan Event, opts ...WorkerOption) (*Worker, error) {
	if sink == nil {
		return nil, fmt.Errorf("event sink is required")
	}
	if inbox == nil {
		return nil, fmt.Errorf("event inbox is required")
	}

	w := &Worker{
		sink:   sink,
		inbox:  inbox,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run consumes until the context is cancelled, then drains whatever is still
// buffered before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.deliver(ctx, event)
		}
	}
}

func (w *Worker) deliver(ctx context.Context, event Event) {
	if err := w.sink.Emit(ctx, event); err != nil {
		w.metrics.IncrementSinkFailure()
		w.logger.ErrorContext(ctx, "event delivery failed",
			"type", event.Type,
			"session_id", event.SessionID,
			"error", err,
		)
	}
}

// drain flushes buffered events on shutdown with a background context so
// cancellation does not discard what sessions already emitted.
func (w *Worker) drain() {
	for {
		select {
		case event := <-w.inbox:
			w.deliver(context.Background(), event)
		default:
			return
		}
	}
}
