package events

import (
	"context"
	"fmt"
	"log/slog"

	"vocilia/internal/events/metrics"
	"vocilia/pkg/requestcontext"
)

// StorePublisher appends events straight to a store. Tests and single-node
// deployments use it as the terminal sink.
type StorePublisher struct {
	store Store
}

// NewStorePublisher creates a publisher writing to the given store.
func NewStorePublisher(store Store) (*StorePublisher, error) {
	if store == nil {
		return nil, fmt.Errorf("event store is required")
	}
	return &StorePublisher{store: store}, nil
}

// Emit implements Publisher.
func (p *StorePublisher) Emit(ctx context.Context, event Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = requestcontext.Now(ctx)
	}
	return p.store.Append(ctx, event)
}

// DefaultBufferSize is the channel capacity between the session pipeline and
// the event worker.
const DefaultBufferSize = 1024

// ChannelPublisher decouples the session hot path from event delivery: Emit
// enqueues and returns, a Worker drains the inbox to the real sink.
type ChannelPublisher struct {
	inbox   chan Event
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type ChannelOption func(*ChannelPublisher)

func WithChannelLogger(logger *slog.Logger) ChannelOption {
	return func(p *ChannelPublisher) {
		p.logger = logger
	}
}

func WithChannelMetrics(m *metrics.Metrics) ChannelOption {
	return func(p *ChannelPublisher) {
		p.metrics = m
	}
}

// NewChannelPublisher creates a buffered publisher. Non-positive buffer sizes
// fall back to DefaultBufferSize.
func NewChannelPublisher(buffer int, opts ...ChannelOption) *ChannelPublisher {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	p := &ChannelPublisher{
		inbox:  make(chan Event, buffer),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Inbox exposes the feed for a Worker to drain.
func (p *ChannelPublisher) Inbox() <-chan Event {
	return p.inbox
}

// Emit implements Publisher. When the buffer is full the event is dropped
// and counted; a slow consumer must never stall a session turn.
func (p *ChannelPublisher) Emit(ctx context.Context, event Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = requestcontext.Now(ctx)
	}

	select {
	case p.inbox <- event:
		p.metrics.IncrementPublished(string(event.Type))
		return nil
	default:
		p.metrics.IncrementDropped(string(event.Type))
		p.logger.WarnContext(ctx, "event buffer full, dropping event",
			"type", event.Type,
			"session_id", event.SessionID,
		)
		return nil
	}
}
