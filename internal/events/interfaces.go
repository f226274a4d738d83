package events

import (
	"context"

	id "vocilia/pkg/domain"
)

// Publisher accepts events for delivery. Emit must not stall the session
// pipeline; implementations buffer, hand off, or drop instead of blocking.
type Publisher interface {
	// Emit accepts one event. A nil return means accepted, not delivered.
	Emit(ctx context.Context, event Event) error
}

// Store persists accepted events for inspection and audit.
type Store interface {
	// Append persists one event.
	Append(ctx context.Context, event Event) error

	// ListBySession returns the session's events in append order.
	ListBySession(ctx context.Context, sessionID id.SessionID) ([]Event, error)
}
