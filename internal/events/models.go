// Package events carries session lifecycle facts to downstream consumers:
// the payment rail, audit, analytics. The core only emits; delivery and
// execution are the consumer side's concern.
package events

import (
	"time"

	id "vocilia/pkg/domain"
	dErrors "vocilia/pkg/domain-errors"
)

// Type names one kind of session event.
type Type string

const (
	TypeSessionStarted      Type = "session_started"
	TypeStateChanged        Type = "state_changed"
	TypeSilenceWarning      Type = "silence_warning"
	TypeSessionCompleted    Type = "session_completed"
	TypeSessionAbandoned    Type = "session_abandoned"
	TypeRewardDecided       Type = "reward_decided"
	TypeFraudAssessed       Type = "fraud_assessed"
	TypeManualReviewFlagged Type = "manual_review_flagged"
)

var knownTypes = map[Type]struct{}{
	TypeSessionStarted:      {},
	TypeStateChanged:        {},
	TypeSilenceWarning:      {},
	TypeSessionCompleted:    {},
	TypeSessionAbandoned:    {},
	TypeRewardDecided:       {},
	TypeFraudAssessed:       {},
	TypeManualReviewFlagged: {},
}

// IsValid reports whether the type is one the platform emits.
func (t Type) IsValid() bool {
	_, ok := knownTypes[t]
	return ok
}

// Event is one fact about a session. Keep it transport-agnostic so stores
// and sinks can fan out.
type Event struct {
	Type       Type           `json:"type"`
	SessionID  id.SessionID   `json:"session_id"`
	BusinessID id.BusinessID  `json:"business_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Attrs      map[string]any `json:"attrs,omitempty"`
}

// Validate rejects events no sink should accept.
func (e Event) Validate() error {
	if !e.Type.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown event type")
	}
	if e.SessionID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "event session id is required")
	}
	if e.BusinessID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "event business id is required")
	}
	return nil
}
