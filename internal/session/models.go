// Package session drives one customer feedback interaction from first contact
// to a terminal state.
//
// A session is an explicit state machine. Every transition is a compare-and-
// swap against the expected prior state in the store, so a timeout firing
// concurrently with an inbound turn cannot corrupt the record: exactly one of
// the two wins and the loser is rejected. Timers are tagged with the record
// generation at arm time; a fire against a stale generation is a no-op.
//
// On completion the manager runs scoring and fraud assessment in parallel,
// joins them into the reward calculation, and parks the decision on the
// session. Pipeline failures drive the session to error with bounded retries;
// exhausted retries abandon it. No reward is ever fabricated for a session
// that could not be scored.
package session

import (
	"time"

	"vocilia/internal/fraud"
	"vocilia/internal/reward"
	"vocilia/internal/scoring"
	"vocilia/internal/transcript"
	id "vocilia/pkg/domain"
	dErrors "vocilia/pkg/domain-errors"
)

// State is one node of the session lifecycle graph.
type State string

const (
	StateInitializing   State = "initializing"
	StateGreeting       State = "greeting"
	StateListening      State = "listening"
	StateProcessing     State = "processing"
	StateResponding     State = "responding"
	StateSilenceWarning State = "silence_warning"
	StateCompleting     State = "completing"
	StateComplete       State = "complete"
	StateAbandoned      State = "abandoned"
	StateError          State = "error"
)

// transitions is the full legal-edge set. Anything not listed here is
// rejected by the store, so the graph is enumerable and exhaustively
// testable.
var transitions = map[State][]State{
	StateInitializing:   {StateGreeting, StateError, StateAbandoned},
	StateGreeting:       {StateListening, StateError, StateAbandoned},
	StateListening:      {StateProcessing, StateSilenceWarning, StateCompleting, StateError, StateAbandoned},
	StateProcessing:     {StateListening, StateResponding, StateError, StateAbandoned},
	StateResponding:     {StateListening, StateCompleting, StateError, StateAbandoned},
	StateSilenceWarning: {StateListening, StateError, StateAbandoned},
	StateCompleting:     {StateComplete, StateError, StateAbandoned},
	StateError:          {StateCompleting, StateAbandoned},
	StateComplete:       nil,
	StateAbandoned:      nil,
}

// CanTransition reports whether from → to is a legal edge.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state ends the session. Terminal sessions
// are immutable; error is not terminal because a bounded retry may still
// complete it.
func (s State) IsTerminal() bool {
	return s == StateComplete || s == StateAbandoned
}

// IsValid reports whether the state is a known lifecycle node.
func (s State) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// MaxErrorRetries bounds how often a failed completion may be retried before
// the session is abandoned.
const MaxErrorRetries = 2

// Session is one customer's feedback interaction. The store owns the record;
// callers only ever see snapshots. Generation increments on every write and
// invalidates timers armed against older versions.
type Session struct {
	ID           id.SessionID
	BusinessID   id.BusinessID
	CustomerHash id.CustomerHash

	State      State
	Generation uint64

	StartedAt      time.Time
	LastActivityAt time.Time

	PurchaseAmount id.Money
	PurchaseItems  []string

	// Client metadata captured at start; the fraud signals evaluate the
	// device that opened the session, not the one that completed it.
	ClientIP          string
	UserAgent         string
	DeviceFingerprint string

	Transcript *transcript.Aggregator

	// Completion outputs, nil until the pipeline has run.
	Quality    *scoring.QualityScore
	Assessment *fraud.Assessment
	Result     *reward.Decision

	// ErrorCount tracks how often the completion pipeline has failed.
	ErrorCount int
}

// Timeouts holds the lifecycle timing policy. All values are operator
// configuration, not architecture constants.
type Timeouts struct {
	// SilenceWarning fires after this much quiet while listening.
	SilenceWarning time.Duration
	// Abandon ends the session after this much total inactivity. The
	// warning-to-abandon remainder is Abandon minus SilenceWarning.
	Abandon time.Duration
	// Ceiling is the hard cap on total session duration.
	Ceiling time.Duration
}

// DefaultTimeouts returns the documented pilot policy.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		SilenceWarning: 10 * time.Second,
		Abandon:        30 * time.Second,
		Ceiling:        5 * time.Minute,
	}
}

// Validate rejects timing policies the timer chain cannot honor.
func (t Timeouts) Validate() error {
	if t.SilenceWarning <= 0 || t.Abandon <= 0 || t.Ceiling <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "timeouts must be positive")
	}
	if t.Abandon <= t.SilenceWarning {
		return dErrors.New(dErrors.CodeInvalidInput, "abandon timeout must exceed the silence warning")
	}
	if t.Ceiling < t.Abandon {
		return dErrors.New(dErrors.CodeInvalidInput, "session ceiling must not undercut the abandon timeout")
	}
	return nil
}

// AbandonReason explains why a session was dropped.
type AbandonReason string

const (
	AbandonInactivity       AbandonReason = "inactivity"
	AbandonCeiling          AbandonReason = "ceiling_exceeded"
	AbandonRetriesExhausted AbandonReason = "completion_retries_exhausted"
)
