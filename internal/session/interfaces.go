package session

import (
	"context"

	"vocilia/internal/fraud"
	"vocilia/internal/reward"
	"vocilia/internal/scoring"
	id "vocilia/pkg/domain"
)

// Store keeps the live session records. Implementations must be safe for
// concurrent use; the returned *Session values are snapshots, never the live
// record.
//
// Infrastructure facts come back as sentinels: ErrConflict from Create on a
// duplicate id, ErrNotFound from lookups, ErrInvalidState from a transition
// whose from-state no longer matches, ErrExpired from a generation-checked
// transition against a stale generation.
type Store interface {
	Create(ctx context.Context, sess *Session) error
	Get(ctx context.Context, sessionID id.SessionID) (*Session, error)

	// Update mutates non-state fields under the store lock. The mutate func
	// sees the live record and must not change State or Generation; the
	// store bumps the generation and stamps LastActivityAt itself.
	Update(ctx context.Context, sessionID id.SessionID, mutate func(*Session) error) (*Session, error)

	// Transition performs an atomic compare-and-swap from → to. The swap is
	// rejected when the current state differs from from, or when the edge is
	// not in the lifecycle graph.
	Transition(ctx context.Context, sessionID id.SessionID, from, to State) (*Session, error)

	// TransitionIfGeneration is Transition with an additional generation
	// guard. Timer callbacks use it so a fire armed against an older record
	// version is discarded instead of racing the write that superseded it.
	TransitionIfGeneration(ctx context.Context, sessionID id.SessionID, gen uint64, from, to State) (*Session, error)
}

// Scorer computes the quality score for a completed transcript.
type Scorer interface {
	Score(ctx context.Context, in scoring.Input) (*scoring.QualityScore, error)
}

// RiskAssessor computes the fraud assessment for a completed session.
type RiskAssessor interface {
	Assess(ctx context.Context, in fraud.Input) (*fraud.Assessment, error)
}

// RewardCalculator derives the payout decision from the joined pipeline
// outputs.
type RewardCalculator interface {
	Calculate(ctx context.Context, in reward.Input) (*reward.Decision, error)
}
