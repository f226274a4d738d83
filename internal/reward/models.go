// Package reward turns a scored, risk-assessed session into a payout
// decision: band percentage of the purchase, fraud adjustment, tier caps,
// commission. All money math is integer minor units.
package reward

import (
	"fmt"
	"time"

	"vocilia/internal/fraud"
	id "vocilia/pkg/domain"
	dErrors "vocilia/pkg/domain-errors"
)

// Band maps quality scores at or above MinScore to a reward percentage in
// per-mille of the purchase amount (100 permille = 10%).
type Band struct {
	MinScore float64 `json:"min_score"`
	Permille int64   `json:"permille"`
}

// PercentagePolicy is an ordered score-band table. Higher scores never pay a
// lower percentage; the table is policy, not architecture, and is loaded
// from configuration.
type PercentagePolicy struct {
	bands []Band
}

// NewPercentagePolicy validates and builds a policy from ordered bands.
// Errors: CodeInvalidInput when the table is empty, does not start at score
// zero, is not strictly increasing in score, is not non-decreasing in
// percentage, or leaves the 0-1000 permille range.
func NewPercentagePolicy(bands []Band) (*PercentagePolicy, error) {
	if len(bands) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "percentage policy needs at least one band")
	}
	if bands[0].MinScore != 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "first band must start at score 0")
	}
	for i, b := range bands {
		if b.Permille <= 0 || b.Permille > 1000 {
			return nil, dErrors.New(dErrors.CodeInvalidInput,
				fmt.Sprintf("band %d permille %d outside (0,1000]", i, b.Permille))
		}
		if i == 0 {
			continue
		}
		if b.MinScore <= bands[i-1].MinScore {
			return nil, dErrors.New(dErrors.CodeInvalidInput,
				fmt.Sprintf("band %d score %v not above previous band", i, b.MinScore))
		}
		if b.Permille < bands[i-1].Permille {
			return nil, dErrors.New(dErrors.CodeInvalidInput,
				fmt.Sprintf("band %d percentage decreases", i))
		}
	}

	copied := make([]Band, len(bands))
	copy(copied, bands)
	return &PercentagePolicy{bands: copied}, nil
}

// DefaultPercentagePolicy returns the platform-default table: eleven bands
// from 1% at the floor to 12% for scores of 90 and above.
func DefaultPercentagePolicy() *PercentagePolicy {
	p, err := NewPercentagePolicy([]Band{
		{MinScore: 0, Permille: 10},
		{MinScore: 10, Permille: 20},
		{MinScore: 20, Permille: 30},
		{MinScore: 30, Permille: 40},
		{MinScore: 40, Permille: 50},
		{MinScore: 50, Permille: 60},
		{MinScore: 60, Permille: 70},
		{MinScore: 70, Permille: 80},
		{MinScore: 80, Permille: 90},
		{MinScore: 85, Permille: 100},
		{MinScore: 90, Permille: 120},
	})
	if err != nil {
		panic(fmt.Sprintf("default percentage policy invalid: %v", err))
	}
	return p
}

// PermilleFor returns the percentage for a quality score: the highest band
// whose floor the score reaches.
func (p *PercentagePolicy) PermilleFor(score float64) int64 {
	permille := p.bands[0].Permille
	for _, b := range p.bands[1:] {
		if score < b.MinScore {
			break
		}
		permille = b.Permille
	}
	return permille
}

// Bands returns a copy of the table, for diagnostics and config dumps.
func (p *PercentagePolicy) Bands() []Band {
	out := make([]Band, len(p.bands))
	copy(out, p.bands)
	return out
}

// Decision is the final payout for one completed session. Derived once,
// immutable afterwards.
type Decision struct {
	SessionID  id.SessionID    `json:"session_id"`
	BusinessID id.BusinessID   `json:"business_id"`
	Quality    float64         `json:"quality_total"`
	RiskLevel  fraud.RiskLevel `json:"risk_level"`

	BaseReward          id.Money `json:"base_reward"`
	FraudAdjustedReward id.Money `json:"fraud_adjusted_reward"`
	TierCappedReward    id.Money `json:"tier_capped_reward"`
	Commission          id.Money `json:"commission"`
	BusinessCost        id.Money `json:"business_cost"`

	Blocked   bool      `json:"blocked"`
	DecidedAt time.Time `json:"decided_at"`
}
