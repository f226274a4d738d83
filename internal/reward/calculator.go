package reward

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"vocilia/internal/fraud"
	"vocilia/internal/reward/metrics"
	"vocilia/internal/scoring"
	"vocilia/internal/tier"
	id "vocilia/pkg/domain"
	dErrors "vocilia/pkg/domain-errors"
	"vocilia/pkg/requestcontext"
)

// Input carries everything one payout decision depends on.
type Input struct {
	SessionID      id.SessionID
	BusinessID     id.BusinessID
	PurchaseAmount id.Money
	Quality        *scoring.QualityScore
	Fraud          *fraud.Assessment
	Tier           *tier.Config
}

// Calculator composes the payout: band percentage of the purchase, fraud
// adjustment, single-reward cap, atomic daily/monthly reserve, commission.
type Calculator struct {
	policy  *PercentagePolicy
	usage   UsageStore
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Calculator)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Calculator) {
		c.metrics = m
	}
}

// NewCalculator creates a calculator over the given policy and usage store.
func NewCalculator(policy *PercentagePolicy, usage UsageStore, opts ...Option) (*Calculator, error) {
	if policy == nil {
		return nil, fmt.Errorf("percentage policy is required")
	}
	if usage == nil {
		return nil, fmt.Errorf("usage store is required")
	}

	c := &Calculator{
		policy: policy,
		usage:  usage,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Calculate derives the decision for a completed session.
// Errors: CodeInvalidAmount on a non-positive purchase amount,
// CodeInvalidInput on missing inputs, CodeUnavailable when the usage store
// cannot be reached. A zero reward is a valid decision, not an error.
func (c *Calculator) Calculate(ctx context.Context, in Input) (*Decision, error) {
	if !in.PurchaseAmount.IsPositive() {
		return nil, dErrors.New(dErrors.CodeInvalidAmount, "purchase amount must be positive")
	}
	if in.SessionID.IsNil() || in.BusinessID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "session and business ids are required")
	}
	if in.Quality == nil || in.Fraud == nil || in.Tier == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "quality score, fraud assessment, and tier config are required")
	}

	now := requestcontext.Now(ctx)
	decision := &Decision{
		SessionID:  in.SessionID,
		BusinessID: in.BusinessID,
		Quality:    in.Quality.Total,
		RiskLevel:  in.Fraud.RiskLevel,
		Blocked:    in.Fraud.SessionBlocked,
		DecidedAt:  now,
	}

	permille := c.policy.PermilleFor(in.Quality.Total)
	decision.BaseReward = in.PurchaseAmount.PerMille(permille)

	// A blocked session keeps its computed base for the audit trail but pays
	// nothing.
	if in.Fraud.SessionBlocked {
		c.metrics.IncrementDecision("blocked")
		c.logger.InfoContext(ctx, "reward blocked by fraud assessment",
			"session_id", in.SessionID,
			"business_id", in.BusinessID,
			"risk_level", in.Fraud.RiskLevel,
		)
		return decision, nil
	}

	adjusted := decision.BaseReward - decision.BaseReward.PerMille(adjustmentPermille(in.Fraud.RewardAdjustment))
	decision.FraudAdjustedReward = adjusted

	capped := adjusted.Min(in.Tier.MaxSingleReward)
	if capped < adjusted {
		c.metrics.IncrementCapApplied("single")
	}

	if capped.IsPositive() {
		admitted, err := c.usage.Reserve(ctx, in.BusinessID, now, capped,
			in.Tier.MaxDailyReward, in.Tier.MaxMonthlyReward)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "reward usage reserve failed")
		}
		if admitted < capped {
			c.metrics.IncrementCapApplied("usage")
		}
		capped = admitted
	}
	decision.TierCappedReward = capped

	decision.Commission = capped.PerMille(in.Tier.CommissionPermille)
	decision.BusinessCost = decision.TierCappedReward + decision.Commission

	outcome := "paid"
	if !capped.IsPositive() {
		outcome = "zero"
	}
	c.metrics.IncrementDecision(outcome)
	c.metrics.ObserveReward(capped.Minor())
	c.logger.InfoContext(ctx, "reward decided",
		"session_id", in.SessionID,
		"business_id", in.BusinessID,
		"quality", in.Quality.Total,
		"risk_level", in.Fraud.RiskLevel,
		"base_reward", decision.BaseReward,
		"final_reward", decision.TierCappedReward,
		"business_cost", decision.BusinessCost,
	)
	return decision, nil
}

// adjustmentPermille converts the fraud adjustment fraction to per-mille so
// the deduction stays in integer money math.
func adjustmentPermille(adjustment float64) int64 {
	if adjustment <= 0 {
		return 0
	}
	if adjustment >= 1 {
		return 1000
	}
	return int64(math.Round(adjustment * 1000))
}
