// Package tier provides read-only access to per-business reward tier policy.
//
// A tier bounds how much a business pays out: a cap per single reward, a cap
// per calendar day, a cap per calendar month, and the platform commission
// rate. Tier assignment is owned by an external management process; this core
// only reads the effective config for the session's business.
package tier

import (
	"fmt"
	"time"

	id "vocilia/pkg/domain"
	dErrors "vocilia/pkg/domain-errors"
)

// Level is the tier number a business is enrolled in.
type Level int

// Known tier levels, in ascending generosity.
const (
	Level1 Level = 1
	Level2 Level = 2
	Level3 Level = 3
)

// IsValid reports whether the level is a known tier.
func (l Level) IsValid() bool {
	return l >= Level1 && l <= Level3
}

// Config is the reward policy for one business. Amounts are in currency
// minor units; CommissionPermille is the platform fee in per-mille of the
// capped reward (200 = 20%).
type Config struct {
	BusinessID         id.BusinessID
	Level              Level
	MaxSingleReward    id.Money
	MaxDailyReward     id.Money
	MaxMonthlyReward   id.Money
	CommissionPermille int64
	UpdatedAt          time.Time
}

// Validate checks internal consistency. Stores call this on load so a
// misconfigured row is rejected at the boundary instead of producing a
// nonsense payout.
func (c *Config) Validate() error {
	if !c.Level.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown tier level %d", c.Level))
	}
	if c.MaxSingleReward <= 0 || c.MaxDailyReward <= 0 || c.MaxMonthlyReward <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "tier caps must be positive")
	}
	if c.MaxSingleReward > c.MaxDailyReward || c.MaxDailyReward > c.MaxMonthlyReward {
		return dErrors.New(dErrors.CodeInvalidInput, "tier caps must be ordered single <= daily <= monthly")
	}
	if c.CommissionPermille < 0 || c.CommissionPermille > 1000 {
		return dErrors.New(dErrors.CodeInvalidInput, "commission must be between 0 and 1000 permille")
	}
	return nil
}

// DefaultConfig returns the platform-default policy for a level. Businesses
// without an explicit row fall back to these values.
func DefaultConfig(businessID id.BusinessID, level Level) *Config {
	base := &Config{BusinessID: businessID, Level: level}
	switch level {
	case Level2:
		base.MaxSingleReward = 10_000
		base.MaxDailyReward = 50_000
		base.MaxMonthlyReward = 500_000
		base.CommissionPermille = 180
	case Level3:
		base.MaxSingleReward = 15_000
		base.MaxDailyReward = 100_000
		base.MaxMonthlyReward = 1_000_000
		base.CommissionPermille = 150
	default:
		base.Level = Level1
		base.MaxSingleReward = 5_000
		base.MaxDailyReward = 20_000
		base.MaxMonthlyReward = 200_000
		base.CommissionPermille = 200
	}
	return base
}
