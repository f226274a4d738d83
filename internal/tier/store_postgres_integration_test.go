//go:build integration

package tier_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vocilia/internal/tier"
	id "vocilia/pkg/domain"
	dErrors "vocilia/pkg/domain-errors"
	"vocilia/pkg/platform/sentinel"
	"vocilia/pkg/testutil/containers"
)

type PostgresPolicyStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *tier.PostgresPolicyStore
}

func TestPostgresPolicyStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresPolicyStoreSuite))
}

func (s *PostgresPolicyStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = tier.NewPostgresPolicyStore(s.postgres.DB)
}

func (s *PostgresPolicyStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "business_tier_configs")
	s.Require().NoError(err)
}

const insertConfig = `
INSERT INTO business_tier_configs
	(business_id, tier_level, max_single_reward, max_daily_reward, max_monthly_reward, commission_permille, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (s *PostgresPolicyStoreSuite) seedConfig(cfg *tier.Config) {
	s.T().Helper()

	ctx := context.Background()
	_, err := s.postgres.DB.ExecContext(ctx, insertConfig,
		cfg.BusinessID.String(),
		int(cfg.Level),
		cfg.MaxSingleReward.Minor(),
		cfg.MaxDailyReward.Minor(),
		cfg.MaxMonthlyReward.Minor(),
		cfg.CommissionPermille,
		cfg.UpdatedAt,
	)
	s.Require().NoError(err)
}

func (s *PostgresPolicyStoreSuite) TestGet_RoundTrip() {
	ctx := context.Background()
	seeded := &tier.Config{
		BusinessID:         id.NewBusinessID(),
		Level:              tier.Level2,
		MaxSingleReward:    10_000,
		MaxDailyReward:     50_000,
		MaxMonthlyReward:   500_000,
		CommissionPermille: 180,
		UpdatedAt:          time.Now(),
	}
	s.seedConfig(seeded)

	got, err := s.store.Get(ctx, seeded.BusinessID)
	s.Require().NoError(err)
	s.Equal(seeded.BusinessID, got.BusinessID)
	s.Equal(tier.Level2, got.Level)
	s.EqualValues(10_000, got.MaxSingleReward.Minor())
	s.EqualValues(50_000, got.MaxDailyReward.Minor())
	s.EqualValues(500_000, got.MaxMonthlyReward.Minor())
	s.EqualValues(180, got.CommissionPermille)
	s.WithinDuration(seeded.UpdatedAt, got.UpdatedAt, time.Second)
}

func (s *PostgresPolicyStoreSuite) TestGet_NotFound() {
	ctx := context.Background()

	_, err := s.store.Get(ctx, id.NewBusinessID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestGet_MisconfiguredRowRejected verifies that a row violating the cap
// ordering never reaches the reward path.
func (s *PostgresPolicyStoreSuite) TestGet_MisconfiguredRowRejected() {
	ctx := context.Background()
	seeded := &tier.Config{
		BusinessID:         id.NewBusinessID(),
		Level:              tier.Level1,
		MaxSingleReward:    50_000,
		MaxDailyReward:     5_000,
		MaxMonthlyReward:   500_000,
		CommissionPermille: 200,
		UpdatedAt:          time.Now(),
	}
	s.seedConfig(seeded)

	_, err := s.store.Get(ctx, seeded.BusinessID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput), "expected invalid_input, got %v", err)
}

func (s *PostgresPolicyStoreSuite) TestGet_UnknownLevelRejected() {
	ctx := context.Background()
	seeded := &tier.Config{
		BusinessID:         id.NewBusinessID(),
		Level:              tier.Level(9),
		MaxSingleReward:    5_000,
		MaxDailyReward:     20_000,
		MaxMonthlyReward:   200_000,
		CommissionPermille: 200,
		UpdatedAt:          time.Now(),
	}
	s.seedConfig(seeded)

	_, err := s.store.Get(ctx, seeded.BusinessID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput), "expected invalid_input, got %v", err)
}

func (s *PostgresPolicyStoreSuite) TestGet_DistinctBusinesses() {
	ctx := context.Background()
	level1 := tier.DefaultConfig(id.NewBusinessID(), tier.Level1)
	level1.UpdatedAt = time.Now()
	level3 := tier.DefaultConfig(id.NewBusinessID(), tier.Level3)
	level3.UpdatedAt = time.Now()
	s.seedConfig(level1)
	s.seedConfig(level3)

	got, err := s.store.Get(ctx, level3.BusinessID)
	s.Require().NoError(err)
	s.Equal(tier.Level3, got.Level)
	s.EqualValues(15_000, got.MaxSingleReward.Minor())
}
