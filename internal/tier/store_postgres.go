package tier

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "vocilia/pkg/domain"
	"vocilia/pkg/platform/sentinel"
)

// PostgresPolicyStore reads tier configs from the lookup database. The table
// is owned by the tier management process; this core only selects.
type PostgresPolicyStore struct {
	db *sql.DB
}

// NewPostgresPolicyStore constructs a Postgres-backed policy store.
func NewPostgresPolicyStore(db *sql.DB) *PostgresPolicyStore {
	return &PostgresPolicyStore{db: db}
}

const getConfigQuery = `
SELECT tier_level, max_single_reward, max_daily_reward, max_monthly_reward, commission_permille, updated_at
FROM business_tier_configs
WHERE business_id = $1`

func (s *PostgresPolicyStore) Get(ctx context.Context, businessID id.BusinessID) (*Config, error) {
	cfg := &Config{BusinessID: businessID}
	var level int
	err := s.db.QueryRowContext(ctx, getConfigQuery, businessID.String()).Scan(
		&level,
		&cfg.MaxSingleReward,
		&cfg.MaxDailyReward,
		&cfg.MaxMonthlyReward,
		&cfg.CommissionPermille,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get tier config: %w", err)
	}
	cfg.Level = Level(level)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("tier config for %s: %w", businessID, err)
	}
	return cfg, nil
}
