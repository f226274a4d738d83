package tier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "vocilia/pkg/domain"
	dErrors "vocilia/pkg/domain-errors"
	"vocilia/pkg/platform/sentinel"
	"vocilia/pkg/requestcontext"
)

func TestConfig_Validate(t *testing.T) {
	businessID := id.NewBusinessID()

	t.Run("default configs are valid for every level", func(t *testing.T) {
		for _, level := range []Level{Level1, Level2, Level3} {
			assert.NoError(t, DefaultConfig(businessID, level).Validate(), "level %d", level)
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		cfg := DefaultConfig(businessID, Level1)
		cfg.Level = 4
		err := cfg.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects unordered caps", func(t *testing.T) {
		cfg := DefaultConfig(businessID, Level1)
		cfg.MaxSingleReward = cfg.MaxDailyReward + 1
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects commission above 100 percent", func(t *testing.T) {
		cfg := DefaultConfig(businessID, Level1)
		cfg.CommissionPermille = 1001
		require.Error(t, cfg.Validate())
	})
}

func TestDefaultConfig_Level1(t *testing.T) {
	cfg := DefaultConfig(id.NewBusinessID(), Level1)

	assert.Equal(t, id.Money(5_000), cfg.MaxSingleReward)
	assert.Equal(t, id.Money(20_000), cfg.MaxDailyReward)
	assert.Equal(t, int64(200), cfg.CommissionPermille)
}

func TestInMemoryPolicyStore(t *testing.T) {
	t.Run("round-trips a config", func(t *testing.T) {
		store := NewInMemoryPolicyStore()
		businessID := id.NewBusinessID()
		require.NoError(t, store.Put(context.Background(), DefaultConfig(businessID, Level2)))

		got, err := store.Get(context.Background(), businessID)
		require.NoError(t, err)
		assert.Equal(t, Level2, got.Level)
	})

	t.Run("returns ErrNotFound for unknown business", func(t *testing.T) {
		store := NewInMemoryPolicyStore()
		_, err := store.Get(context.Background(), id.NewBusinessID())
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("rejects invalid config on Put", func(t *testing.T) {
		store := NewInMemoryPolicyStore()
		cfg := DefaultConfig(id.NewBusinessID(), Level1)
		cfg.MaxDailyReward = 0
		require.Error(t, store.Put(context.Background(), cfg))
	})
}

func TestCachedPolicyStore_ServesStaleOnOriginError(t *testing.T) {
	mem := NewInMemoryPolicyStore()
	businessID := id.NewBusinessID()
	require.NoError(t, mem.Put(context.Background(), DefaultConfig(businessID, Level1)))

	origin := &failingPolicyStore{inner: mem}
	cached := NewCachedPolicyStore(origin, time.Minute)

	base := time.Now()
	_, err := cached.Get(requestcontext.WithTime(context.Background(), base), businessID)
	require.NoError(t, err)

	origin.fail = true
	later := requestcontext.WithTime(context.Background(), base.Add(5*time.Minute))
	got, err := cached.Get(later, businessID)
	require.NoError(t, err)
	assert.Equal(t, Level1, got.Level)
}

type failingPolicyStore struct {
	inner PolicyStore
	fail  bool
}

func (f *failingPolicyStore) Get(ctx context.Context, businessID id.BusinessID) (*Config, error) {
	if f.fail {
		return nil, sentinel.ErrUnavailable
	}
	return f.inner.Get(ctx, businessID)
}
