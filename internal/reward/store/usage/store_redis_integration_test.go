//go:build integration

package usage_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vocilia/internal/reward/store/usage"
	id "vocilia/pkg/domain"
	"vocilia/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *usage.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())

	store, err := usage.NewRedisStore(s.redis.Client)
	s.Require().NoError(err)
	s.store = store
}

func (s *RedisStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.redis.FlushAll(ctx)
	s.Require().NoError(err)
}

func (s *RedisStoreSuite) TestReserve_FullAmountUnderCaps() {
	ctx := context.Background()
	businessID := id.NewBusinessID()
	day := time.Now()

	granted, err := s.store.Reserve(ctx, businessID, day, 2_000, 20_000, 200_000)
	s.Require().NoError(err)
	s.EqualValues(2_000, granted)

	granted, err = s.store.Reserve(ctx, businessID, day, 2_000, 20_000, 200_000)
	s.Require().NoError(err)
	s.EqualValues(2_000, granted)
}

func (s *RedisStoreSuite) TestReserve_PartialNearDailyCap() {
	ctx := context.Background()
	businessID := id.NewBusinessID()
	day := time.Now()

	granted, err := s.store.Reserve(ctx, businessID, day, 3_000, 5_000, 100_000)
	s.Require().NoError(err)
	s.EqualValues(3_000, granted)

	// Only 2_000 remains under the daily cap.
	granted, err = s.store.Reserve(ctx, businessID, day, 3_000, 5_000, 100_000)
	s.Require().NoError(err)
	s.EqualValues(2_000, granted)

	granted, err = s.store.Reserve(ctx, businessID, day, 1, 5_000, 100_000)
	s.Require().NoError(err)
	s.EqualValues(0, granted)
}

func (s *RedisStoreSuite) TestReserve_MonthlyCapSpansDays() {
	ctx := context.Background()
	businessID := id.NewBusinessID()

	// Two days in the same month so the daily counter resets but the
	// monthly counter carries over.
	day1 := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, time.March, 11, 12, 0, 0, 0, time.UTC)

	granted, err := s.store.Reserve(ctx, businessID, day1, 6_000, 10_000, 10_000)
	s.Require().NoError(err)
	s.EqualValues(6_000, granted)

	granted, err = s.store.Reserve(ctx, businessID, day2, 6_000, 10_000, 10_000)
	s.Require().NoError(err)
	s.EqualValues(4_000, granted, "monthly cap should bound the second day")
}

func (s *RedisStoreSuite) TestReserve_DailyCounterIsPerBusiness() {
	ctx := context.Background()
	first := id.NewBusinessID()
	second := id.NewBusinessID()
	day := time.Now()

	granted, err := s.store.Reserve(ctx, first, day, 5_000, 5_000, 100_000)
	s.Require().NoError(err)
	s.EqualValues(5_000, granted)

	// A different business has its own counters.
	granted, err = s.store.Reserve(ctx, second, day, 5_000, 5_000, 100_000)
	s.Require().NoError(err)
	s.EqualValues(5_000, granted)
}

func (s *RedisStoreSuite) TestReserve_ZeroCapMeansUnlimited() {
	ctx := context.Background()
	businessID := id.NewBusinessID()
	day := time.Now()

	granted, err := s.store.Reserve(ctx, businessID, day, 1_000_000, 0, 0)
	s.Require().NoError(err)
	s.EqualValues(1_000_000, granted)
}

func (s *RedisStoreSuite) TestReserve_NonPositiveAmount() {
	ctx := context.Background()
	businessID := id.NewBusinessID()
	day := time.Now()

	granted, err := s.store.Reserve(ctx, businessID, day, 0, 5_000, 100_000)
	s.Require().NoError(err)
	s.EqualValues(0, granted)

	granted, err = s.store.Reserve(ctx, businessID, day, -500, 5_000, 100_000)
	s.Require().NoError(err)
	s.EqualValues(0, granted)

	// Neither call should have consumed any of the cap.
	granted, err = s.store.Reserve(ctx, businessID, day, 5_000, 5_000, 100_000)
	s.Require().NoError(err)
	s.EqualValues(5_000, granted)
}

// TestReserve_ConcurrentNeverExceedsDailyCap verifies that concurrent
// reserves against the same business serialize inside redis: the granted
// total matches the cap exactly, with no overshoot.
func (s *RedisStoreSuite) TestReserve_ConcurrentNeverExceedsDailyCap() {
	ctx := context.Background()
	businessID := id.NewBusinessID()
	day := time.Now()

	const goroutines = 50
	const amount = id.Money(1_000)
	const dailyCap = id.Money(10_000)

	var wg sync.WaitGroup
	var totalGranted atomic.Int64
	var fullGrants atomic.Int32
	var zeroGrants atomic.Int32
	var errCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			granted, err := s.store.Reserve(ctx, businessID, day, amount, dailyCap, 1_000_000)
			if err != nil {
				errCount.Add(1)
				return
			}
			totalGranted.Add(granted.Minor())
			switch granted {
			case amount:
				fullGrants.Add(1)
			case 0:
				zeroGrants.Add(1)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(0), errCount.Load(), "no reserve errors expected")
	s.Equal(dailyCap.Minor(), totalGranted.Load(), "granted total must equal the daily cap")
	s.Equal(int32(10), fullGrants.Load(), "exactly cap/amount reserves should be granted in full")
	s.Equal(int32(goroutines-10), zeroGrants.Load(), "the rest should be refused")
}

// TestReserve_ConcurrentPartialGrant drives mixed amounts at a small cap and
// checks the invariant that matters: the sum of grants equals the cap.
func (s *RedisStoreSuite) TestReserve_ConcurrentPartialGrant() {
	ctx := context.Background()
	businessID := id.NewBusinessID()
	day := time.Now()

	const goroutines = 40
	const dailyCap = id.Money(7_500)

	var wg sync.WaitGroup
	var totalGranted atomic.Int64
	var errCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			amount := id.Money(500 + 250*int64(idx%4))
			granted, err := s.store.Reserve(ctx, businessID, day, amount, dailyCap, 1_000_000)
			if err != nil {
				errCount.Add(1)
				return
			}
			totalGranted.Add(granted.Minor())
		}(i)
	}

	wg.Wait()

	s.Equal(int32(0), errCount.Load(), "no reserve errors expected")
	s.Equal(dailyCap.Minor(), totalGranted.Load(), "grants must sum to the cap exactly")
}
