//go:build integration

package burst_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vocilia/internal/fraud/store/burst"
	"vocilia/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *burst.RedisStore
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
	s.store = burst.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.redis.FlushAll(ctx)
	s.Require().NoError(err)
}

func (s *RedisStoreSuite) TestTouch_CountsWithinWindow() {
	ctx := context.Background()
	now := time.Now()

	for i := 1; i <= 3; i++ {
		count, err := s.store.Touch(ctx, "geo:stockholm", now, time.Hour)
		s.Require().NoError(err)
		s.Equal(i, count)
	}
}

func (s *RedisStoreSuite) TestTouch_OldEventsSlideOut() {
	ctx := context.Background()
	now := time.Now()

	count, err := s.store.Touch(ctx, "ip:203.0.113.7", now.Add(-2*time.Minute), time.Minute)
	s.Require().NoError(err)
	s.Equal(1, count)

	// The earlier event is outside the window relative to this touch.
	count, err = s.store.Touch(ctx, "ip:203.0.113.7", now, time.Minute)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *RedisStoreSuite) TestTouch_KeysIsolated() {
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 4; i++ {
		_, err := s.store.Touch(ctx, "device:fp-1", now, time.Hour)
		s.Require().NoError(err)
	}

	count, err := s.store.Touch(ctx, "device:fp-2", now, time.Hour)
	s.Require().NoError(err)
	s.Equal(1, count)
}

// TestTouch_ConcurrentSameKey verifies counting stays exact when a burst
// actually happens: every concurrent touch lands in the sorted set.
func (s *RedisStoreSuite) TestTouch_ConcurrentSameKey() {
	ctx := context.Background()
	now := time.Now()

	const goroutines = 40
	var wg sync.WaitGroup
	var errCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if _, err := s.store.Touch(ctx, "burst-race", now, time.Hour); err != nil {
				errCount.Add(1)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(0), errCount.Load(), "no touch errors expected")

	count, err := s.store.Touch(ctx, "burst-race", now, time.Hour)
	s.Require().NoError(err)
	s.Equal(goroutines+1, count)
}
