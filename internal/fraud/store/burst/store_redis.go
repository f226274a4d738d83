package burst

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const burstKeyPrefix = "fraud:burst:"

// RedisStore implements the sliding-window counter on a Redis sorted set per
// key, shared across instances.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed burst store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Touch records one event and returns how many events the window now holds.
func (s *RedisStore) Touch(ctx context.Context, key string, at time.Time, window time.Duration) (int, error) {
	redisKey := burstKeyPrefix + key

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(at.UnixNano()), Member: uuid.NewString()})
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(at.Add(-window).UnixNano(), 10))
	count := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("burst touch: %w", err)
	}
	return int(count.Val()), nil
}
