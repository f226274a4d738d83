package deviceusage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"vocilia/internal/fraud"
)

const deviceKeyPrefix = "fraud:device:"

// RedisStore tracks fingerprint use in a Redis sorted set per fingerprint,
// scored by use time. This is the production implementation for deployments
// where sessions spread across instances.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed device usage store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Touch records one use and returns the counts including it. The write and
// the three window counts run in one pipeline.
func (s *RedisStore) Touch(ctx context.Context, fingerprint string, at time.Time) (fraud.DeviceUsage, error) {
	key := deviceKeyPrefix + fingerprint
	score := float64(at.UnixNano())

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: score, Member: uuid.NewString()})
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(at.Add(-monthWindow).UnixNano(), 10))
	daily := pipe.ZCount(ctx, key, exclusiveMin(at.Add(-dayWindow)), "+inf")
	weekly := pipe.ZCount(ctx, key, exclusiveMin(at.Add(-weekWindow)), "+inf")
	monthly := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, monthWindow+24*time.Hour)

	if _, err := pipe.Exec(ctx); err != nil {
		return fraud.DeviceUsage{}, fmt.Errorf("device usage touch: %w", err)
	}

	return fraud.DeviceUsage{
		Daily:   int(daily.Val()),
		Weekly:  int(weekly.Val()),
		Monthly: int(monthly.Val()),
	}, nil
}

func exclusiveMin(t time.Time) string {
	return "(" + strconv.FormatInt(t.UnixNano(), 10)
}
