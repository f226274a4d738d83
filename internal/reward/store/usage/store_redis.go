package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "vocilia/pkg/domain"
)

const (
	dailyKeyPrefix   = "reward:usage:day:"
	monthlyKeyPrefix = "reward:usage:month:"

	// Counters outlive their period slightly so a reserve near midnight
	// still sees the closing day.
	dailyTTL   = 48 * time.Hour
	monthlyTTL = 32 * 24 * time.Hour
)

// reserveScript admits min(amount, remaining daily, remaining monthly) and
// increments both counters server-side, so concurrent reserves against the
// same business serialize inside redis.
var reserveScript = redis.NewScript(`
local daily = tonumber(redis.call('GET', KEYS[1]) or '0')
local monthly = tonumber(redis.call('GET', KEYS[2]) or '0')
local amount = tonumber(ARGV[1])
local daily_cap = tonumber(ARGV[2])
local monthly_cap = tonumber(ARGV[3])

local admit = amount
if daily_cap > 0 and daily_cap - daily < admit then
	admit = daily_cap - daily
end
if monthly_cap > 0 and monthly_cap - monthly < admit then
	admit = monthly_cap - monthly
end
if admit <= 0 then
	return 0
end

redis.call('INCRBY', KEYS[1], admit)
redis.call('EXPIRE', KEYS[1], ARGV[4])
redis.call('INCRBY', KEYS[2], admit)
redis.call('EXPIRE', KEYS[2], ARGV[5])
return admit
`)

// RedisStore implements the usage reserve on redis for multi-instance
// deployments.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a redis-backed usage store.
func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{client: client}, nil
}

// Reserve implements reward.UsageStore.
func (s *RedisStore) Reserve(ctx context.Context, businessID id.BusinessID, day time.Time, amount, dailyCap, monthlyCap id.Money) (id.Money, error) {
	if amount <= 0 {
		return 0, nil
	}

	utc := day.UTC()
	keys := []string{
		dailyKeyPrefix + businessID.String() + ":" + utc.Format(dayLayout),
		monthlyKeyPrefix + businessID.String() + ":" + utc.Format(monthLayout),
	}

	admitted, err := reserveScript.Run(ctx, s.client, keys,
		amount.Minor(),
		dailyCap.Minor(),
		monthlyCap.Minor(),
		int64(dailyTTL.Seconds()),
		int64(monthlyTTL.Seconds()),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("reserving reward usage: %w", err)
	}
	return id.Money(admitted), nil
}
