package tier

import (
	"context"
	"sync"
	"time"

	id "vocilia/pkg/domain"
	"vocilia/pkg/requestcontext"
)

// CachedPolicyStore wraps an origin store with a short-TTL read cache. Tier
// policy changes rarely and every completion reads it, so the cache also
// serves the last known value when the origin errors.
type CachedPolicyStore struct {
	origin PolicyStore
	ttl    time.Duration

	mu      sync.RWMutex
	entries map[id.BusinessID]cachedConfig
}

type cachedConfig struct {
	value     *Config
	fetchedAt time.Time
}

// NewCachedPolicyStore wraps origin with a TTL cache.
func NewCachedPolicyStore(origin PolicyStore, ttl time.Duration) *CachedPolicyStore {
	return &CachedPolicyStore{
		origin:  origin,
		ttl:     ttl,
		entries: make(map[id.BusinessID]cachedConfig),
	}
}

func (s *CachedPolicyStore) Get(ctx context.Context, businessID id.BusinessID) (*Config, error) {
	now := requestcontext.Now(ctx)

	s.mu.RLock()
	entry, ok := s.entries[businessID]
	s.mu.RUnlock()

	if ok && now.Sub(entry.fetchedAt) < s.ttl {
		return entry.value, nil
	}

	fresh, err := s.origin.Get(ctx, businessID)
	if err != nil {
		if ok {
			return entry.value, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.entries[businessID] = cachedConfig{value: fresh, fetchedAt: now}
	s.mu.Unlock()

	return fresh, nil
}
