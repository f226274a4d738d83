package business

import (
	"context"
	"sync"
	"time"

	id "vocilia/pkg/domain"
	"vocilia/pkg/requestcontext"
)

// CachedContextStore wraps an origin store with a short-TTL read cache.
// Lookups are read-mostly and happen inside the completion pipeline, so the
// cache also serves the last known value when the origin errors — a stale
// context beats a failed session.
type CachedContextStore struct {
	origin ContextStore
	ttl    time.Duration

	mu      sync.RWMutex
	entries map[id.BusinessID]cachedContext
}

type cachedContext struct {
	value     *Context
	fetchedAt time.Time
}

// NewCachedContextStore wraps origin with a TTL cache.
func NewCachedContextStore(origin ContextStore, ttl time.Duration) *CachedContextStore {
	return &CachedContextStore{
		origin:  origin,
		ttl:     ttl,
		entries: make(map[id.BusinessID]cachedContext),
	}
}

func (s *CachedContextStore) Get(ctx context.Context, businessID id.BusinessID) (*Context, error) {
	now := requestcontext.Now(ctx)

	s.mu.RLock()
	entry, ok := s.entries[businessID]
	s.mu.RUnlock()

	if ok && now.Sub(entry.fetchedAt) < s.ttl {
		return entry.value, nil
	}

	fresh, err := s.origin.Get(ctx, businessID)
	if err != nil {
		// Serve stale on origin failure; miss propagates the error.
		if ok {
			return entry.value, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.entries[businessID] = cachedContext{value: fresh, fetchedAt: now}
	s.mu.Unlock()

	return fresh, nil
}
