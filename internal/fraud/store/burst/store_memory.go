// Package burst counts events per key inside a rolling window, for temporal
// clustering detection.
package burst

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore implements a sliding-window event counter. The window slides
// per call, so bunching sessions around a window boundary gains nothing.
type InMemoryStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time
}

// NewInMemoryStore creates an empty in-memory burst store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{windows: make(map[string][]time.Time)}
}

// Touch records one event and returns how many events the window now holds.
func (s *InMemoryStore) Touch(_ context.Context, key string, at time.Time, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := at.Add(-window)
	kept := s.windows[key][:0]
	for _, t := range s.windows[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	kept = append(kept, at)
	s.windows[key] = kept

	return len(kept), nil
}

// Reset clears the window for a key.
func (s *InMemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
	return nil
}
