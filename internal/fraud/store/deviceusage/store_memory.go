// Package deviceusage counts sessions per device fingerprint over rolling
// daily, weekly, and monthly windows.
package deviceusage

import (
	"context"
	"sync"
	"time"

	"vocilia/internal/fraud"
)

// Rolling window spans. Calendar boundaries would let a device bunch its
// sessions around midnight; rolling windows do not.
const (
	dayWindow   = 24 * time.Hour
	weekWindow  = 7 * 24 * time.Hour
	monthWindow = 30 * 24 * time.Hour
)

// InMemoryStore tracks fingerprint use in memory. Single-node only; use the
// Redis store when sessions spread across instances.
type InMemoryStore struct {
	mu   sync.Mutex
	uses map[string][]time.Time
}

// NewInMemoryStore creates an empty in-memory device usage store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{uses: make(map[string][]time.Time)}
}

// Touch records one use and returns the counts including it.
func (s *InMemoryStore) Touch(_ context.Context, fingerprint string, at time.Time) (fraud.DeviceUsage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.uses[fingerprint][:0]
	for _, t := range s.uses[fingerprint] {
		if at.Sub(t) < monthWindow {
			kept = append(kept, t)
		}
	}
	kept = append(kept, at)
	s.uses[fingerprint] = kept

	var usage fraud.DeviceUsage
	for _, t := range kept {
		elapsed := at.Sub(t)
		if elapsed < dayWindow {
			usage.Daily++
		}
		if elapsed < weekWindow {
			usage.Weekly++
		}
		usage.Monthly++
	}
	return usage, nil
}
