// Package geohistory keeps the last known location per customer for
// impossible-travel detection.
package geohistory

import (
	"context"
	"sync"
	"time"

	"vocilia/internal/fraud"
	id "vocilia/pkg/domain"
)

// InMemoryStore keeps only the most recent sighting per customer; the travel
// check compares consecutive sightings, so history depth one is enough.
type InMemoryStore struct {
	mu   sync.Mutex
	last map[id.CustomerHash]fraud.LocationObservation
}

// NewInMemoryStore creates an empty in-memory location store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{last: make(map[id.CustomerHash]fraud.LocationObservation)}
}

// Observe records a sighting and returns the previous one, nil on first
// sight. Swap and read are atomic per customer.
func (s *InMemoryStore) Observe(_ context.Context, customer id.CustomerHash, loc fraud.Location, at time.Time) (*fraud.LocationObservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *fraud.LocationObservation
	if obs, ok := s.last[customer]; ok {
		copied := obs
		prev = &copied
	}
	s.last[customer] = fraud.LocationObservation{Location: loc, At: at}
	return prev, nil
}
