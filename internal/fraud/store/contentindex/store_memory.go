// Package contentindex keeps recent transcript shingle sets per business for
// duplicate detection.
package contentindex

import (
	"context"
	"sync"

	"vocilia/internal/fraud"
	id "vocilia/pkg/domain"
)

// DefaultCapacity bounds how many recent transcripts are compared per
// business. Duplicate farms recycle scripts within hours; a hundred recent
// sessions is plenty of lookback.
const DefaultCapacity = 100

type entry struct {
	sessionID id.SessionID
	shingles  []uint64
}

// InMemoryIndex keeps a bounded ring of recent shingle sets per business.
type InMemoryIndex struct {
	mu       sync.Mutex
	capacity int
	recent   map[id.BusinessID][]entry
}

// NewInMemoryIndex creates an index retaining up to capacity transcripts per
// business. Non-positive capacity falls back to DefaultCapacity.
func NewInMemoryIndex(capacity int) *InMemoryIndex {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &InMemoryIndex{capacity: capacity, recent: make(map[id.BusinessID][]entry)}
}

// Compare returns the highest Jaccard similarity against indexed transcripts
// of the business, excluding the session's own, then indexes the set.
// Compare-then-index is atomic, so two concurrent duplicates cannot both
// pass unseen.
func (s *InMemoryIndex) Compare(_ context.Context, businessID id.BusinessID, sessionID id.SessionID, shingles []uint64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var highest float64
	entries := s.recent[businessID]
	for _, e := range entries {
		if e.sessionID == sessionID {
			continue
		}
		if sim := fraud.Jaccard(shingles, e.shingles); sim > highest {
			highest = sim
		}
	}

	owned := make([]uint64, len(shingles))
	copy(owned, shingles)
	entries = append(entries, entry{sessionID: sessionID, shingles: owned})
	if len(entries) > s.capacity {
		entries = entries[len(entries)-s.capacity:]
	}
	s.recent[businessID] = entries

	return highest, nil
}
