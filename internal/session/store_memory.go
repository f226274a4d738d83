package session

import (
	"context"
	"fmt"
	"sync"

	id "vocilia/pkg/domain"
	dErrors "vocilia/pkg/domain-errors"
	"vocilia/pkg/platform/sentinel"
	"vocilia/pkg/requestcontext"
)

// InMemoryStore is the concurrent session arena: a map of id to record under
// one mutex. Records never hold pointers into each other, and callers only
// receive snapshots, so the lock is held for copies and swaps only.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]*Session
}

// NewInMemoryStore creates an empty session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[id.SessionID]*Session),
	}
}

// Create registers a new session record.
// Errors: ErrConflict when the id already exists.
func (s *InMemoryStore) Create(_ context.Context, sess *Session) error {
	if sess == nil || sess.ID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "session with a non-nil id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.ID]; exists {
		return fmt.Errorf("session %s: %w", sess.ID, sentinel.ErrConflict)
	}

	rec := snapshot(sess)
	if rec.Generation == 0 {
		rec.Generation = 1
	}
	if rec.LastActivityAt.IsZero() {
		rec.LastActivityAt = rec.StartedAt
	}
	s.sessions[sess.ID] = rec
	return nil
}

// Get returns a snapshot of the session.
// Errors: ErrNotFound when the id is unknown.
func (s *InMemoryStore) Get(_ context.Context, sessionID id.SessionID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, sentinel.ErrNotFound)
	}
	return snapshot(rec), nil
}

// Update runs mutate against the live record under the store lock, bumps the
// generation, and stamps LastActivityAt. A mutate error leaves the record
// untouched apart from mutations it already performed; keep mutate funcs
// all-or-nothing.
func (s *InMemoryStore) Update(ctx context.Context, sessionID id.SessionID, mutate func(*Session) error) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, sentinel.ErrNotFound)
	}
	if err := mutate(rec); err != nil {
		return nil, err
	}
	rec.Generation++
	rec.LastActivityAt = requestcontext.Now(ctx)
	return snapshot(rec), nil
}

// Transition performs the compare-and-swap from → to.
// Errors: ErrNotFound on an unknown id, ErrInvalidState when the current
// state differs from from or the edge is not in the lifecycle graph.
func (s *InMemoryStore) Transition(_ context.Context, sessionID id.SessionID, from, to State) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionLocked(sessionID, from, to)
}

// TransitionIfGeneration performs the compare-and-swap only when the record
// generation still matches gen.
// Errors: ErrExpired when the generation moved on, otherwise as Transition.
func (s *InMemoryStore) TransitionIfGeneration(_ context.Context, sessionID id.SessionID, gen uint64, from, to State) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, sentinel.ErrNotFound)
	}
	if rec.Generation != gen {
		return nil, fmt.Errorf("session %s generation %d superseded by %d: %w",
			sessionID, gen, rec.Generation, sentinel.ErrExpired)
	}
	return s.transitionLocked(sessionID, from, to)
}

func (s *InMemoryStore) transitionLocked(sessionID id.SessionID, from, to State) (*Session, error) {
	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, sentinel.ErrNotFound)
	}
	if rec.State != from {
		return nil, fmt.Errorf("session %s is %s, expected %s: %w",
			sessionID, rec.State, from, sentinel.ErrInvalidState)
	}
	if !CanTransition(from, to) {
		return nil, fmt.Errorf("no transition %s -> %s: %w", from, to, sentinel.ErrInvalidState)
	}

	rec.State = to
	rec.Generation++
	return snapshot(rec), nil
}

// snapshot copies a record so callers never share the live struct. Completion
// outputs are immutable once set and are shared by pointer.
func snapshot(rec *Session) *Session {
	out := *rec
	if rec.Transcript != nil {
		out.Transcript = rec.Transcript.Clone()
	}
	if rec.PurchaseItems != nil {
		out.PurchaseItems = append([]string(nil), rec.PurchaseItems...)
	}
	return &out
}
