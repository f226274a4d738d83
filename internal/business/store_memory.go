package business

import (
	"context"
	"sync"

	id "vocilia/pkg/domain"
	"vocilia/pkg/platform/sentinel"
)

// InMemoryContextStore keeps business context in a map. It backs development
// and tests; deployments point the cached store at Postgres instead.
type InMemoryContextStore struct {
	mu       sync.RWMutex
	contexts map[id.BusinessID]*Context
}

func NewInMemoryContextStore() *InMemoryContextStore {
	return &InMemoryContextStore{contexts: make(map[id.BusinessID]*Context)}
}

func (s *InMemoryContextStore) Get(_ context.Context, businessID id.BusinessID) (*Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if bc, ok := s.contexts[businessID]; ok {
		copied := *bc
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

// Put seeds or replaces a business context. Exposed for wiring and tests;
// the session core itself never writes here.
func (s *InMemoryContextStore) Put(_ context.Context, bc *Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *bc
	s.contexts[bc.BusinessID] = &copied
	return nil
}
