package tier

import (
	"context"
	"sync"

	id "vocilia/pkg/domain"
	"vocilia/pkg/platform/sentinel"
)

// InMemoryPolicyStore holds tier configs in a mutex-guarded map.
// Used in tests and single-node deployments without a lookup database.
type InMemoryPolicyStore struct {
	mu      sync.RWMutex
	configs map[id.BusinessID]*Config
}

// NewInMemoryPolicyStore creates an empty in-memory policy store.
func NewInMemoryPolicyStore() *InMemoryPolicyStore {
	return &InMemoryPolicyStore{configs: make(map[id.BusinessID]*Config)}
}

func (s *InMemoryPolicyStore) Get(_ context.Context, businessID id.BusinessID) (*Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[businessID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *cfg
	return &copied, nil
}

// Put validates and stores a config, replacing any existing one.
func (s *InMemoryPolicyStore) Put(_ context.Context, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *cfg
	s.configs[cfg.BusinessID] = &copied
	return nil
}
