// Package usage tracks reward payouts per business against daily and monthly
// caps. Reserve is the one cross-session critical section in the platform.
package usage

import (
	"context"
	"sync"
	"time"

	id "vocilia/pkg/domain"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// InMemoryStore keeps usage counters per business and period under one lock.
// The reserve is a read-compare-increment critical section, so two sessions
// racing a cap boundary serialize here.
type InMemoryStore struct {
	mu      sync.Mutex
	daily   map[string]id.Money
	monthly map[string]id.Money
}

// NewInMemoryStore creates an empty in-memory usage store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		daily:   make(map[string]id.Money),
		monthly: make(map[string]id.Money),
	}
}

// Reserve implements reward.UsageStore.
func (s *InMemoryStore) Reserve(_ context.Context, businessID id.BusinessID, day time.Time, amount, dailyCap, monthlyCap id.Money) (id.Money, error) {
	if amount <= 0 {
		return 0, nil
	}

	dayKey := periodKey(businessID, day, dayLayout)
	monthKey := periodKey(businessID, day, monthLayout)

	s.mu.Lock()
	defer s.mu.Unlock()

	admit := amount
	if dailyCap > 0 {
		if rem := dailyCap - s.daily[dayKey]; rem < admit {
			admit = rem
		}
	}
	if monthlyCap > 0 {
		if rem := monthlyCap - s.monthly[monthKey]; rem < admit {
			admit = rem
		}
	}
	if admit <= 0 {
		return 0, nil
	}

	s.daily[dayKey] += admit
	s.monthly[monthKey] += admit
	return admit, nil
}

// Used returns the recorded daily and monthly usage for diagnostics.
func (s *InMemoryStore) Used(businessID id.BusinessID, day time.Time) (daily, monthly id.Money) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.daily[periodKey(businessID, day, dayLayout)],
		s.monthly[periodKey(businessID, day, monthLayout)]
}

func periodKey(businessID id.BusinessID, day time.Time, layout string) string {
	return businessID.String() + ":" + day.UTC().Format(layout)
}
