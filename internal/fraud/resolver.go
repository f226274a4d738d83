package fraud

import (
	"context"
	"strings"
	"sync"
)

// StaticLocationResolver resolves client addresses from a seeded table.
// Production deployments sit behind a geo-IP provider; this resolver serves
// single-region deployments and tests. Lookup tries the exact address first,
// then progressively shorter dotted prefixes so NAT pools resolve to their
// common location.
type StaticLocationResolver struct {
	mu   sync.RWMutex
	byIP map[string]Location
}

// NewStaticLocationResolver creates an empty resolver.
func NewStaticLocationResolver() *StaticLocationResolver {
	return &StaticLocationResolver{byIP: make(map[string]Location)}
}

// Put seeds a location for an address or dotted prefix ("81.2.69").
func (r *StaticLocationResolver) Put(ip string, loc Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byIP[ip] = loc
}

func (r *StaticLocationResolver) Resolve(_ context.Context, ip string) (Location, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for candidate := ip; candidate != ""; {
		if loc, ok := r.byIP[candidate]; ok {
			return loc, true, nil
		}
		i := strings.LastIndexByte(candidate, '.')
		if i < 0 {
			break
		}
		candidate = candidate[:i]
	}
	return Location{}, false, nil
}
