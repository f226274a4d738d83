package tier

import (
	"context"

	id "vocilia/pkg/domain"
)

// PolicyStore looks up the effective tier config for a business.
// Implementations return sentinel.ErrNotFound when no policy exists.
type PolicyStore interface {
	Get(ctx context.Context, businessID id.BusinessID) (*Config, error)
}
