package business

import (
	"context"

	id "vocilia/pkg/domain"
)

// ContextStore is the read-only lookup for business context. Implementations
// must be safe for concurrent use; the session pipeline calls Get on every
// completion.
type ContextStore interface {
	Get(ctx context.Context, businessID id.BusinessID) (*Context, error)
}
