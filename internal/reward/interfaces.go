package reward

import (
	"context"
	"time"

	id "vocilia/pkg/domain"
)

// UsageStore tracks how much reward a business has paid out per day and per
// month. It is the only cross-session shared state in the pipeline, so the
// reserve must be atomic: two sessions near a cap must never both pass.
type UsageStore interface {
	// Reserve admits up to amount against the remaining daily and monthly
	// headroom at the given time and records the admitted value, atomically
	// per business. It returns the admitted amount, possibly zero. A
	// non-positive cap is treated as unlimited.
	Reserve(ctx context.Context, businessID id.BusinessID, day time.Time, amount, dailyCap, monthlyCap id.Money) (id.Money, error)
}
