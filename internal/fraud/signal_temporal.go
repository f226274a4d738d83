package fraud

import (
	"context"
	"fmt"
	"math"
	"time"

	"vocilia/pkg/requestcontext"
)

// Temporal burst defaults: more than three sessions inside ten minutes from
// the same customer starts looking scripted.
const (
	DefaultBurstLimit  = 3
	DefaultBurstWindow = 10 * time.Minute
)

// TemporalSignal scores session bursts inside a rolling window.
type TemporalSignal struct {
	bursts BurstStore
	limit  int
	window time.Duration
}

// NewTemporalSignal creates the temporal signal source.
func NewTemporalSignal(bursts BurstStore, limit int, window time.Duration) (*TemporalSignal, error) {
	if bursts == nil {
		return nil, fmt.Errorf("burst store is required")
	}
	if limit <= 0 {
		limit = DefaultBurstLimit
	}
	if window <= 0 {
		window = DefaultBurstWindow
	}
	return &TemporalSignal{bursts: bursts, limit: limit, window: window}, nil
}

func (s *TemporalSignal) Type() SignalType { return SignalTemporal }

func (s *TemporalSignal) Evaluate(ctx context.Context, in Input) (SignalResult, error) {
	if in.CustomerHash.IsZero() {
		return SignalResult{Type: SignalTemporal, Confidence: 0.3, Detail: "no customer identity"}, nil
	}

	count, err := s.bursts.Touch(ctx, "customer:"+string(in.CustomerHash), requestcontext.Now(ctx), s.window)
	if err != nil {
		return SignalResult{}, fmt.Errorf("burst count: %w", err)
	}

	if count <= s.limit {
		return SignalResult{
			Type:       SignalTemporal,
			Confidence: 1,
			Detail:     fmt.Sprintf("%d sessions in %s", count, s.window),
		}, nil
	}

	// Exceeding the limit by the limit again saturates the score.
	score := math.Min(1, float64(count-s.limit)/float64(s.limit))
	return SignalResult{
		Type:       SignalTemporal,
		Score:      score,
		Confidence: 1,
		Detail:     fmt.Sprintf("%d sessions in %s (burst limit %d)", count, s.window, s.limit),
	}, nil
}
