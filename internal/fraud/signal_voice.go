package fraud

import (
	"context"
	"fmt"

	"vocilia/pkg/platform/sentinel"
)

// VoiceSignal passes through the synthetic-voice confidence supplied by the
// voice front end. The platform does not inspect audio itself; it trusts the
// upstream detector and treats a missing value as an unavailable source.
type VoiceSignal struct{}

// NewVoiceSignal creates the voice signal source.
func NewVoiceSignal() *VoiceSignal {
	return &VoiceSignal{}
}

func (s *VoiceSignal) Type() SignalType { return SignalVoice }

func (s *VoiceSignal) Evaluate(_ context.Context, in Input) (SignalResult, error) {
	if in.VoiceAuthenticity == nil {
		return SignalResult{}, sentinel.ErrUnavailable
	}

	score := *in.VoiceAuthenticity
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return SignalResult{
		Type:       SignalVoice,
		Score:      score,
		Confidence: 1,
		Detail:     fmt.Sprintf("synthetic voice confidence %.2f", score),
	}, nil
}
