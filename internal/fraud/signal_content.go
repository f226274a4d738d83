package fraud

import (
	"context"
	"fmt"
)

// DefaultDuplicateThreshold is the Jaccard similarity at which a transcript
// counts as a re-read of a recent one.
const DefaultDuplicateThreshold = 0.8

const minComparableWords = 5

// ContentSignal scores transcript similarity against recent sessions for the
// same business. Professional feedback farms reuse scripts; honest customers
// do not produce near-identical three-sentence stories.
type ContentSignal struct {
	index     TranscriptIndex
	threshold float64
}

// NewContentSignal creates the content similarity signal source.
func NewContentSignal(index TranscriptIndex, threshold float64) (*ContentSignal, error) {
	if index == nil {
		return nil, fmt.Errorf("transcript index is required")
	}
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultDuplicateThreshold
	}
	return &ContentSignal{index: index, threshold: threshold}, nil
}

func (s *ContentSignal) Type() SignalType { return SignalContent }

func (s *ContentSignal) Evaluate(ctx context.Context, in Input) (SignalResult, error) {
	if in.Transcript == nil {
		return SignalResult{Type: SignalContent, Confidence: 0.3, Detail: "no transcript"}, nil
	}

	text := in.Transcript.CustomerText()
	if len(shingleTokens(text)) < minComparableWords {
		return SignalResult{Type: SignalContent, Confidence: 0.5, Detail: "transcript too short to compare"}, nil
	}

	similarity, err := s.index.Compare(ctx, in.BusinessID, in.SessionID, Shingles(text))
	if err != nil {
		return SignalResult{}, fmt.Errorf("transcript similarity: %w", err)
	}

	if similarity >= s.threshold {
		return SignalResult{
			Type:       SignalContent,
			Score:      similarity,
			Confidence: 1,
			Detail:     fmt.Sprintf("duplicate of a recent transcript (similarity %.2f)", similarity),
		}, nil
	}

	return SignalResult{
		Type:       SignalContent,
		Score:      similarity / 2,
		Confidence: 1,
		Detail:     fmt.Sprintf("closest recent similarity %.2f", similarity),
	}, nil
}
