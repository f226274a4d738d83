// Package transcript accumulates per-session conversation turns into a
// bounded sliding window.
//
// The window keeps the most recent turns verbatim and drops the oldest once
// the cap is reached; a cumulative counter survives eviction so metrics and
// scoring see the true conversation length. An Aggregator is owned by its
// session's single writer and is not safe for concurrent use on its own.
package transcript

import (
	"strings"
	"time"

	dErrors "vocilia/pkg/domain-errors"
)

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerCustomer Speaker = "customer"
	SpeakerSystem   Speaker = "system"
)

// IsValid reports whether the speaker is a known value.
func (s Speaker) IsValid() bool {
	return s == SpeakerCustomer || s == SpeakerSystem
}

// Turn is one utterance in a session. Confidence is the transcription
// service's word-level confidence for the utterance, in [0,1]. Turns are
// immutable once appended.
type Turn struct {
	Speaker    Speaker
	Text       string
	Confidence float64
	Timestamp  time.Time
}

// Validate rejects turns the aggregator must never accept.
func (t Turn) Validate() error {
	if !t.Speaker.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown speaker")
	}
	if strings.TrimSpace(t.Text) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "turn text is empty")
	}
	if t.Confidence < 0 || t.Confidence > 1 {
		return dErrors.New(dErrors.CodeInvalidInput, "confidence outside [0,1]")
	}
	return nil
}

// Aggregator is a bounded sliding window over a session's turns.
type Aggregator struct {
	maxTurns int
	turns    []Turn
	total    int
}

// DefaultMaxTurns bounds the window when no explicit cap is configured.
const DefaultMaxTurns = 50

// NewAggregator creates an aggregator retaining at most maxTurns turns.
// Non-positive caps fall back to DefaultMaxTurns.
func NewAggregator(maxTurns int) *Aggregator {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Aggregator{maxTurns: maxTurns}
}

// Append validates and records a turn, evicting the oldest when the window
// is full.
func (a *Aggregator) Append(turn Turn) error {
	if err := turn.Validate(); err != nil {
		return err
	}
	if len(a.turns) == a.maxTurns {
		copy(a.turns, a.turns[1:])
		a.turns = a.turns[:len(a.turns)-1]
	}
	a.turns = append(a.turns, turn)
	a.total++
	return nil
}

// Turns returns a copy of the current window in append order.
func (a *Aggregator) Turns() []Turn {
	out := make([]Turn, len(a.turns))
	copy(out, a.turns)
	return out
}

// WindowSize is the number of turns currently retained.
func (a *Aggregator) WindowSize() int {
	return len(a.turns)
}

// TotalTurns is the cumulative number of turns ever appended, including
// evicted ones.
func (a *Aggregator) TotalTurns() int {
	return a.total
}

// CustomerText joins the retained customer turns into a single scoring
// input, separated by spaces.
func (a *Aggregator) CustomerText() string {
	var sb strings.Builder
	for _, turn := range a.turns {
		if turn.Speaker != SpeakerCustomer {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(turn.Text)
	}
	return sb.String()
}

// AverageConfidence is the mean transcription confidence across retained
// customer turns, or zero when there are none.
func (a *Aggregator) AverageConfidence() float64 {
	var sum float64
	var n int
	for _, turn := range a.turns {
		if turn.Speaker != SpeakerCustomer {
			continue
		}
		sum += turn.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Clone returns an independent deep copy. The completion pipeline snapshots
// the aggregator before scoring so late mutations cannot race the scorer.
func (a *Aggregator) Clone() *Aggregator {
	clone := &Aggregator{maxTurns: a.maxTurns, total: a.total}
	clone.turns = make([]Turn, len(a.turns))
	copy(clone.turns, a.turns)
	return clone
}
