// Package fraud assesses the abuse risk of a completed feedback session from
// five independent signals: device fingerprint reuse, impossible travel,
// session bursts, transcript duplication, and synthetic-voice confidence.
//
// Signals are gathered in parallel with per-signal timeouts and circuit
// breakers. A failed signal degrades to zero score with zero confidence and
// the assessment proceeds; an assessment never fails because one source is
// down.
package fraud

import (
	"time"

	id "vocilia/pkg/domain"
)

// RiskLevel buckets the overall risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Bucket boundaries. Scores land in [floor, next floor).
const (
	mediumFloor   = 0.3
	highFloor     = 0.6
	criticalFloor = 0.8
)

// LevelForScore maps an overall risk score to its bucket.
func LevelForScore(score float64) RiskLevel {
	switch {
	case score >= criticalFloor:
		return RiskCritical
	case score >= highFloor:
		return RiskHigh
	case score >= mediumFloor:
		return RiskMedium
	default:
		return RiskLow
	}
}

// rewardAdjustmentFor returns the fraction subtracted from the reward for a
// bucket. Critical also blocks the session outright.
func rewardAdjustmentFor(level RiskLevel) float64 {
	switch level {
	case RiskCritical:
		return 1.0
	case RiskHigh:
		return 0.5
	case RiskMedium:
		return 0.25
	default:
		return 0
	}
}

// SignalType identifies one risk signal.
type SignalType string

const (
	SignalDevice     SignalType = "device"
	SignalGeographic SignalType = "geographic"
	SignalTemporal   SignalType = "temporal"
	SignalContent    SignalType = "content"
	SignalVoice      SignalType = "voice"
)

// SignalResult is one signal's contribution. Score and Confidence are in
// [0,1]; Degraded marks a source that was unavailable and contributed zero.
type SignalResult struct {
	Type       SignalType
	Score      float64
	Confidence float64
	Detail     string
	Degraded   bool
}

// Assessment is the immutable fraud verdict for one session.
type Assessment struct {
	SessionID        id.SessionID
	Signals          map[SignalType]SignalResult
	OverallRiskScore float64
	RiskLevel        RiskLevel
	RewardAdjustment float64
	SessionBlocked   bool
	ManualReview     bool
	DegradedSignals  []SignalType
	AssessedAt       time.Time
}
