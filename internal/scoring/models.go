// Package scoring computes feedback quality scores from a completed session
// transcript and the business context it references.
//
// The engine is a pure function of its inputs: the same transcript, context,
// and calibration always produce the same QualityScore. All heuristics run on
// language-specific lexicons; component weights and caps follow the platform
// scoring policy.
package scoring

// Component weights for the total score.
const (
	weightAuthenticity = 0.4
	weightConcreteness = 0.3
	weightDepth        = 0.3
)

// QualityScore is the immutable result of scoring one completed session.
// All components are in [0,100].
type QualityScore struct {
	Authenticity float64
	Concreteness float64
	Depth        float64
	Total        float64

	// Reasoning explains the score in operator-readable terms.
	Reasoning string

	// CalibrationVersion identifies the calibration applied to Total,
	// empty when the raw combination was used.
	CalibrationVersion string
}

// combine computes the weighted total from the three components.
func combine(authenticity, concreteness, depth float64) float64 {
	return clamp(weightAuthenticity*authenticity + weightConcreteness*concreteness + weightDepth*depth)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
