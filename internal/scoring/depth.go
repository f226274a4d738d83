package scoring

// Depth point schedule. Causal explanations, comparisons with other visits,
// described consequences, and reflective phrasing all signal the customer
// thought about the experience rather than labeling it.
const (
	depthBase = 10.0

	causalPoints = 18.0
	causalCap    = 36.0

	comparisonPoints = 14.0
	comparisonCap    = 28.0

	consequencePoints = 14.0
	consequenceCap    = 28.0

	reflectivePoints = 10.0
	reflectiveCap    = 20.0
)

func scoreDepth(lowerText string, lex *Lexicon) (float64, []string) {
	score := depthBase
	var reasons []string

	if n := countHits(lowerText, lex.Causal); n > 0 {
		score += capped(float64(n)*causalPoints, causalCap)
		reasons = append(reasons, "explains why")
	}
	if n := countHits(lowerText, lex.Comparison); n > 0 {
		score += capped(float64(n)*comparisonPoints, comparisonCap)
		reasons = append(reasons, "compares with other visits")
	}
	if n := countHits(lowerText, lex.Consequence); n > 0 {
		score += capped(float64(n)*consequencePoints, consequenceCap)
		reasons = append(reasons, "describes consequences")
	}
	if n := countHits(lowerText, lex.Reflective); n > 0 {
		score += capped(float64(n)*reflectivePoints, reflectiveCap)
		reasons = append(reasons, "reflective phrasing")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "flat statements only")
	}
	return clamp(score), reasons
}
