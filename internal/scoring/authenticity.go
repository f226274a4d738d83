package scoring

import (
	"vocilia/internal/business"
)

// Authenticity point schedule. References to things only a real visitor
// would know (staff on shift, live promotions, flagged issues) raise the
// score; boilerplate phrasing lowers it.
const (
	authenticityBase = 20

	staffPoints   = 20.0
	staffCap      = 40.0
	deptPoints    = 12.0
	deptCap       = 24.0
	promoPoints   = 12.0
	promoCap      = 24.0
	issuePoints   = 16.0
	issueCap      = 32.0
	templateHit   = 15.0
	templateFloor = 30.0
)

func scoreAuthenticity(lowerText string, bc *business.Context, lex *Lexicon) (float64, []string) {
	score := float64(authenticityBase)
	var reasons []string

	if n := bc.MentionsStaff(lowerText); n > 0 {
		score += capped(float64(n)*staffPoints, staffCap)
		reasons = append(reasons, "names staff on shift")
	}
	if n := bc.MentionsDepartment(lowerText); n > 0 {
		score += capped(float64(n)*deptPoints, deptCap)
		reasons = append(reasons, "references a department")
	}
	if n := bc.MentionsPromotion(lowerText); n > 0 {
		score += capped(float64(n)*promoPoints, promoCap)
		reasons = append(reasons, "mentions a live promotion")
	}
	if n := bc.MentionsKnownIssue(lowerText); n > 0 {
		score += capped(float64(n)*issuePoints, issueCap)
		reasons = append(reasons, "confirms a known issue")
	}
	if n := countHits(lowerText, lex.Template); n > 0 {
		score -= capped(float64(n)*templateHit, templateFloor)
		reasons = append(reasons, "templated phrasing")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "no business-specific references")
	}
	return clamp(score), reasons
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
