package scoring

import "strings"

// Concreteness caps per feature class. The component is a capped weighted
// sum: specific details up to 40, actionable suggestions up to 25,
// measurable observations up to 25, utterance length up to 20, minus a
// vagueness penalty of up to 20, clamped to [0,100].
const (
	detailPoints = 10.0
	detailCap    = 40.0

	suggestionPoints = 10.0
	suggestionCap    = 25.0

	measurablePoints = 10.0
	measurableCap    = 25.0

	lengthCap       = 20.0
	wordsPerLenPt   = 2.0
	vaguePoints     = 8.0
	vaguePenaltyCap = 20.0
)

func scoreConcreteness(lowerText string, purchaseItems []string, lex *Lexicon) (float64, []string) {
	var score float64
	var reasons []string

	details := countNumericTokens(lowerText)
	details += countHits(lowerText, lex.TimeWords)
	details += countHits(lowerText, lex.NumberWords)
	details += countMatchedItems(lowerText, purchaseItems)
	if details > 0 {
		score += capped(float64(details)*detailPoints, detailCap)
		reasons = append(reasons, "specific details")
	}

	if n := countHits(lowerText, lex.Suggestion); n > 0 {
		score += capped(float64(n)*suggestionPoints, suggestionCap)
		reasons = append(reasons, "actionable suggestion")
	}

	if n := countHits(lowerText, lex.Measurable); n > 0 {
		score += capped(float64(n)*measurablePoints, measurableCap)
		reasons = append(reasons, "measurable observation")
	}

	score += capped(float64(wordCount(lowerText))/wordsPerLenPt, lengthCap)

	if n := countHits(lowerText, lex.Vague); n > 0 {
		score -= capped(float64(n)*vaguePoints, vaguePenaltyCap)
		reasons = append(reasons, "vague filler")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "no concrete details")
	}
	return clamp(score), reasons
}

// countMatchedItems counts purchased items the customer actually names.
func countMatchedItems(lowerText string, purchaseItems []string) int {
	count := 0
	for _, item := range purchaseItems {
		p := strings.ToLower(strings.TrimSpace(item))
		if p == "" {
			continue
		}
		if containsPhrase(lowerText, p) {
			count++
		}
	}
	return count
}
