package scoring

import "strings"

// countHits counts how many phrases from the list occur in the text, one hit
// per phrase. Matching is case-insensitive on word boundaries; multi-byte
// letters (åäö) count as word bytes so boundaries hold for Swedish.
func countHits(lowerText string, phrases []string) int {
	if lowerText == "" {
		return 0
	}
	hits := 0
	for _, phrase := range phrases {
		if containsPhrase(lowerText, phrase) {
			hits++
		}
	}
	return hits
}

func containsPhrase(text, phrase string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], phrase)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(phrase)
		beforeOK := start == 0 || !isWordByte(text[start-1])
		afterOK := end == len(text) || !isWordByte(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b >= 0x80
}

// countNumericTokens counts tokens containing a digit: clock times ("14:30"),
// amounts ("250"), quantities ("3x"). Each token counts once.
func countNumericTokens(lowerText string) int {
	count := 0
	inToken := false
	hasDigit := false
	for i := 0; i < len(lowerText); i++ {
		b := lowerText[i]
		if isWordByte(b) || b == ':' || b == '.' || b == ',' {
			if !inToken {
				inToken = true
				hasDigit = false
			}
			if b >= '0' && b <= '9' {
				hasDigit = true
			}
			continue
		}
		if inToken && hasDigit {
			count++
		}
		inToken = false
	}
	if inToken && hasDigit {
		count++
	}
	return count
}

// wordCount counts whitespace-separated words.
func wordCount(text string) int {
	return len(strings.Fields(text))
}
