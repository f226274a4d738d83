package business

import (
	"strings"
	"time"

	id "vocilia/pkg/domain"
)

// Type buckets businesses for scoring calibration. The scorer treats feedback
// about a grocery store differently from feedback about a café.
type Type string

const (
	TypeCafe       Type = "cafe"
	TypeGrocery    Type = "grocery"
	TypeRetail     Type = "retail"
	TypeRestaurant Type = "restaurant"
)

// IsValid checks if the business type is one of the supported enum values.
func (t Type) IsValid() bool {
	switch t {
	case TypeCafe, TypeGrocery, TypeRetail, TypeRestaurant:
		return true
	}
	return false
}

// Context is the read-only business knowledge used to judge feedback
// authenticity: staff on shift, live promotions, and issues the business
// already knows about. Loaded per session; mutated only by the external
// business management surface.
type Context struct {
	BusinessID   id.BusinessID
	Name         string
	BusinessType Type
	Language     string // BCP 47 primary subtag, e.g. "sv", "en"
	StaffNames   []string
	Departments  []string
	Promotions   []string
	KnownIssues  []string
	UpdatedAt    time.Time
}

// MentionsStaff reports whether the text names any staff member. Matching is
// case-insensitive whole-word so "Anna" doesn't match "Hosanna".
func (c *Context) MentionsStaff(text string) int {
	return countMentions(text, c.StaffNames)
}

// MentionsDepartment counts department references in the text.
func (c *Context) MentionsDepartment(text string) int {
	return countMentions(text, c.Departments)
}

// MentionsPromotion counts live promotion references in the text.
func (c *Context) MentionsPromotion(text string) int {
	return countMentions(text, c.Promotions)
}

// MentionsKnownIssue counts references to issues the business has flagged.
func (c *Context) MentionsKnownIssue(text string) int {
	return countMentions(text, c.KnownIssues)
}

func countMentions(text string, phrases []string) int {
	if text == "" || len(phrases) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	count := 0
	for _, phrase := range phrases {
		p := strings.ToLower(strings.TrimSpace(phrase))
		if p == "" {
			continue
		}
		if containsWord(lower, p) {
			count++
		}
	}
	return count
}

// containsWord reports whether phrase occurs in text on word boundaries.
func containsWord(text, phrase string) bool {
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
