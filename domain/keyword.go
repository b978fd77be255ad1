package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Priority string

const (
	PriorityNormal    Priority = "normal"
	PriorityHigh      Priority = "priority"
	PriorityEmergency Priority = "emergency"
)

var priorityRank = map[Priority]int{
	PriorityNormal:    0,
	PriorityHigh:      1,
	PriorityEmergency: 2,
}

// ParsePriority falls back to normal for unknown values.
func ParsePriority(s string) Priority {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := priorityRank[p]; !ok {
		return PriorityNormal
	}
	return p
}

// Higher reports whether p outranks other.
func (p Priority) Higher(other Priority) bool {
	return priorityRank[p] > priorityRank[other]
}

// KeywordRule is a case-insensitive substring filter.
// Priority is display metadata and never gates an announcement.
type KeywordRule struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	Active   bool      `json:"active"`
	Priority Priority  `json:"priority"`
}

// NewKeywordRule returns an active rule, or false when text is blank.
func NewKeywordRule(text string, priority Priority) (KeywordRule, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return KeywordRule{}, false
	}
	if priority == "" {
		priority = PriorityNormal
	}
	return KeywordRule{ID: uuid.New(), Text: text, Active: true, Priority: priority}, true
}

// SplitKeywords splits a comma separated input into trimmed, non-empty tokens.
func SplitKeywords(csv string) []string {
	parts := lo.Map(strings.Split(csv, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(parts)
}

// ActiveRules keeps only the rules eligible for matching.
func ActiveRules(rules []KeywordRule) []KeywordRule {
	return lo.Filter(rules, func(r KeywordRule, _ int) bool {
		return r.Active && strings.TrimSpace(r.Text) != ""
	})
}
