package notification

import (
	"eyesup/domain"
	"sort"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Matcher finds every keyword rule whose text occurs in a message body,
// ignoring case. All rules are searched in a single pass over the text.
type Matcher struct {
	machine  *goahocorasick.Machine
	patterns []string
	byWord   map[string][]domain.KeywordRule
}

// NewMatcher compiles the given rules. Inactive and blank rules are ignored.
// When the automaton cannot be built the matcher falls back to a plain scan,
// so a returned error is informative only.
func NewMatcher(rules []domain.KeywordRule) (*Matcher, error) {
	m := &Matcher{byWord: make(map[string][]domain.KeywordRule)}
	for _, rule := range domain.ActiveRules(rules) {
		word := normalize(rule.Text)
		if _, ok := m.byWord[word]; !ok {
			m.patterns = append(m.patterns, word)
		}
		m.byWord[word] = append(m.byWord[word], rule)
	}
	if len(m.patterns) == 0 {
		return m, nil
	}
	sort.Strings(m.patterns)

	dict := make([][]rune, len(m.patterns))
	for i, word := range m.patterns {
		dict[i] = []rune(word)
	}
	machine := new(goahocorasick.Machine)
	if err := machine.Build(dict); err != nil {
		return m, err
	}
	m.machine = machine
	return m, nil
}

// Empty reports whether no active rule was compiled.
func (m *Matcher) Empty() bool {
	return len(m.patterns) == 0
}

// Match returns the matched rules in pattern order, each rule at most once.
func (m *Matcher) Match(text string) []domain.KeywordRule {
	if m.Empty() {
		return nil
	}
	content := normalize(text)
	if content == "" {
		return nil
	}
	words := m.search(content)
	sort.Strings(words)

	var matched []domain.KeywordRule
	seen := make(map[string]struct{}, len(words))
	for _, word := range words {
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		matched = append(matched, m.byWord[word]...)
	}
	return matched
}

func (m *Matcher) search(content string) (words []string) {
	if m.machine == nil {
		return m.scan(content)
	}
	defer func() {
		if r := recover(); r != nil {
			words = m.scan(content)
		}
	}()
	for _, term := range m.machine.MultiPatternSearch([]rune(content), false) {
		words = append(words, string(term.Word))
	}
	return words
}

func (m *Matcher) scan(content string) []string {
	var words []string
	for _, word := range m.patterns {
		if strings.Contains(content, word) {
			words = append(words, word)
		}
	}
	return words
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
