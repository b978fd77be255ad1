// Package notification decides whether an ingested message is spoken to
// the driver and how it is worded.
package notification

import (
	"eyesup/domain"
	"log/slog"
	"sync"
)

// Decision is the outcome of evaluating one message.
type Decision struct {
	Announce bool
	Matched  []domain.KeywordRule
}

// ShouldAnnounce is the pure form of Filter.Evaluate.
func ShouldAnnounce(message domain.Message, rules []domain.KeywordRule, settings domain.Settings) bool {
	matcher, _ := NewMatcher(rules)
	return evaluate(message, matcher, settings).Announce
}

func evaluate(message domain.Message, matcher *Matcher, settings domain.Settings) Decision {
	if message.Outgoing {
		return Decision{}
	}
	if settings.BlockGroup && message.IsGroup {
		return Decision{}
	}
	if matcher.Empty() {
		// no active rule: announce everything
		return Decision{Announce: true}
	}
	matched := matcher.Match(message.Text)
	return Decision{Announce: len(matched) > 0, Matched: matched}
}

// Filter caches the compiled matcher of the last rule set it saw.
// Rule sets are compared by content, so callers can pass a fresh snapshot
// on every call.
type Filter struct {
	mu      sync.Mutex
	log     *slog.Logger
	key     string
	matcher *Matcher
}

func NewFilter(log *slog.Logger) *Filter {
	return &Filter{log: log}
}

func (f *Filter) Evaluate(message domain.Message, rules []domain.KeywordRule, settings domain.Settings) Decision {
	return evaluate(message, f.compile(rules), settings)
}

func (f *Filter) compile(rules []domain.KeywordRule) *Matcher {
	key := fingerprint(rules)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.matcher != nil && f.key == key {
		return f.matcher
	}
	matcher, err := NewMatcher(rules)
	if err != nil {
		f.log.Warn("Keyword automaton unavailable, using plain scan", "error", err)
	}
	f.key, f.matcher = key, matcher
	return matcher
}

func fingerprint(rules []domain.KeywordRule) string {
	var b []byte
	for _, rule := range domain.ActiveRules(rules) {
		b = append(b, rule.ID.String()...)
		b = append(b, 0)
		b = append(b, rule.Text...)
		b = append(b, 0)
		b = append(b, rule.Priority...)
		b = append(b, 0)
	}
	return string(b)
}
