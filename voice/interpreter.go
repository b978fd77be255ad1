// Package voice turns a finished speech transcript into a relay command.
package voice

import (
	"regexp"
	"strings"
)

type Action string

const (
	ActionReadBack         Action = "read_back"
	ActionShowUpdates      Action = "show_updates"
	ActionShowSuggestions  Action = "show_suggestions"
	ActionShowConversation Action = "show_conversation"
	ActionPauseAutoRead    Action = "pause_auto_read"
	ActionResumeAutoRead   Action = "resume_auto_read"
	ActionReply            Action = "reply"
)

// Command is the interpreted utterance. Text is only set for ActionReply.
type Command struct {
	Action Action `json:"action"`
	Text   string `json:"text,omitempty"`
}

var replyPrefix = regexp.MustCompile(`(?i)^reply\s*(to\b)?\s*`)

type rule struct {
	action Action
	match  func(lower string) bool
}

// Rules are checked in order, the first one that matches wins.
var rules = []rule{
	{ActionReadBack, func(s string) bool {
		return has(s, "read") && hasAny(s, "message", "messages", "updates", "conversation")
	}},
	{ActionShowUpdates, func(s string) bool { return has(s, "show") && has(s, "updates") }},
	{ActionShowSuggestions, func(s string) bool { return has(s, "show") && has(s, "suggest") }},
	{ActionShowConversation, func(s string) bool {
		return has(s, "show") && hasAny(s, "conversation", "convo", "chat")
	}},
	{ActionPauseAutoRead, func(s string) bool { return has(s, "pause") && has(s, "read") }},
	{ActionResumeAutoRead, func(s string) bool {
		return has(s, "resume") || (has(s, "auto") && has(s, "read"))
	}},
}

// Interpret classifies an utterance. Anything that is not a command is a reply.
func Interpret(utterance string) Command {
	trimmed := strings.TrimSpace(utterance)
	lower := strings.ToLower(trimmed)
	for _, r := range rules {
		if r.match(lower) {
			return Command{Action: r.action}
		}
	}
	if strings.HasPrefix(lower, "reply") {
		return Command{Action: ActionReply, Text: strings.TrimSpace(replyPrefix.ReplaceAllString(trimmed, ""))}
	}
	return Command{Action: ActionReply, Text: trimmed}
}

func has(s, sub string) bool {
	return strings.Contains(s, sub)
}

func hasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
