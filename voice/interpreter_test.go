package voice

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Interpret(t *testing.T) {
	testCases := []struct {
		name      string
		utterance string
		expected  Command
	}{
		{"reply prefix is stripped", "reply I'm on my way", Command{Action: ActionReply, Text: "I'm on my way"}},
		{"reply to prefix is stripped", "Reply to Mom be there soon", Command{Action: ActionReply, Text: "Mom be there soon"}},
		{"read back", "read my messages", Command{Action: ActionReadBack}},
		{"read conversation", "Read the conversation", Command{Action: ActionReadBack}},
		{"show updates", "show updates", Command{Action: ActionShowUpdates}},
		{"show suggestions", "show me suggestions", Command{Action: ActionShowSuggestions}},
		{"show convo", "show the convo", Command{Action: ActionShowConversation}},
		{"pause", "pause reading", Command{Action: ActionPauseAutoRead}},
		{"resume", "resume", Command{Action: ActionResumeAutoRead}},
		{"auto read", "turn on auto read", Command{Action: ActionResumeAutoRead}},
		{"read wins over show", "show and read updates", Command{Action: ActionReadBack}},
		{"plain reply", "  running late  ", Command{Action: ActionReply, Text: "running late"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, Interpret(tc.utterance))
		})
	}
}
