package notification

import (
	"eyesup/domain"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func rule(text string, active bool) domain.KeywordRule {
	return domain.KeywordRule{ID: uuid.New(), Text: text, Active: active, Priority: domain.PriorityNormal}
}

func inbound(from, text string) domain.Message {
	return domain.Message{ID: uuid.New(), From: from, Text: text}
}

func Test_ShouldAnnounce_Everything_Without_Active_Rules(t *testing.T) {
	req := require.New(t)
	message := inbound("Mom", "Are you driving?")

	req.True(ShouldAnnounce(message, nil, domain.DefaultSettings()))
	req.True(ShouldAnnounce(message, []domain.KeywordRule{rule("urgent", false)}, domain.DefaultSettings()))
	req.True(ShouldAnnounce(message, []domain.KeywordRule{rule("   ", true)}, domain.DefaultSettings()))
}

func Test_ShouldAnnounce_Requires_A_Match_With_Active_Rules(t *testing.T) {
	req := require.New(t)
	rules := []domain.KeywordRule{rule("urgent", true)}

	req.False(ShouldAnnounce(inbound("Mom", "Are you driving?"), rules, domain.DefaultSettings()))
	req.True(ShouldAnnounce(inbound("Boss", "This is URGENT, call me"), rules, domain.DefaultSettings()))
	req.True(ShouldAnnounce(inbound("Boss", "nonurgently"), rules, domain.DefaultSettings()))
}

func Test_ShouldAnnounce_Any_Active_Rule_Is_Enough(t *testing.T) {
	req := require.New(t)
	rules := []domain.KeywordRule{
		rule("urgent", true),
		rule("pick me up", true),
		rule("dinner", false),
	}

	req.True(ShouldAnnounce(inbound("Kid", "Can you PICK ME UP at 5?"), rules, domain.DefaultSettings()))
	req.False(ShouldAnnounce(inbound("Kid", "dinner is ready"), rules, domain.DefaultSettings()))
}

func Test_ShouldAnnounce_Block_Group_Overrides_Match(t *testing.T) {
	req := require.New(t)
	settings := domain.DefaultSettings()
	settings.BlockGroup = true
	group := inbound("Family", "urgent: grandma called")
	group.IsGroup = true

	req.False(ShouldAnnounce(group, []domain.KeywordRule{rule("urgent", true)}, settings))
	req.False(ShouldAnnounce(group, nil, settings))

	settings.BlockGroup = false
	req.True(ShouldAnnounce(group, []domain.KeywordRule{rule("urgent", true)}, settings))
}

func Test_ShouldAnnounce_Never_For_Outgoing(t *testing.T) {
	req := require.New(t)
	reply := domain.Message{From: domain.LocalSender, To: "Mom", Text: "urgent", Outgoing: true}

	req.False(ShouldAnnounce(reply, nil, domain.DefaultSettings()))
	req.False(ShouldAnnounce(reply, []domain.KeywordRule{rule("urgent", true)}, domain.DefaultSettings()))
}

func Test_Filter_Returns_Matched_Rules_And_Recompiles_On_Change(t *testing.T) {
	req := require.New(t)
	filter := NewFilter(slog.Default())
	urgent := rule("urgent", true)
	school := rule("school", true)

	decision := filter.Evaluate(inbound("Teacher", "Urgent: school closes early"), []domain.KeywordRule{urgent, school}, domain.DefaultSettings())
	req.True(decision.Announce)
	req.ElementsMatch([]domain.KeywordRule{urgent, school}, decision.Matched)

	// Given the rule set changed
	decision = filter.Evaluate(inbound("Teacher", "Urgent: school closes early"), []domain.KeywordRule{school}, domain.DefaultSettings())
	req.Equal([]domain.KeywordRule{school}, decision.Matched)

	decision = filter.Evaluate(inbound("Teacher", "nothing to see"), []domain.KeywordRule{school}, domain.DefaultSettings())
	req.False(decision.Announce)
	req.Empty(decision.Matched)
}

func Test_Matcher_Overlapping_Patterns(t *testing.T) {
	req := require.New(t)
	he := rule("he", true)
	she := rule("she", true)
	hers := rule("hers", true)
	matcher, err := NewMatcher([]domain.KeywordRule{he, she, hers})
	req.NoError(err)

	req.ElementsMatch([]domain.KeywordRule{he, she, hers}, matcher.Match("USHERS"))
	req.Empty(matcher.Match("nothing"))
	req.Empty(matcher.Match(""))
}
