package notification

import (
	"eyesup/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_RenderAnnouncement_Includes_Sender_And_Text(t *testing.T) {
	req := require.New(t)

	spoken := RenderAnnouncement(inbound("Mom", "Are you driving?"))
	req.Contains(spoken, "Mom")
	req.Contains(spoken, "Are you driving?")

	group := inbound("Family", "dinner at 8")
	group.IsGroup = true
	req.Equal("Family in a group says: dinner at 8", RenderAnnouncement(group))
}

func Test_Announce_Uses_Highest_Priority_And_Strips_Emojis(t *testing.T) {
	req := require.New(t)
	message := inbound("Boss", "call me now 🚨 urgent")
	urgent := rule("urgent", true)
	urgent.Priority = domain.PriorityEmergency
	now := rule("now", true)
	now.Priority = domain.PriorityHigh
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	settings := domain.DefaultSettings()
	settings.SpeakEmojis = false
	announcement := Announce(message, []domain.KeywordRule{now, urgent}, settings, at)

	req.Equal(message.ID, announcement.MessageID)
	req.Equal(domain.PriorityEmergency, announcement.Priority)
	req.Equal("Boss says: call me now urgent", announcement.Spoken)
	req.ElementsMatch([]string{"urgent", "now"}, announcement.Keywords)
	req.Equal(at, announcement.At)
	req.NotEmpty(announcement.Lang)
}

func Test_Announce_Keeps_Emojis_When_Enabled(t *testing.T) {
	req := require.New(t)
	message := inbound("Mom", "love you ❤️")

	announcement := Announce(message, nil, domain.DefaultSettings(), time.Now())
	req.Equal(domain.PriorityNormal, announcement.Priority)
	req.Contains(announcement.Spoken, "❤️")
}

func Test_StripEmojis(t *testing.T) {
	req := require.New(t)
	req.Equal("on my way", StripEmojis("on my 🚗 way 👍🏽"))
	req.Equal("plain text", StripEmojis("plain text"))
}

func Test_DetectLang_Defaults_To_English(t *testing.T) {
	req := require.New(t)
	req.Equal(defaultLang, DetectLang(""))
	req.NotEmpty(DetectLang("I will be home in ten minutes, see you soon"))
}
