package notification

import (
	"eyesup/domain"
	"eyesup/domain/event"
	"strings"
	"time"
	"unicode"

	"github.com/abadojack/whatlanggo"
	"github.com/samber/lo"
)

const defaultLang = "en-US"

// RenderAnnouncement always contains the sender label and the message text.
func RenderAnnouncement(message domain.Message) string {
	if message.IsGroup {
		return message.From + " in a group says: " + message.Text
	}
	return message.From + " says: " + message.Text
}

// Announce builds the announcement for a message the filter let through.
func Announce(message domain.Message, matched []domain.KeywordRule, settings domain.Settings, at time.Time) event.Announcement {
	spoken := message
	if !settings.SpeakEmojis {
		spoken.Text = StripEmojis(spoken.Text)
	}
	priority := domain.PriorityNormal
	for _, rule := range matched {
		if rule.Priority.Higher(priority) {
			priority = rule.Priority
		}
	}
	return event.Announcement{
		MessageID: message.ID,
		From:      message.From,
		Spoken:    RenderAnnouncement(spoken),
		Lang:      DetectLang(message.Text),
		Priority:  priority,
		Keywords: lo.Uniq(lo.Map(matched, func(rule domain.KeywordRule, _ int) string {
			return rule.Text
		})),
		At: at,
	}
}

// DetectLang returns a BCP 47 hint for the speech engine.
func DetectLang(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return defaultLang
	}
	switch code := info.Lang.Iso6391(); code {
	case "", "en":
		return defaultLang
	default:
		return code
	}
}

// StripEmojis removes pictographs and their joiners, then collapses spaces.
func StripEmojis(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.Is(unicode.So, r), unicode.Is(unicode.Sk, r) && r > 0x1F000:
			return -1
		case r == 0x200D, r >= 0xFE00 && r <= 0xFE0F, r >= 0x1F3FB && r <= 0x1F3FF:
			return -1
		default:
			return r
		}
	}, text)
	return strings.Join(strings.Fields(cleaned), " ")
}
