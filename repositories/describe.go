package repositories

import (
	"bytes"
	"eyesup/domain"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Record is a decoded store entry, as shown by the inspection tools.
type Record struct {
	Kind   string
	ID     string
	At     time.Time
	Detail string
}

// DescribeRecord decodes any key written by this package. Unknown keys are
// reported as raw entries.
func DescribeRecord(key string, val []byte) (Record, error) {
	switch {
	case strings.HasPrefix(key, messagePrefix):
		m, err := decodeMessage(val)
		if err != nil {
			return Record{Kind: "MESSAGE"}, err
		}
		detail := fmt.Sprintf("%s: %s", m.From, m.Text)
		if m.Outgoing {
			detail = fmt.Sprintf("%s -> %s: %s", m.From, m.To, m.Text)
		}
		return Record{Kind: "MESSAGE", ID: m.ID.String(), At: m.Timestamp, Detail: detail}, nil
	case strings.HasPrefix(key, contactPrefix):
		c, err := decodeContact(val)
		if err != nil {
			return Record{Kind: "CONTACT"}, err
		}
		return Record{Kind: "CONTACT", ID: c.ID.String(), Detail: fmt.Sprintf("%s (%s) %s", c.Name, c.Type, c.Number)}, nil
	case strings.HasPrefix(key, userPrefix):
		u, err := decodeUser(val)
		if err != nil {
			return Record{Kind: "USER"}, err
		}
		return Record{Kind: "USER", ID: u.ID, At: u.CreatedAt, Detail: u.Email}, nil
	case bytes.Equal([]byte(key), keywordsKey):
		rules, err := decodeKeywords(val)
		if err != nil {
			return Record{Kind: "KEYWORDS"}, err
		}
		texts := lo.Map(rules, func(r domain.KeywordRule, _ int) string {
			if !r.Active {
				return r.Text + " (off)"
			}
			return r.Text
		})
		return Record{Kind: "KEYWORDS", Detail: strings.Join(texts, ", ")}, nil
	case bytes.Equal([]byte(key), settingsKey):
		s, err := decodeSettings(val)
		if err != nil {
			return Record{Kind: "SETTINGS"}, err
		}
		return Record{Kind: "SETTINGS", Detail: fmt.Sprintf("%+v", s)}, nil
	default:
		return Record{Kind: "RAW", Detail: fmt.Sprintf("Size: %d bytes", len(val))}, nil
	}
}
