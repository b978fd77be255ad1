package domain

import (
	"eyesup/errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ContactType string

const (
	ContactPermanent ContactType = "permanent"
	ContactTemporary ContactType = "temporary"
)

// Contact is a known sender. Temporary contacts only exist inside their time window.
type Contact struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Number    string      `json:"number"`
	Type      ContactType `json:"type"`
	StartTime *time.Time  `json:"startTime,omitempty"`
	EndTime   *time.Time  `json:"endTime,omitempty"`
}

func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.Validation("name is required")
	}
	switch c.Type {
	case ContactPermanent, "":
		if strings.TrimSpace(c.Number) == "" {
			return errors.Validation("name and number are required")
		}
	case ContactTemporary:
		if c.EndTime == nil {
			return errors.Validation("name and end time are required for temporary contacts")
		}
		if c.StartTime != nil && c.EndTime.Before(*c.StartTime) {
			return errors.Validation("end time must be after start time")
		}
	default:
		return errors.Validation("unknown contact type")
	}
	return nil
}

// IsActive reports whether the contact is usable at the given instant.
func (c Contact) IsActive(now time.Time) bool {
	if c.Type != ContactTemporary {
		return true
	}
	if c.StartTime != nil && now.Before(*c.StartTime) {
		return false
	}
	return c.EndTime == nil || !now.After(*c.EndTime)
}
