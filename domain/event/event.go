package event

import (
	"eyesup/domain"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	ConnectedType    Type = "connected"
	MessageType      Type = "message"
	AnnouncementType Type = "announcement"
)

// DomainEvent is anything pushed through the hub or the side-sink fan-out.
type DomainEvent interface {
	EventType() Type
}

// Connected is the synthetic acknowledgement sent to a freshly subscribed channel.
// It never carries message content.
type Connected struct {
	ChannelID string    `json:"channelId"`
	At        time.Time `json:"at"`
}

func (Connected) EventType() Type { return ConnectedType }

// MessageIngested carries a persisted message.
type MessageIngested struct {
	Message domain.Message `json:"message"`
}

func (MessageIngested) EventType() Type { return MessageType }

// Announcement is the spoken form of an inbound message.
type Announcement struct {
	MessageID uuid.UUID       `json:"messageId"`
	From      string          `json:"from"`
	Spoken    string          `json:"spoken"`
	Lang      string          `json:"lang"`
	Priority  domain.Priority `json:"priority"`
	Keywords  []string        `json:"keywords,omitempty"`
	At        time.Time       `json:"at"`
}

func (Announcement) EventType() Type { return AnnouncementType }
