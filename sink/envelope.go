package sink

import (
	"eyesup/domain"
	"eyesup/domain/event"
)

// Envelope is the JSON shape shared by the live stream and the Redis relay.
type Envelope struct {
	Type         event.Type          `json:"type"`
	ChannelID    string              `json:"channelId,omitempty"`
	Message      *domain.Message     `json:"message,omitempty"`
	Announcement *event.Announcement `json:"announcement,omitempty"`
}

// ToEnvelope wraps a domain event for the wire.
func ToEnvelope(e event.DomainEvent) Envelope {
	switch evt := e.(type) {
	case event.Connected:
		return Envelope{Type: evt.EventType(), ChannelID: evt.ChannelID}
	case event.MessageIngested:
		return Envelope{Type: evt.EventType(), Message: &evt.Message}
	case event.Announcement:
		return Envelope{Type: evt.EventType(), Announcement: &evt}
	default:
		return Envelope{Type: e.EventType()}
	}
}
