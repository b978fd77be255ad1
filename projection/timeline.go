// Package projection builds local views from observed events.
// It does not emit events.
package projection

import (
	"context"
	"eyesup/domain"
	"eyesup/domain/event"
	"sync"
)

const defaultCapacity = 50

// Timeline holds the most recent inbound messages and how many of them the
// driver has not heard yet.
type Timeline struct {
	mu       sync.RWMutex
	capacity int
	messages []domain.Message
	unread   int
}

func NewTimeline(capacity int) *Timeline {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Timeline{capacity: capacity}
}

// Seed loads history in chronological order. Seeded messages count as read.
func (t *Timeline) Seed(messages []domain.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, message := range messages {
		t.push(message)
	}
	t.unread = 0
}

// Consume implements contract.EventSink.
func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageIngested:
		if evt.Message.Outgoing {
			return nil
		}
		t.mu.Lock()
		t.push(evt.Message)
		t.unread = min(t.unread+1, len(t.messages))
		t.mu.Unlock()
	}
	return nil
}

func (t *Timeline) push(message domain.Message) {
	if message.Outgoing {
		return
	}
	t.messages = append(t.messages, message)
	if overflow := len(t.messages) - t.capacity; overflow > 0 {
		t.messages = append([]domain.Message(nil), t.messages[overflow:]...)
	}
}

// TakeUnread returns the unread messages, oldest first, and marks them read.
func (t *Timeline) TakeUnread() []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unread == 0 {
		return nil
	}
	unread := append([]domain.Message(nil), t.messages[len(t.messages)-t.unread:]...)
	t.unread = 0
	return unread
}

// Recent returns up to n of the latest inbound messages, oldest first.
func (t *Timeline) Recent(n int) []domain.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	start := max(len(t.messages)-n, 0)
	return append([]domain.Message(nil), t.messages[start:]...)
}

// LastInbound is the message a spoken reply answers.
func (t *Timeline) LastInbound() (domain.Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.messages) == 0 {
		return domain.Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

func (t *Timeline) UnreadCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.unread
}
