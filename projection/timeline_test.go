package projection

import (
	"context"
	"eyesup/domain"
	"eyesup/domain/event"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func inbound(from, text string) event.MessageIngested {
	return event.MessageIngested{Message: domain.Message{From: from, Text: text, Timestamp: time.Now().UTC()}}
}

func TestTimeline_Consume_Inbound_Only(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(10)
	ctx := context.Background()

	req.NoError(timeline.Consume(ctx, inbound("Alice", "Hello")))
	req.NoError(timeline.Consume(ctx, event.MessageIngested{Message: domain.Message{From: domain.LocalSender, To: "Alice", Text: "Hi", Outgoing: true}}))
	req.NoError(timeline.Consume(ctx, inbound("Clara", "Are you there?")))
	req.NoError(timeline.Consume(ctx, event.Announcement{From: "Clara"}))

	req.Equal(2, timeline.UnreadCount())
	last, ok := timeline.LastInbound()
	req.True(ok)
	req.Equal("Clara", last.From)

	unread := timeline.TakeUnread()
	req.Len(unread, 2)
	req.Equal("Alice", unread[0].From)
	req.Empty(timeline.TakeUnread())
	req.Len(timeline.Recent(5), 2)
}

func TestTimeline_Capacity_Bounds_Unread(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(3)
	for i := 0; i < 5; i++ {
		req.NoError(timeline.Consume(context.Background(), inbound("Bob", fmt.Sprintf("message %d", i))))
	}

	unread := timeline.TakeUnread()
	req.Len(unread, 3)
	req.Equal("message 2", unread[0].Text)
	req.Equal("message 4", unread[2].Text)
}

func TestTimeline_Seed_Counts_As_Read(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(10)
	timeline.Seed([]domain.Message{
		{From: "Mom", Text: "old"},
		{From: domain.LocalSender, Text: "reply", Outgoing: true},
	})

	req.Zero(timeline.UnreadCount())
	req.Len(timeline.Recent(10), 1)
	_, ok := NewTimeline(0).LastInbound()
	req.False(ok)
}
