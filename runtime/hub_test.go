package runtime

import (
	"context"
	"eyesup/domain"
	"eyesup/domain/event"
	"eyesup/errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// recordingSink keeps every event it receives and can be told to fail.
type recordingSink struct {
	mu     sync.Mutex
	events []event.DomainEvent
	fail   error
	panics bool
	block  bool
}

func (s *recordingSink) Consume(ctx context.Context, e event.DomainEvent) error {
	if s.panics {
		panic("sink exploded")
	}
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) received() []event.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.DomainEvent(nil), s.events...)
}

func newHub() *Hub {
	return NewHub(logs.GetLoggerFromLevel(slog.LevelDebug), 50*time.Millisecond)
}

func ingested(text string) event.MessageIngested {
	return event.MessageIngested{Message: domain.Message{From: "Mom", Text: text}}
}

func TestHub_Subscribe_Sends_Connected_First(t *testing.T) {
	req := require.New(t)
	hub := newHub()
	sink := &recordingSink{}

	// When a channel subscribes
	id, err := hub.Subscribe(sink)
	req.NoError(err)

	// Then it gets the acknowledgement and only that
	req.Equal(1, hub.Count())
	events := sink.received()
	req.Len(events, 1)
	connected, ok := events[0].(event.Connected)
	req.True(ok)
	req.Equal(string(id), connected.ChannelID)
	req.Equal(event.ConnectedType, connected.EventType())
}

func TestHub_Broadcast_Reaches_Every_Channel(t *testing.T) {
	req := require.New(t)
	hub := newHub()
	first, second := &recordingSink{}, &recordingSink{}
	_, err := hub.Subscribe(first)
	req.NoError(err)
	_, err = hub.Subscribe(second)
	req.NoError(err)

	hub.Broadcast(context.Background(), ingested("hello"))

	req.Len(first.received(), 2)
	req.Len(second.received(), 2)
	req.Equal(ingested("hello"), first.received()[1])
}

func TestHub_No_Replay_For_Late_Subscriber(t *testing.T) {
	req := require.New(t)
	hub := newHub()
	early := &recordingSink{}
	_, err := hub.Subscribe(early)
	req.NoError(err)
	hub.Broadcast(context.Background(), ingested("before"))

	// Given a channel joining after the first broadcast
	late := &recordingSink{}
	_, err = hub.Subscribe(late)
	req.NoError(err)
	hub.Broadcast(context.Background(), ingested("after"))

	// Then it only sees what was broadcast after it joined
	events := late.received()
	req.Len(events, 2)
	req.Equal(ingested("after"), events[1])
	req.Len(early.received(), 3)
}

func TestHub_Failing_Channel_Is_Evicted_Others_Still_Receive(t *testing.T) {
	testCases := []struct {
		name   string
		broken *recordingSink
	}{
		{"error", &recordingSink{}},
		{"panic", &recordingSink{}},
		{"timeout", &recordingSink{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			hub := newHub()
			healthy := &recordingSink{}
			_, err := hub.Subscribe(healthy)
			req.NoError(err)
			_, err = hub.Subscribe(tc.broken)
			req.NoError(err)
			req.Equal(2, hub.Count())

			// Given the second channel breaks after subscribing
			switch tc.name {
			case "error":
				tc.broken.fail = fmt.Errorf("connection reset")
			case "panic":
				tc.broken.panics = true
			case "timeout":
				tc.broken.block = true
			}

			// When a message is broadcast
			hub.Broadcast(context.Background(), ingested("hello"))

			// Then the broken channel is gone and the healthy one got it
			req.Equal(1, hub.Count())
			req.Len(healthy.received(), 2)

			hub.Broadcast(context.Background(), ingested("again"))
			req.Len(healthy.received(), 3)
		})
	}
}

func TestHub_Channel_Failing_Acknowledgement_Is_Not_Registered(t *testing.T) {
	req := require.New(t)
	hub := newHub()

	// When a channel already gone subscribes
	id, err := hub.Subscribe(&recordingSink{fail: fmt.Errorf("closed")})

	// Then the caller learns it and nothing is registered
	req.ErrorIs(err, errors.ErrDelivery)
	req.Contains(err.Error(), "closed")
	req.Empty(id)
	req.Equal(0, hub.Count())
}

func TestHub_Channel_Timing_Out_On_Acknowledgement_Gets_An_Error(t *testing.T) {
	req := require.New(t)
	hub := newHub()

	// When the acknowledgement cannot be written in time
	_, err := hub.Subscribe(&recordingSink{block: true})

	// Then the subscription fails instead of returning a dangling id
	req.ErrorIs(err, errors.ErrDelivery)
	req.Equal(0, hub.Count())
	hub.Broadcast(context.Background(), ingested("hello"))
	req.Equal(0, hub.Count())
}

func TestHub_Unsubscribe_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	hub := newHub()
	sink := &recordingSink{}
	id, err := hub.Subscribe(sink)
	req.NoError(err)

	hub.Unsubscribe(id)
	hub.Unsubscribe(id)
	hub.Broadcast(context.Background(), ingested("hello"))

	req.Equal(0, hub.Count())
	req.Len(sink.received(), 1)
}

func TestHub_Concurrent_Membership_Changes_During_Broadcast(t *testing.T) {
	req := require.New(t)
	hub := newHub()
	stable := &recordingSink{}
	_, err := hub.Subscribe(stable)
	req.NoError(err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			id, err := hub.Subscribe(&recordingSink{})
			if err == nil {
				hub.Unsubscribe(id)
			}
		}()
		go func(i int) {
			defer wg.Done()
			hub.Broadcast(context.Background(), ingested(fmt.Sprintf("message %d", i)))
		}(i)
	}
	wg.Wait()

	req.Equal(1, hub.Count())
	req.Len(stable.received(), 21)
}
