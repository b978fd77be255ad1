package sink

import (
	"context"
	"eyesup/domain/event"
	"fmt"
	"sync"
)

var errBufferFull = fmt.Errorf("live channel buffer full")

// LiveSink is the hub side of one connected listener. The transport handler
// drains Events and writes them to the connection.
type LiveSink struct {
	events chan event.DomainEvent
	done   chan struct{}
	once   sync.Once
}

func NewLiveSink(bufferSize int) *LiveSink {
	return &LiveSink{
		events: make(chan event.DomainEvent, bufferSize),
		done:   make(chan struct{}),
	}
}

// Consume is called by the hub. It never waits for the listener: a full
// buffer is a failed write. The sink closes itself so the transport drops
// the connection once the hub has evicted it.
func (s *LiveSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case <-s.done:
		return fmt.Errorf("live channel closed")
	default:
	}
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		s.Close()
		return errBufferFull
	}
}

func (s *LiveSink) Events() <-chan event.DomainEvent {
	return s.events
}

// Done is closed once the listener went away.
func (s *LiveSink) Done() <-chan struct{} {
	return s.done
}

// Close is idempotent.
func (s *LiveSink) Close() {
	s.once.Do(func() { close(s.done) })
}
