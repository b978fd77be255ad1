package workers

import (
	"context"
	"eyesup/contract"
	"eyesup/domain/event"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// EventFanout broadcasts domain events to the side sinks (search index,
// projections, monitoring, outbound relays).
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering, durability, or retries. Live channels are not served here:
// they are reached synchronously by the hub.
type EventFanout struct {
	log         *slog.Logger
	events      chan event.DomainEvent
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, events chan event.DomainEvent, sinkTimeout time.Duration, sinks ...contract.EventSink) *EventFanout {
	return &EventFanout{log: log, events: events, sinks: sinks, sinkTimeout: sinkTimeout}
}

func (w *EventFanout) Add(sinks ...contract.EventSink) *EventFanout {
	w.sinks = append(w.sinks, sinks...)
	return w
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping side event fan-out")
			return nil
		}
	}
}

// Fanout gives every sink its own goroutine and deadline, then waits for all
// of them so a sink never sees two events at once.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	var wg sync.WaitGroup
	for _, sink := range w.sinks {
		wg.Add(1)
		go func(sink contract.EventSink) {
			defer wg.Done()
			if err := w.consume(ctx, sink, evt); err != nil {
				w.log.Warn("Side sink failed", "sink", fmt.Sprintf("%T", sink), "type", evt.EventType(), "error", err)
			}
		}(sink)
	}
	wg.Wait()
}

func (w *EventFanout) consume(ctx context.Context, sink contract.EventSink, evt event.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panic: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	return sink.Consume(ctx, evt)
}
