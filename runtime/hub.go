package runtime

import (
	"context"
	"eyesup/contract"
	"eyesup/domain/event"
	"eyesup/errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Hub is the set of live channels currently listening for new messages.
type Hub struct {
	mu              sync.RWMutex
	log             *slog.Logger
	channels        map[contract.ChannelID]contract.EventSink
	deliveryTimeout time.Duration
}

type member struct {
	id   contract.ChannelID
	sink contract.EventSink
}

func NewHub(log *slog.Logger, deliveryTimeout time.Duration) *Hub {
	return &Hub{
		log:             log,
		channels:        make(map[contract.ChannelID]contract.EventSink),
		deliveryTimeout: deliveryTimeout,
	}
}

// Subscribe acknowledges the sink with a Connected event, then registers it.
// The acknowledgement is delivered before registration so it is always the
// first event the channel sees. A sink that fails the acknowledgement is
// never registered and the delivery error is returned.
func (h *Hub) Subscribe(sink contract.EventSink) (contract.ChannelID, error) {
	id := contract.ChannelID(uuid.NewString())
	ack := event.Connected{ChannelID: string(id), At: time.Now().UTC()}
	if err := h.deliver(context.Background(), id, sink, ack); err != nil {
		h.log.Warn("Channel dropped before subscription", "error", err)
		return "", err
	}

	h.mu.Lock()
	h.channels[id] = sink
	count := len(h.channels)
	h.mu.Unlock()

	h.log.Debug("Channel subscribed", "channel", id, "channels", count)
	return id, nil
}

// Unsubscribe is idempotent.
func (h *Hub) Unsubscribe(id contract.ChannelID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.channels[id]; ok {
		delete(h.channels, id)
		h.log.Debug("Channel unsubscribed", "channel", id, "channels", len(h.channels))
	}
}

// Broadcast delivers e to every channel registered when the call starts.
// Deliveries run concurrently, each one bounded by the delivery timeout.
// A channel that fails is evicted; the others are not affected.
func (h *Hub) Broadcast(ctx context.Context, e event.DomainEvent) {
	members := h.snapshot()
	if len(members) == 0 {
		return
	}

	var wg sync.WaitGroup
	failed := make(chan contract.ChannelID, len(members))
	for _, m := range members {
		wg.Add(1)
		go func(m member) {
			defer wg.Done()
			if err := h.deliver(ctx, m.id, m.sink, e); err != nil {
				h.log.Warn("Evicting live channel", "error", err)
				failed <- m.id
			}
		}(m)
	}
	wg.Wait()
	close(failed)

	for id := range failed {
		h.Unsubscribe(id)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels)
}

func (h *Hub) snapshot() []member {
	h.mu.RLock()
	defer h.mu.RUnlock()
	members := make([]member, 0, len(h.channels))
	for id, sink := range h.channels {
		members = append(members, member{id: id, sink: sink})
	}
	return members
}

func (h *Hub) deliver(ctx context.Context, id contract.ChannelID, sink contract.EventSink, e event.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Delivery(string(id), fmt.Errorf("panic: %v", r))
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, h.deliveryTimeout)
	defer cancel()
	if err := sink.Consume(ctx, e); err != nil {
		return errors.Delivery(string(id), err)
	}
	return nil
}
