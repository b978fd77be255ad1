// Package runtime moves messages from the boundary to the store, the live
// channels and the side sinks. It holds no business rules of its own.
package runtime

import (
	"context"
	"eyesup/contract"
	"eyesup/domain"
	"eyesup/domain/event"
	"eyesup/notification"
	"log/slog"
	"sync"
	"time"
)

// Result is what the caller of an ingestion gets back.
// Announcement is set whenever the filter let the message through, even if
// auto-read is off and nothing was pushed to the live channels.
type Result struct {
	Message      domain.Message      `json:"message"`
	Announced    bool                `json:"announced"`
	Announcement *event.Announcement `json:"announcement,omitempty"`
}

type Pipeline struct {
	mu       sync.Mutex
	log      *slog.Logger
	store    contract.IMessageStore
	hub      contract.IHub
	keywords contract.IKeywordRegistry
	settings contract.ISettingsStore
	filter   *notification.Filter
	events   chan event.DomainEvent
	clock    func() time.Time
}

func NewPipeline(log *slog.Logger, store contract.IMessageStore, hub contract.IHub,
	keywords contract.IKeywordRegistry, settings contract.ISettingsStore,
	events chan event.DomainEvent) *Pipeline {
	return &Pipeline{
		log:      log,
		store:    store,
		hub:      hub,
		keywords: keywords,
		settings: settings,
		filter:   notification.NewFilter(log),
		events:   events,
		clock:    time.Now,
	}
}

// Ingest accepts a message from an external sender.
func (p *Pipeline) Ingest(ctx context.Context, cmd domain.IncomingCommand) (Result, error) {
	if err := cmd.Validate(); err != nil {
		return Result{}, err
	}
	return p.process(ctx, cmd.Draft())
}

// Reply sends a message authored by the driver.
func (p *Pipeline) Reply(ctx context.Context, cmd domain.ReplyCommand) (Result, error) {
	if err := cmd.Validate(); err != nil {
		return Result{}, err
	}
	return p.process(ctx, cmd.Draft())
}

// process persists first and only broadcasts a stored message.
// mu keeps live delivery in store order.
func (p *Pipeline) process(ctx context.Context, draft domain.Message) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	message, err := p.store.Append(ctx, draft)
	if err != nil {
		p.log.Error("Message not stored, nothing broadcast", "from", draft.From, "error", err)
		return Result{}, err
	}

	// The message is stored: a cancelled caller must not stop its delivery.
	deliverCtx := context.WithoutCancel(ctx)
	ingested := event.MessageIngested{Message: message}
	p.hub.Broadcast(deliverCtx, ingested)
	p.publish(ingested)

	settings := p.settings.Get()
	decision := p.filter.Evaluate(message, p.keywords.List(), settings)
	result := Result{Message: message, Announced: decision.Announce}
	if !decision.Announce {
		p.log.Debug("Message not announced", "id", message.ID, "outgoing", message.Outgoing)
		return result, nil
	}

	announcement := notification.Announce(message, decision.Matched, settings, p.clock().UTC())
	result.Announcement = &announcement
	if settings.AutoRead {
		p.hub.Broadcast(deliverCtx, announcement)
	}
	p.publish(announcement)
	p.log.Debug("Message announced", "id", message.ID, "priority", announcement.Priority, "autoRead", settings.AutoRead)
	return result, nil
}

// publish hands the event to the side sinks without ever blocking ingestion.
func (p *Pipeline) publish(e event.DomainEvent) {
	if p.events == nil {
		return
	}
	select {
	case p.events <- e:
	default:
		p.log.Warn("Side event buffer full, event dropped", "type", e.EventType())
	}
}
