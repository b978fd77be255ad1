package sink

import (
	"context"
	"eyesup/domain/event"
	"eyesup/search"
)

// SearchSink indexes every stored message.
type SearchSink struct {
	index search.IIndex
}

func NewSearchSink(index search.IIndex) SearchSink {
	return SearchSink{index: index}
}

func (s SearchSink) Consume(_ context.Context, e event.DomainEvent) error {
	if evt, ok := e.(event.MessageIngested); ok {
		return s.index.Index(evt.Message)
	}
	return nil
}
