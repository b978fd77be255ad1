//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"eyesup/domain"
	"eyesup/domain/event"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one consumer of domain events: a live channel or a side sink.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

type ChannelID string

type IHub interface {
	Subscribe(sink EventSink) (ChannelID, error)
	Unsubscribe(id ChannelID)
	Broadcast(ctx context.Context, e event.DomainEvent)
	Count() int
}

type IMessageStore interface {
	Append(ctx context.Context, message domain.Message) (domain.Message, error)
	List(ctx context.Context) ([]domain.Message, error)
	Page(ctx context.Context, cursor *string) ([]domain.Message, *string, error)
}

type IKeywordRegistry interface {
	List() []domain.KeywordRule
}

type ISettingsStore interface {
	Get() domain.Settings
	Replace(ctx context.Context, settings domain.Settings) error
}
