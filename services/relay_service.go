package services

import (
	"context"
	"eyesup/contract"
	"eyesup/domain"
	"eyesup/repositories"
	"eyesup/runtime"
	"eyesup/search"
	"math/rand/v2"
	"time"
)

// Canned texts used by Simulate.
var simulatedTexts = []string{
	"Hey, are you driving?",
	"Don't forget to pick up milk.",
	"Meeting starts in 10 minutes!",
}

const unknownSender = "Unknown"

type IRelayService interface {
	Incoming(ctx context.Context, cmd domain.IncomingCommand) (runtime.Result, error)
	Reply(ctx context.Context, cmd domain.ReplyCommand) (runtime.Result, error)
	Simulate(ctx context.Context) (runtime.Result, error)
	Messages(ctx context.Context) ([]domain.Message, error)
	Page(ctx context.Context, cursor *string) (Page, error)
	Search(ctx context.Context, raw string) (SearchResult, error)
	Subscribe(sink contract.EventSink) (contract.ChannelID, error)
	Unsubscribe(id contract.ChannelID)
}

type Page struct {
	Messages []domain.Message `json:"messages"`
	Cursor   *string          `json:"cursor,omitempty"`
}

type SearchResult struct {
	Query    search.Query     `json:"-"`
	Total    uint64           `json:"total"`
	Messages []domain.Message `json:"messages"`
}

type RelayService struct {
	pipeline *runtime.Pipeline
	store    contract.IMessageStore
	hub      contract.IHub
	index    search.IIndex
	contacts repositories.IContactRepository
	pick     func(n int) int
	now      func() time.Time
}

func NewRelayService(pipeline *runtime.Pipeline, store contract.IMessageStore, hub contract.IHub,
	index search.IIndex, contacts repositories.IContactRepository) *RelayService {
	return &RelayService{
		pipeline: pipeline,
		store:    store,
		hub:      hub,
		index:    index,
		contacts: contacts,
		pick:     rand.IntN,
		now:      time.Now,
	}
}

func (s *RelayService) Incoming(ctx context.Context, cmd domain.IncomingCommand) (runtime.Result, error) {
	return s.pipeline.Ingest(ctx, cmd)
}

func (s *RelayService) Reply(ctx context.Context, cmd domain.ReplyCommand) (runtime.Result, error) {
	return s.pipeline.Reply(ctx, cmd)
}

// Simulate ingests a canned text from one of the active contacts.
func (s *RelayService) Simulate(ctx context.Context) (runtime.Result, error) {
	from := unknownSender
	contacts, err := s.contacts.List(ctx)
	if err != nil {
		return runtime.Result{}, err
	}
	now := s.now()
	var names []string
	for _, contact := range contacts {
		if contact.IsActive(now) {
			names = append(names, contact.Name)
		}
	}
	if len(names) > 0 {
		from = names[s.pick(len(names))]
	}
	text := simulatedTexts[s.pick(len(simulatedTexts))]
	return s.pipeline.Ingest(ctx, domain.IncomingCommand{From: from, Text: text})
}

func (s *RelayService) Messages(ctx context.Context) ([]domain.Message, error) {
	messages, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

func (s *RelayService) Page(ctx context.Context, cursor *string) (Page, error) {
	messages, next, err := s.store.Page(ctx, cursor)
	if err != nil {
		return Page{}, err
	}
	if len(messages) == 0 {
		return Page{Messages: []domain.Message{}}, nil
	}
	return Page{Messages: messages, Cursor: next}, nil
}

func (s *RelayService) Search(ctx context.Context, raw string) (SearchResult, error) {
	query := search.NewQuery(raw)
	messages, total, err := s.index.Search(ctx, query)
	if err != nil {
		return SearchResult{}, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return SearchResult{Query: query, Total: total, Messages: messages}, nil
}

func (s *RelayService) Subscribe(sink contract.EventSink) (contract.ChannelID, error) {
	return s.hub.Subscribe(sink)
}

func (s *RelayService) Unsubscribe(id contract.ChannelID) {
	s.hub.Unsubscribe(id)
}
