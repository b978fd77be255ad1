//go:generate go run go.uber.org/mock/mockgen -source=index.go -destination=../mocks/mock_search_index.go -package=mocks
// Package search keeps a full-text index of the message history.
package search

import (
	"context"
	"eyesup/domain"
	"log/slog"
	"strings"

	"github.com/blugelabs/bluge"
	blugesearch "github.com/blugelabs/bluge/search"
	"github.com/google/uuid"
)

const (
	fieldText     = "text"
	fieldFrom     = "from"
	fieldFromKey  = "from_key"
	fieldTo       = "to"
	fieldIsGroup  = "is_group"
	fieldOutgoing = "outgoing"
	fieldTime     = "timestamp"
)

type IIndex interface {
	Index(message domain.Message) error
	Search(ctx context.Context, query Query) ([]domain.Message, uint64, error)
}

type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func OpenIndex(path string, log *slog.Logger) (*Index, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, err
	}
	return &Index{writer: writer, log: log}, nil
}

func (i *Index) Close() error {
	return i.writer.Close()
}

// Index adds or replaces the document of a message.
func (i *Index) Index(message domain.Message) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewTextField(fieldText, message.Text).StoreValue()).
		AddField(bluge.NewKeywordField(fieldFrom, message.From).StoreValue()).
		AddField(bluge.NewKeywordField(fieldFromKey, strings.ToLower(message.From))).
		AddField(bluge.NewKeywordField(fieldTo, message.To).StoreValue()).
		AddField(bluge.NewKeywordField(fieldIsGroup, strconvBool(message.IsGroup)).StoreValue()).
		AddField(bluge.NewKeywordField(fieldOutgoing, strconvBool(message.Outgoing)).StoreValue()).
		AddField(bluge.NewDateTimeField(fieldTime, message.Timestamp).StoreValue().Sortable())
	return i.writer.Update(doc.ID(), doc)
}

// Search returns the matching messages, newest first, and the total hit count.
func (i *Index) Search(ctx context.Context, query Query) ([]domain.Message, uint64, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			i.log.Warn("Error closing search reader", "error", err)
		}
	}()

	request := bluge.NewTopNSearch(query.Limit, toBlugeQuery(query)).
		SortBy([]string{"-" + fieldTime}).
		WithStandardAggregations()
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, 0, err
	}

	var messages []domain.Message
	match, err := iterator.Next()
	for err == nil && match != nil {
		message, visitErr := toMessage(match)
		if visitErr != nil {
			return nil, 0, visitErr
		}
		messages = append(messages, message)
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, 0, err
	}
	return messages, iterator.Aggregations().Count(), nil
}

func toBlugeQuery(query Query) bluge.Query {
	var text bluge.Query = bluge.NewMatchAllQuery()
	if query.Terms != "" {
		text = bluge.NewMatchQuery(query.Terms).SetField(fieldText).SetOperator(bluge.MatchQueryOperatorAnd)
	}
	if query.From == "" {
		return text
	}
	return bluge.NewBooleanQuery().
		AddMust(text).
		AddMust(bluge.NewTermQuery(strings.ToLower(query.From)).SetField(fieldFromKey))
}

func toMessage(match *blugesearch.DocumentMatch) (domain.Message, error) {
	var message domain.Message
	var parseErr error
	err := match.VisitStoredFields(func(field string, value []byte) bool {
		switch field {
		case "_id":
			message.ID, parseErr = uuid.ParseBytes(value)
		case fieldText:
			message.Text = string(value)
		case fieldFrom:
			message.From = string(value)
		case fieldTo:
			message.To = string(value)
		case fieldIsGroup:
			message.IsGroup = string(value) == "true"
		case fieldOutgoing:
			message.Outgoing = string(value) == "true"
		case fieldTime:
			message.Timestamp, parseErr = bluge.DecodeDateTime(value)
			message.Timestamp = message.Timestamp.UTC()
		}
		return parseErr == nil
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, parseErr
}

func strconvBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
