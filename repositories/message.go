//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"eyesup/domain"
	"eyesup/errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

const messagePrefix = "msg:"

const (
	messageFieldID        protowire.Number = 1
	messageFieldFrom      protowire.Number = 2
	messageFieldTo        protowire.Number = 3
	messageFieldText      protowire.Number = 4
	messageFieldIsGroup   protowire.Number = 5
	messageFieldOutgoing  protowire.Number = 6
	messageFieldTimestamp protowire.Number = 7
)

type IMessageRepository interface {
	Append(ctx context.Context, message domain.Message) (domain.Message, error)
	List(ctx context.Context) ([]domain.Message, error)
	Page(ctx context.Context, cursor *string) ([]domain.Message, *string, error)
}

// MessageRepository is the single writer of the message history.
// Append holds mu while stamping and persisting, so the timestamp order
// in the keyspace is also the insertion order.
type MessageRepository struct {
	mu            sync.Mutex
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
	clock         func() time.Time
	last          time.Time
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) *MessageRepository {
	return &MessageRepository{db: db, log: log, limitMessages: limitMessages, clock: time.Now}
}

// Append stamps the draft with its ID and timestamp, then persists it.
// The key is formatted as "msg:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using the UUID as a tie-breaker when two messages
//     share the same nanosecond.
func (m *MessageRepository) Append(ctx context.Context, message domain.Message) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, errors.Storage("append", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock().UTC()
	if now.Before(m.last) {
		// Wall clock went backwards, keep the history monotonic.
		now = m.last
	}
	id, err := uuid.NewV7()
	if err != nil {
		return domain.Message{}, errors.Storage("id", err)
	}
	message.ID = id
	message.Timestamp = now

	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message), encodeMessage(message))
	})
	if err != nil {
		return domain.Message{}, errors.Storage("append", err)
	}
	m.last = now
	m.log.Debug("Message stored", "id", message.ID, "from", message.From, "outgoing", message.Outgoing)
	return message, nil
}

// List returns the whole history, oldest first.
func (m *MessageRepository) List(ctx context.Context) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(value []byte) error {
				message, err := decodeMessage(value)
				if err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Storage("list", err)
	}
	return messages, nil
}

// Page walks the history newest first using a reverse prefix scan.
// The returned cursor is the key suffix of the last message read and is
// passed back to fetch the next (older) page. It stops collecting messages
// once the configured limitMessages is reached.
func (m *MessageRepository) Page(ctx context.Context, cursor *string) ([]domain.Message, *string, error) {
	var messages []domain.Message
	var lastKey string
	prefixLen := len(messagePrefix)
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Start past the newest possible key, then walk backwards
			seekKey = []byte(messagePrefix + "9999999999999999999")
		default:
			seekKey = []byte(messagePrefix + *cursor)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if m.limitMessages != nil && len(messages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				message, err := decodeMessage(value)
				if err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, errors.Storage("page", err)
	}
	return messages, &lastKey, nil
}

func messageKey(message domain.Message) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", messagePrefix, message.Timestamp.UnixNano(), message.ID))
}

func encodeMessage(message domain.Message) []byte {
	var w recordWriter
	w.string(messageFieldID, message.ID.String())
	w.string(messageFieldFrom, message.From)
	w.string(messageFieldTo, message.To)
	w.string(messageFieldText, message.Text)
	w.bool(messageFieldIsGroup, message.IsGroup)
	w.bool(messageFieldOutgoing, message.Outgoing)
	w.time(messageFieldTimestamp, &message.Timestamp)
	return w.bytes()
}

func decodeMessage(b []byte) (domain.Message, error) {
	var message domain.Message
	var rawID string
	err := readRecord(b, func(f field) {
		switch f.num {
		case messageFieldID:
			rawID = f.str()
		case messageFieldFrom:
			message.From = f.str()
		case messageFieldTo:
			message.To = f.str()
		case messageFieldText:
			message.Text = f.str()
		case messageFieldIsGroup:
			message.IsGroup = f.boolean()
		case messageFieldOutgoing:
			message.Outgoing = f.boolean()
		case messageFieldTimestamp:
			message.Timestamp = f.timestamp()
		}
	})
	if err != nil {
		return domain.Message{}, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return domain.Message{}, err
	}
	message.ID = id
	return message, nil
}
