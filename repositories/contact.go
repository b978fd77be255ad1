//go:generate go run go.uber.org/mock/mockgen -source=contact.go -destination=../mocks/mock_contact_repository.go -package=mocks
package repositories

import (
	"context"
	stderrors "errors"
	"eyesup/domain"
	"eyesup/errors"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

const contactPrefix = "contact:"

const (
	contactFieldID        protowire.Number = 1
	contactFieldName      protowire.Number = 2
	contactFieldNumber    protowire.Number = 3
	contactFieldType      protowire.Number = 4
	contactFieldStartTime protowire.Number = 5
	contactFieldEndTime   protowire.Number = 6
)

type IContactRepository interface {
	List(ctx context.Context) ([]domain.Contact, error)
	Create(ctx context.Context, contact domain.Contact) (domain.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ContactRepository struct {
	db *badger.DB
}

func NewContactRepository(db *badger.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// List returns contacts sorted by name, case-insensitively.
func (c *ContactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := c.db.View(func(txn *badger.Txn) error {
		prefix := []byte(contactPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				contact, err := decodeContact(val)
				if err != nil {
					return err
				}
				contacts = append(contacts, contact)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Storage("list contacts", err)
	}
	sort.SliceStable(contacts, func(i, j int) bool {
		return strings.ToLower(contacts[i].Name) < strings.ToLower(contacts[j].Name)
	})
	return contacts, nil
}

func (c *ContactRepository) Create(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	if contact.Type == "" {
		contact.Type = domain.ContactPermanent
	}
	if err := contact.Validate(); err != nil {
		return domain.Contact{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Contact{}, errors.Storage("create contact", err)
	}
	contact.ID = uuid.New()
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(contactKey(contact.ID), encodeContact(contact))
	})
	if err != nil {
		return domain.Contact{}, errors.Storage("create contact", err)
	}
	return contact, nil
}

func (c *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return errors.Storage("delete contact", err)
	}
	err := c.db.Update(func(txn *badger.Txn) error {
		key := contactKey(id)
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrNotFound
	}
	if err != nil {
		return errors.Storage("delete contact", err)
	}
	return nil
}

func contactKey(id uuid.UUID) []byte {
	return []byte(contactPrefix + id.String())
}

func encodeContact(c domain.Contact) []byte {
	var w recordWriter
	w.string(contactFieldID, c.ID.String())
	w.string(contactFieldName, c.Name)
	w.string(contactFieldNumber, c.Number)
	w.string(contactFieldType, string(c.Type))
	w.time(contactFieldStartTime, c.StartTime)
	w.time(contactFieldEndTime, c.EndTime)
	return w.bytes()
}

func decodeContact(b []byte) (domain.Contact, error) {
	var c domain.Contact
	var rawID string
	err := readRecord(b, func(f field) {
		switch f.num {
		case contactFieldID:
			rawID = f.str()
		case contactFieldName:
			c.Name = f.str()
		case contactFieldNumber:
			c.Number = f.str()
		case contactFieldType:
			c.Type = domain.ContactType(f.str())
		case contactFieldStartTime:
			t := f.timestamp()
			c.StartTime = &t
		case contactFieldEndTime:
			t := f.timestamp()
			c.EndTime = &t
		}
	})
	if err != nil {
		return domain.Contact{}, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return domain.Contact{}, err
	}
	c.ID = id
	return c, nil
}
