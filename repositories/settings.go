//go:generate go run go.uber.org/mock/mockgen -source=settings.go -destination=../mocks/mock_settings_repository.go -package=mocks
package repositories

import (
	"context"
	stderrors "errors"
	"eyesup/domain"
	"eyesup/errors"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"google.golang.org/protobuf/encoding/protowire"
)

var settingsKey = []byte("settings")

const (
	settingsFieldAutoDetectDriving protowire.Number = 1
	settingsFieldBlockGroup        protowire.Number = 2
	settingsFieldSpeakEmojis       protowire.Number = 3
	settingsFieldAutoRead          protowire.Number = 4
	// written so an all-false record can be told apart from a missing one
	settingsFieldVersion protowire.Number = 15
)

type ISettingsRepository interface {
	Get() domain.Settings
	Replace(ctx context.Context, settings domain.Settings) error
}

type SettingsRepository struct {
	mu       sync.Mutex
	db       *badger.DB
	snapshot atomic.Pointer[domain.Settings]
}

func NewSettingsRepository(db *badger.DB) (*SettingsRepository, error) {
	r := &SettingsRepository{db: db}
	settings := domain.DefaultSettings()
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(settingsKey)
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			settings, err = decodeSettings(val)
			return err
		})
	})
	if err != nil {
		return nil, errors.Storage("load settings", err)
	}
	r.snapshot.Store(&settings)
	return r, nil
}

func (r *SettingsRepository) Get() domain.Settings {
	return *r.snapshot.Load()
}

// Replace persists the settings as a whole, then publishes the new snapshot.
func (r *SettingsRepository) Replace(ctx context.Context, settings domain.Settings) error {
	if err := ctx.Err(); err != nil {
		return errors.Storage("replace settings", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(settingsKey, encodeSettings(settings))
	})
	if err != nil {
		return errors.Storage("replace settings", err)
	}
	r.snapshot.Store(&settings)
	return nil
}

func encodeSettings(s domain.Settings) []byte {
	var w recordWriter
	w.bool(settingsFieldAutoDetectDriving, s.AutoDetectDriving)
	w.bool(settingsFieldBlockGroup, s.BlockGroup)
	w.bool(settingsFieldSpeakEmojis, s.SpeakEmojis)
	w.bool(settingsFieldAutoRead, s.AutoRead)
	w.int64(settingsFieldVersion, 1)
	return w.bytes()
}

func decodeSettings(b []byte) (domain.Settings, error) {
	var s domain.Settings
	err := readRecord(b, func(f field) {
		switch f.num {
		case settingsFieldAutoDetectDriving:
			s.AutoDetectDriving = f.boolean()
		case settingsFieldBlockGroup:
			s.BlockGroup = f.boolean()
		case settingsFieldSpeakEmojis:
			s.SpeakEmojis = f.boolean()
		case settingsFieldAutoRead:
			s.AutoRead = f.boolean()
		}
	})
	return s, err
}
