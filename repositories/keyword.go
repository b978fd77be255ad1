//go:generate go run go.uber.org/mock/mockgen -source=keyword.go -destination=../mocks/mock_keyword_repository.go -package=mocks
package repositories

import (
	"context"
	stderrors "errors"
	"eyesup/domain"
	"eyesup/errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/protobuf/encoding/protowire"
)

var keywordsKey = []byte("keywords")

const (
	keywordListFieldRule protowire.Number = 1

	keywordFieldID       protowire.Number = 1
	keywordFieldText     protowire.Number = 2
	keywordFieldActive   protowire.Number = 3
	keywordFieldPriority protowire.Number = 4
)

type IKeywordRepository interface {
	List() []domain.KeywordRule
	Replace(ctx context.Context, rules []domain.KeywordRule) ([]domain.KeywordRule, error)
	Add(ctx context.Context, rules ...domain.KeywordRule) ([]domain.KeywordRule, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// KeywordRepository keeps the whole rule set under one key and serves
// reads from an in-memory snapshot that is swapped on every write.
type KeywordRepository struct {
	mu       sync.Mutex
	db       *badger.DB
	log      *slog.Logger
	snapshot atomic.Pointer[[]domain.KeywordRule]
}

func NewKeywordRepository(db *badger.DB, log *slog.Logger) (*KeywordRepository, error) {
	r := &KeywordRepository{db: db, log: log}
	rules, err := r.load()
	if err != nil {
		return nil, errors.Storage("load keywords", err)
	}
	r.snapshot.Store(&rules)
	return r, nil
}

// List returns the current snapshot. Callers must not mutate it.
func (r *KeywordRepository) List() []domain.KeywordRule {
	return *r.snapshot.Load()
}

// Replace swaps the whole rule set. Blank rules are dropped, missing
// ids or priorities are filled in and duplicated ids are renewed.
func (r *KeywordRepository) Replace(ctx context.Context, rules []domain.KeywordRule) ([]domain.KeywordRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write(ctx, sanitizeRules(rules))
}

func (r *KeywordRepository) Add(ctx context.Context, rules ...domain.KeywordRule) ([]domain.KeywordRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.List()
	next := make([]domain.KeywordRule, 0, len(current)+len(rules))
	next = append(next, current...)
	next = append(next, sanitizeRules(rules, current...)...)
	return r.write(ctx, next)
}

func (r *KeywordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.List()
	next := lo.Reject(current, func(rule domain.KeywordRule, _ int) bool {
		return rule.ID == id
	})
	if len(next) == len(current) {
		return errors.ErrNotFound
	}
	_, err := r.write(ctx, next)
	return err
}

func (r *KeywordRepository) write(ctx context.Context, rules []domain.KeywordRule) ([]domain.KeywordRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Storage("write keywords", err)
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keywordsKey, encodeKeywords(rules))
	})
	if err != nil {
		return nil, errors.Storage("write keywords", err)
	}
	r.snapshot.Store(&rules)
	r.log.Debug("Keyword rules replaced", "count", len(rules))
	return rules, nil
}

func (r *KeywordRepository) load() ([]domain.KeywordRule, error) {
	var rules []domain.KeywordRule
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keywordsKey)
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			rules, err = decodeKeywords(val)
			return err
		})
	})
	return rules, err
}

// sanitizeRules drops blank rules and keeps ids unique: a rule reusing an id
// already taken by an earlier rule, or listed in taken, gets a new one.
func sanitizeRules(rules []domain.KeywordRule, taken ...domain.KeywordRule) []domain.KeywordRule {
	seen := make(map[uuid.UUID]struct{}, len(rules)+len(taken))
	for _, rule := range taken {
		seen[rule.ID] = struct{}{}
	}
	out := make([]domain.KeywordRule, 0, len(rules))
	for _, rule := range rules {
		fresh, ok := domain.NewKeywordRule(rule.Text, domain.ParsePriority(string(rule.Priority)))
		if !ok {
			continue
		}
		if _, dup := seen[rule.ID]; rule.ID != uuid.Nil && !dup {
			fresh.ID = rule.ID
		}
		seen[fresh.ID] = struct{}{}
		fresh.Active = rule.Active
		out = append(out, fresh)
	}
	return out
}

func encodeKeywords(rules []domain.KeywordRule) []byte {
	var list recordWriter
	for _, rule := range rules {
		var w recordWriter
		w.string(keywordFieldID, rule.ID.String())
		w.string(keywordFieldText, rule.Text)
		w.bool(keywordFieldActive, rule.Active)
		w.string(keywordFieldPriority, string(rule.Priority))
		list.string(keywordListFieldRule, string(w.bytes()))
	}
	return list.bytes()
}

func decodeKeywords(b []byte) ([]domain.KeywordRule, error) {
	var raws [][]byte
	if err := readRecord(b, func(f field) {
		if f.num == keywordListFieldRule {
			raws = append(raws, f.raw)
		}
	}); err != nil {
		return nil, err
	}
	rules := make([]domain.KeywordRule, 0, len(raws))
	for _, raw := range raws {
		var rule domain.KeywordRule
		var rawID string
		if err := readRecord(raw, func(f field) {
			switch f.num {
			case keywordFieldID:
				rawID = f.str()
			case keywordFieldText:
				rule.Text = f.str()
			case keywordFieldActive:
				rule.Active = f.boolean()
			case keywordFieldPriority:
				rule.Priority = domain.ParsePriority(f.str())
			}
		}); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, err
		}
		rule.ID = id
		rules = append(rules, rule)
	}
	return rules, nil
}
