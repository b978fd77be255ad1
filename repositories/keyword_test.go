package repositories

import (
	"context"
	"eyesup/domain"
	"eyesup/errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Keywords_Start_Empty(t *testing.T) {
	req := require.New(t)
	repository, err := NewKeywordRepository(openDB(t), slog.Default())
	req.NoError(err)
	req.Empty(repository.List())
}

func Test_Keywords_Replace_Is_Wholesale_And_Persisted(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := openDB(t)
	repository, err := NewKeywordRepository(db, slog.Default())
	req.NoError(err)

	// Given an initial set
	_, err = repository.Replace(ctx, []domain.KeywordRule{
		{Text: "urgent", Active: true},
		{Text: "pickup", Active: true},
	})
	req.NoError(err)

	// When it is replaced by a smaller set with a blank entry
	saved, err := repository.Replace(ctx, []domain.KeywordRule{
		{Text: "  911 ", Active: true, Priority: domain.PriorityEmergency},
		{Text: "   ", Active: true},
		{Text: "lunch", Active: false},
	})
	req.NoError(err)

	// Then only the new non-blank rules remain, trimmed, with their flags
	req.Len(saved, 2)
	req.Equal("911", saved[0].Text)
	req.Equal(domain.PriorityEmergency, saved[0].Priority)
	req.NotEqual(uuid.Nil, saved[0].ID)
	req.False(saved[1].Active)
	req.Equal(saved, repository.List())

	// And a fresh repository on the same store sees the same rules
	reloaded, err := NewKeywordRepository(db, slog.Default())
	req.NoError(err)
	req.Equal(saved, reloaded.List())
}

func Test_Keywords_Add_And_Delete(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository, err := NewKeywordRepository(openDB(t), slog.Default())
	req.NoError(err)

	added, err := repository.Add(ctx,
		domain.KeywordRule{Text: "urgent", Active: true},
		domain.KeywordRule{Text: "school", Active: true},
	)
	req.NoError(err)
	req.Len(added, 2)

	req.NoError(repository.Delete(ctx, added[0].ID))
	rules := repository.List()
	req.Len(rules, 1)
	req.Equal("school", rules[0].Text)

	err = repository.Delete(ctx, uuid.New())
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_Keywords_Duplicated_Ids_Are_Renewed(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository, err := NewKeywordRepository(openDB(t), slog.Default())
	req.NoError(err)
	id := uuid.New()

	// Given two rules sharing one id
	saved, err := repository.Replace(ctx, []domain.KeywordRule{
		{ID: id, Text: "urgent", Active: true},
		{ID: id, Text: "mom", Active: true},
	})
	req.NoError(err)

	// Then the first keeps it and the second gets a new one
	req.Len(saved, 2)
	req.Equal(id, saved[0].ID)
	req.NotEqual(id, saved[1].ID)
	req.NotEqual(uuid.Nil, saved[1].ID)

	// When a rule is added with an id already in use
	added, err := repository.Add(ctx, domain.KeywordRule{ID: id, Text: "school", Active: true})
	req.NoError(err)
	req.Len(added, 3)
	req.NotEqual(id, added[2].ID)

	// Then deleting by id removes exactly one rule
	req.NoError(repository.Delete(ctx, id))
	rules := repository.List()
	req.Len(rules, 2)
	req.Equal("mom", rules[0].Text)
	req.Equal("school", rules[1].Text)
}
