package repositories

import (
	"context"
	"eyesup/domain"
	"eyesup/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func draft(from, text string) domain.Message {
	return domain.Message{From: from, Text: text}
}

func Test_Append_Assigns_Identity_And_Keeps_Order(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	// Given three drafts appended in order
	senders := []string{"Alice", "Bob", "Clara"}
	var stored []domain.Message
	for _, sender := range senders {
		message, err := repository.Append(ctx, draft(sender, "on my way"))
		req.NoError(err)
		req.NotEqual(domain.Message{}.ID, message.ID)
		req.False(message.Timestamp.IsZero())
		stored = append(stored, message)
	}

	// When the history is listed
	messages, err := repository.List(ctx)
	req.NoError(err)

	// Then it is returned oldest first with unique IDs
	req.Equal(stored, messages)
	ids := map[string]struct{}{}
	for i, message := range messages {
		ids[message.ID.String()] = struct{}{}
		if i > 0 {
			req.False(message.Timestamp.Before(messages[i-1].Timestamp))
		}
	}
	req.Len(ids, len(senders))
}

func Test_Append_Clamps_Clock_Going_Backwards(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(-time.Minute), base.Add(time.Second)}
	call := 0
	repository.clock = func() time.Time {
		now := ticks[call]
		call++
		return now
	}

	first, err := repository.Append(ctx, draft("Alice", "one"))
	req.NoError(err)
	second, err := repository.Append(ctx, draft("Alice", "two"))
	req.NoError(err)
	third, err := repository.Append(ctx, draft("Alice", "three"))
	req.NoError(err)

	req.Equal(base, first.Timestamp)
	req.Equal(base, second.Timestamp)
	req.Equal(base.Add(time.Second), third.Timestamp)

	messages, err := repository.List(ctx)
	req.NoError(err)
	req.Equal([]string{"one", "two", "three"}, texts(messages))
}

func Test_Append_Round_Trips_All_Fields(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	reply := domain.Message{From: domain.LocalSender, To: "Mom", Text: "ok 👍", Outgoing: true}
	group := domain.Message{From: "Family", Text: "dinner?", IsGroup: true}
	_, err := repository.Append(ctx, reply)
	req.NoError(err)
	_, err = repository.Append(ctx, group)
	req.NoError(err)

	messages, err := repository.List(ctx)
	req.NoError(err)
	req.Len(messages, 2)
	req.Equal("Mom", messages[0].To)
	req.True(messages[0].Outgoing)
	req.Equal("ok 👍", messages[0].Text)
	req.True(messages[1].IsGroup)
	req.False(messages[1].Outgoing)
}

func Test_List_Empty_History(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	messages, err := repository.List(context.Background())
	req.NoError(err)
	req.Empty(messages)
}

func Test_Append_Fails_On_Closed_Store(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	repository := NewMessageRepository(db, slog.Default(), nil)
	req.NoError(db.Close())

	_, err = repository.Append(context.Background(), draft("Alice", "hello"))
	req.Error(err)
	req.ErrorIs(err, errors.ErrStorage)
}

func Test_Page_Walks_Backwards_With_Cursor(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	limit := 2
	repository := NewMessageRepository(openDB(t), slog.Default(), &limit)
	for _, text := range []string{"one", "two", "three"} {
		_, err := repository.Append(ctx, draft("Alice", text))
		req.NoError(err)
	}

	firstPage, cursor, err := repository.Page(ctx, nil)
	req.NoError(err)
	req.Equal([]string{"three", "two"}, texts(firstPage))
	req.NotNil(cursor)

	secondPage, cursor, err := repository.Page(ctx, cursor)
	req.NoError(err)
	req.Equal([]string{"one"}, texts(secondPage))

	lastPage, _, err := repository.Page(ctx, cursor)
	req.NoError(err)
	req.Empty(lastPage)
}

func texts(messages []domain.Message) []string {
	out := make([]string, 0, len(messages))
	for _, message := range messages {
		out = append(out, message.Text)
	}
	return out
}
