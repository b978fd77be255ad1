package notification_test

import (
	"context"
	"eyesup/domain"
	"eyesup/notification"
	"eyesup/repositories"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func Test_Matcher_Startup_With_Large_Rule_Set(t *testing.T) {
	if testing.Short() {
		t.Skip("startup measurement skipped in short mode")
	}
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer func() { _ = db.Close() }()

	ruleCount := 20_000
	repository, err := repositories.NewKeywordRepository(db, slog.New(slog.DiscardHandler))
	req.NoError(err)

	// Given a persisted rule set
	startSeed := time.Now()
	rules := make([]domain.KeywordRule, 0, ruleCount)
	for i := range ruleCount {
		rule, _ := domain.NewKeywordRule(fmt.Sprintf("word%05d", i), domain.PriorityNormal)
		rules = append(rules, rule)
	}
	_, err = repository.Replace(context.Background(), rules)
	req.NoError(err)
	t.Logf("Seeding %d rules: %v", ruleCount, time.Since(startSeed))

	// When the rules are reloaded and compiled
	startLoad := time.Now()
	reloaded, err := repositories.NewKeywordRepository(db, slog.New(slog.DiscardHandler))
	req.NoError(err)
	loaded := reloaded.List()
	t.Logf("Loading from Badger: %v", time.Since(startLoad))

	startBuild := time.Now()
	matcher, err := notification.NewMatcher(loaded)
	req.NoError(err)
	t.Logf("Building automaton: %v", time.Since(startBuild))

	// Then every rule is reachable
	req.Len(loaded, ruleCount)
	req.False(matcher.Empty())
	req.Len(matcher.Match("please read word19999 now"), 1)
}
