package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pastpapers/internal/catalog"
	"github.com/abhisek/pastpapers/internal/store"
	"github.com/abhisek/pastpapers/internal/store/storetest"
)

var quadratics = catalog.Criteria{
	Subject:    "maths",
	Board:      catalog.BoardAQA,
	Level:      catalog.LevelGCSE,
	Topic:      "quadratic-equations",
	Difficulty: catalog.DifficultyIntermediate,
}

func newQuestion(hash, text string) *store.Question {
	return &store.Question{
		Criteria:    quadratics,
		Text:        text,
		Parts:       []string{"(a)", "(b)"},
		MarkScheme:  []string{"(a) M1 factorise", "(b) A1 x = 2"},
		TotalMarks:  2,
		Solution:    "x = 2 or x = 3",
		Model:       "mock",
		ContentHash: hash,
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := store.Open("oracle", "x"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestOpen_MigratesSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pastpapers.db")

	s, err := store.Open(store.DriverSQLite, path)
	require.NoError(t, err)
	created, err := s.QuestionRepo().Insert(ctx, newQuestion("h1", "Solve x^2 = 4."))
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, s.Close())

	// Reopening runs the migrator against the existing schema.
	s, err = store.Open(store.DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	for _, table := range store.Tables {
		var name string
		err := s.DB().QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table.Name).Scan(&name)
		require.NoError(t, err, table.Name)
	}

	q, err := s.QuestionRepo().ByHash(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "Solve x^2 = 4.", q.Text)
	assert.False(t, q.MarksMismatch)
	assert.Nil(t, q.LastServedAt)
}

func TestPragmasApplied(t *testing.T) {
	s := storetest.Open(t)

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"},
	}
	for _, tt := range tests {
		var got string
		if err := s.DB().QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestQuestionInsertAndGet(t *testing.T) {
	s := storetest.Open(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	q := newQuestion("h1", "(a) Factorise x^2 - 5x + 6. (b) Solve.")
	created, err := repo.Insert(ctx, q)
	require.NoError(t, err)
	require.True(t, created)
	require.NotEmpty(t, q.ID)

	got, err := repo.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, quadratics, got.Criteria)
	assert.Equal(t, q.Text, got.Text)
	assert.Equal(t, []string{"(a)", "(b)"}, got.Parts)
	assert.Equal(t, q.MarkScheme, got.MarkScheme)
	assert.Equal(t, 2, got.TotalMarks)
	assert.False(t, got.MarksMismatch)
	assert.Nil(t, got.LastServedAt)

	byHash, err := repo.ByHash(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, q.ID, byHash.ID)

	_, err = repo.Get(ctx, "missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestQuestionInsert_DuplicateHash(t *testing.T) {
	s := storetest.Open(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	_, err := repo.Insert(ctx, newQuestion("dup", "first"))
	require.NoError(t, err)

	created, err := repo.Insert(ctx, newQuestion("dup", "second"))
	require.NoError(t, err)
	assert.False(t, created)

	n, err := repo.Count(ctx, quadratics)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLeastServed_SkipsSeen(t *testing.T) {
	s := storetest.Open(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	a := newQuestion("a", "question a")
	a.CreatedAt = time.Now().UTC().Add(-time.Hour)
	b := newQuestion("b", "question b")
	for _, q := range []*store.Question{a, b} {
		_, err := repo.Insert(ctx, q)
		require.NoError(t, err)
	}

	got, err := repo.LeastServed(ctx, quadratics, "alice")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID, "oldest of the unserved questions first")

	require.NoError(t, repo.MarkServed(ctx, a.ID, "alice", time.Now().UTC()))

	got, err = repo.LeastServed(ctx, quadratics, "alice")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	require.NoError(t, repo.MarkServed(ctx, b.ID, "alice", time.Now().UTC()))
	_, err = repo.LeastServed(ctx, quadratics, "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Without the user filter both are candidates.
	got, err = repo.LeastServed(ctx, quadratics, "")
	require.NoError(t, err)
	assert.Equal(t, 1, got.TimesServed)
	assert.NotNil(t, got.LastServedAt)
}

func TestMarkServed_RepeatView(t *testing.T) {
	s := storetest.Open(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	q := newQuestion("r", "repeat")
	_, err := repo.Insert(ctx, q)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.MarkServed(ctx, q.ID, "bob", time.Now().UTC()))
	}
	got, err := repo.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TimesServed)

	assert.ErrorIs(t, repo.MarkServed(ctx, "nope", "bob", time.Now().UTC()), store.ErrNotFound)
}

func TestInventoryAndRecentTexts(t *testing.T) {
	s := storetest.Open(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	other := quadratics
	other.Difficulty = catalog.DifficultyHigher

	old := newQuestion("1", "older")
	old.CreatedAt = time.Now().UTC().Add(-time.Minute)
	for _, q := range []*store.Question{old, newQuestion("2", "newer")} {
		_, err := repo.Insert(ctx, q)
		require.NoError(t, err)
	}
	hard := newQuestion("3", "hard one")
	hard.Criteria = other
	_, err := repo.Insert(ctx, hard)
	require.NoError(t, err)

	inv, err := repo.Inventory(ctx)
	require.NoError(t, err)
	require.Len(t, inv, 2)
	counts := map[catalog.Difficulty]int{}
	for _, row := range inv {
		counts[row.Criteria.Difficulty] = row.Questions
	}
	assert.Equal(t, 2, counts[catalog.DifficultyIntermediate])
	assert.Equal(t, 1, counts[catalog.DifficultyHigher])

	texts, err := repo.RecentTexts(ctx, quadratics, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"newer", "older"}, texts)
}

func TestUsageCounters(t *testing.T) {
	s := storetest.Open(t)
	repo := s.UsageRepo()
	ctx := context.Background()

	n, err := repo.Get(ctx, "u1", "2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for i := 0; i < 3; i++ {
		ok, err := repo.IncrementBelow(ctx, "u1", "2026-01-02", 0)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	n, err = repo.Get(ctx, "u1", "2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.Get(ctx, "u1", "2026-01-03")
	require.NoError(t, err)
	assert.Equal(t, 0, n, "counters are per day")

	require.NoError(t, repo.Decrement(ctx, "u1", "2026-01-02"))
	n, err = repo.Get(ctx, "u1", "2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Never below zero, and a missing row is fine.
	require.NoError(t, repo.Decrement(ctx, "u2", "2026-01-02"))
	n, err = repo.Get(ctx, "u2", "2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestUsageCounters_IncrementBelowLimit(t *testing.T) {
	s := storetest.Open(t)
	repo := s.UsageRepo()
	ctx := context.Background()

	tests := []struct {
		name string
		want bool
	}{
		{"first row is inserted", true},
		{"below limit", true},
		{"at limit", false},
		{"still at limit", false},
	}
	for _, tt := range tests {
		ok, err := repo.IncrementBelow(ctx, "u1", "2026-01-02", 2)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, ok, tt.name)
	}

	n, err := repo.Get(ctx, "u1", "2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "a refused increment leaves the counter alone")
}

func TestProgressAttempts(t *testing.T) {
	s := storetest.Open(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	attempts := []*store.Attempt{
		{UserID: "u", QuestionID: "q1", Subject: "maths", Topic: "integration", Level: catalog.LevelALevel, MarksAwarded: 3, MarksAvailable: 4, CreatedAt: base},
		{UserID: "u", QuestionID: "q2", Subject: "maths", Topic: "integration", Level: catalog.LevelALevel, MarksAwarded: 1, MarksAvailable: 4, CreatedAt: base.Add(time.Minute)},
		{UserID: "u", QuestionID: "q3", Subject: "physics", Topic: "forces", Level: catalog.LevelGCSE, MarksAwarded: 2, MarksAvailable: 2, CreatedAt: base.Add(2 * time.Minute)},
		{UserID: "other", QuestionID: "q1", Subject: "maths", Topic: "integration", Level: catalog.LevelALevel, MarksAwarded: 4, MarksAvailable: 4},
	}
	for _, a := range attempts {
		require.NoError(t, repo.Append(ctx, a))
	}

	totals, err := repo.TotalsByTopic(ctx, "u")
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, store.TopicTotals{Subject: "maths", Topic: "integration", Attempts: 2, MarksAwarded: 4, MarksAvailable: 8}, totals[0])
	assert.Equal(t, "physics", totals[1].Subject)

	recent, err := repo.Recent(ctx, "u", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "q3", recent[0].QuestionID)
	assert.Equal(t, "q2", recent[1].QuestionID)
}

func TestLLMEvents(t *testing.T) {
	s := storetest.Open(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []store.LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "req", ResponseBody: "{}"},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 80, OutputTokens: 0, LatencyMs: 100, Success: false, ErrorKind: "rate_limit", ErrorMessage: "boom"},
		{Provider: "openai", Model: "gpt-4o", Purpose: "answer-marking", InputTokens: 10, OutputTokens: 5, LatencyMs: 60, Success: true},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	list, err := repo.QueryLLMEvents(ctx, store.QueryOpts{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "answer-marking", list[0].Purpose, "newest first")

	filtered, err := repo.QueryLLMEvents(ctx, store.QueryOpts{Purpose: "question-gen"})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	e, err := repo.GetLLMEvent(ctx, list[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "req", e.RequestBody)
	assert.True(t, e.Success)
	assert.Empty(t, e.ErrorKind)

	failed, err := repo.GetLLMEvent(ctx, list[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "rate_limit", failed.ErrorKind)
	assert.Equal(t, "boom", failed.ErrorMessage)

	_, err = repo.GetLLMEvent(ctx, 9999)
	assert.ErrorIs(t, err, store.ErrNotFound)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, "answer-marking", byPurpose[0].Purpose)
	qg := byPurpose[1]
	assert.Equal(t, 2, qg.Calls)
	assert.Equal(t, 1, qg.Failures)
	assert.Equal(t, 180, qg.InputTokens)
	assert.Equal(t, int64(150), qg.AvgLatencyMs)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, "gpt-4o", byModel[0].Model)
}
