package bank

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pastpapers/internal/catalog"
	"github.com/abhisek/pastpapers/internal/markscheme"
	"github.com/abhisek/pastpapers/internal/questiongen"
	"github.com/abhisek/pastpapers/internal/store/storetest"
)

var physics = catalog.Criteria{
	Subject:    "physics",
	Board:      catalog.BoardOCR,
	Level:      catalog.LevelALevel,
	Topic:      "forces-and-motion",
	Difficulty: catalog.DifficultyHigher,
}

func generated(text string) *questiongen.Question {
	scheme := []string{"M1 F = ma", "A1 a = 2 m/s^2"}
	report := markscheme.CheckConsistency(text, scheme, 3)
	return &questiongen.Question{
		Text:       text,
		MarkScheme: scheme,
		TotalMarks: 3,
		Solution:   "a = F/m = 2",
		Criteria:   physics,
		Difficulty: physics.Difficulty,
		Model:      "mock",
		Report:     &report,
	}
}

func newBank(t *testing.T) *Bank {
	t.Helper()
	return New(storetest.Open(t).QuestionRepo())
}

func TestLookup_MissOnEmptyBank(t *testing.T) {
	b := newBank(t)
	_, err := b.Lookup(context.Background(), physics, "u1")
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestSave_StoresReportAndDedups(t *testing.T) {
	b := newBank(t)
	ctx := context.Background()

	q, created, err := b.Save(ctx, generated("A 4 kg mass is pushed with 8 N. Find a."))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, q.ComputedMarks)
	assert.True(t, q.MarksMismatch)

	// Same text up to case and spacing.
	again, created, err := b.Save(ctx, generated("a 4 kg  mass is pushed with 8 N.\nFind a."))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, q.ID, again.ID)

	n, err := b.Inventory(ctx, physics)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLookup_PrefersUnseenThenLeastServed(t *testing.T) {
	b := newBank(t)
	ctx := context.Background()

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	first, _, err := b.Save(ctx, generated("Question one"))
	require.NoError(t, err)
	second, _, err := b.Save(ctx, generated("Question two"))
	require.NoError(t, err)

	got, err := b.Lookup(ctx, physics, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, 1, got.TimesServed)

	got, err = b.Lookup(ctx, physics, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID, "unseen question preferred")

	// u2 takes first, so it has now been served twice.
	_, err = b.Lookup(ctx, physics, "u2")
	require.NoError(t, err)

	got, err = b.Lookup(ctx, physics, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID, "least served overall once everything is seen")
}

func TestContentHash(t *testing.T) {
	h1 := ContentHash(physics, "Find  the Force.")
	assert.Equal(t, h1, ContentHash(physics, "find the force."))
	assert.Len(t, h1, 64)

	other := physics
	other.Board = catalog.BoardAQA
	assert.NotEqual(t, h1, ContentHash(other, "Find the force."))
}

func TestPriorQuestionsAndStats(t *testing.T) {
	b := newBank(t)
	ctx := context.Background()

	for _, text := range []string{"Q1", "Q2", "Q3"} {
		_, _, err := b.Save(ctx, generated(text))
		require.NoError(t, err)
	}
	prior, err := b.PriorQuestions(ctx, physics, 2)
	require.NoError(t, err)
	assert.Len(t, prior, 2)

	stats, err := b.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 3, stats[0].Questions)
}
