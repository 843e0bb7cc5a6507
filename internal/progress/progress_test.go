package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pastpapers/internal/catalog"
	"github.com/abhisek/pastpapers/internal/store"
	"github.com/abhisek/pastpapers/internal/store/storetest"
)

func TestSummary(t *testing.T) {
	tr := NewTracker(storetest.Open(t).ProgressRepo())
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	attempts := []*store.Attempt{
		{UserID: "u", QuestionID: "q1", Subject: "maths", Topic: "integration", Level: catalog.LevelALevel, MarksAwarded: 2, MarksAvailable: 3, CreatedAt: base},
		{UserID: "u", QuestionID: "q2", Subject: "maths", Topic: "integration", Level: catalog.LevelALevel, MarksAwarded: 3, MarksAvailable: 3, CreatedAt: base.Add(time.Minute)},
		{UserID: "u", QuestionID: "q3", Subject: "economics", Topic: "elasticity", Level: catalog.LevelALevel, MarksAwarded: 0, MarksAvailable: 4, Feedback: "define PED", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, a := range attempts {
		require.NoError(t, tr.Record(ctx, a))
	}

	s, err := tr.Summary(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Attempts)
	assert.Equal(t, 5, s.MarksAwarded)
	assert.Equal(t, 10, s.MarksAvailable)
	assert.Equal(t, 50.0, s.Percentage)

	require.Len(t, s.Topics, 2)
	assert.Equal(t, "Elasticity", s.Topics[0].TopicName)
	assert.Equal(t, 0.0, s.Topics[0].Percentage)
	assert.Equal(t, "Integration", s.Topics[1].TopicName)
	assert.Equal(t, 83.3, s.Topics[1].Percentage)

	recent, err := tr.Recent(ctx, "u", 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "q3", recent[0].QuestionID)
	assert.Equal(t, "define PED", recent[0].Feedback)
}

func TestSummary_NoAttempts(t *testing.T) {
	tr := NewTracker(storetest.Open(t).ProgressRepo())
	s, err := tr.Summary(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Attempts)
	assert.Equal(t, 0.0, s.Percentage)
	assert.Empty(t, s.Topics)
}

func TestRecord_RejectsImpossibleMarks(t *testing.T) {
	tr := NewTracker(storetest.Open(t).ProgressRepo())
	err := tr.Record(context.Background(), &store.Attempt{UserID: "u", MarksAwarded: 5, MarksAvailable: 4})
	assert.Error(t, err)
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		awarded, available int
		want               float64
	}{
		{0, 0, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{4, 4, 100},
	}
	for _, tt := range tests {
		if got := percentage(tt.awarded, tt.available); got != tt.want {
			t.Errorf("percentage(%d, %d) = %v, want %v", tt.awarded, tt.available, got, tt.want)
		}
	}
}
