// Package progress records marked answers and summarizes them per topic.
package progress

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/abhisek/pastpapers/internal/catalog"
	"github.com/abhisek/pastpapers/internal/store"
)

// TopicProgress is a user's record on one subject topic.
type TopicProgress struct {
	Subject        string  `json:"subject"`
	Topic          string  `json:"topic"`
	TopicName      string  `json:"topic_name"`
	Attempts       int     `json:"attempts"`
	MarksAwarded   int     `json:"marks_awarded"`
	MarksAvailable int     `json:"marks_available"`
	Percentage     float64 `json:"percentage"`
}

// Summary aggregates all of a user's attempts.
type Summary struct {
	UserID         string          `json:"user_id"`
	Attempts       int             `json:"attempts"`
	MarksAwarded   int             `json:"marks_awarded"`
	MarksAvailable int             `json:"marks_available"`
	Percentage     float64         `json:"percentage"`
	Topics         []TopicProgress `json:"topics"`
}

// Attempt is one recent marked answer.
type Attempt struct {
	QuestionID     string        `json:"question_id"`
	Subject        string        `json:"subject"`
	Topic          string        `json:"topic"`
	Level          catalog.Level `json:"level"`
	MarksAwarded   int           `json:"marks_awarded"`
	MarksAvailable int           `json:"marks_available"`
	Feedback       string        `json:"feedback,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

type Tracker struct {
	repo store.ProgressRepo
}

func NewTracker(repo store.ProgressRepo) *Tracker {
	return &Tracker{repo: repo}
}

// Record stores a marked attempt.
func (t *Tracker) Record(ctx context.Context, a *store.Attempt) error {
	if a.MarksAvailable < 0 || a.MarksAwarded < 0 || a.MarksAwarded > a.MarksAvailable {
		return fmt.Errorf("invalid marks %d/%d", a.MarksAwarded, a.MarksAvailable)
	}
	if err := t.repo.Append(ctx, a); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

// Summary aggregates userID's attempts per subject and topic.
func (t *Tracker) Summary(ctx context.Context, userID string) (*Summary, error) {
	totals, err := t.repo.TotalsByTopic(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("progress summary: %w", err)
	}

	s := &Summary{UserID: userID, Topics: make([]TopicProgress, 0, len(totals))}
	for _, tt := range totals {
		name := catalog.Unslugify(tt.Topic)
		if topic, ok := catalog.TopicBySlug(tt.Subject, tt.Topic); ok {
			name = topic.Name
		}
		s.Topics = append(s.Topics, TopicProgress{
			Subject:        tt.Subject,
			Topic:          tt.Topic,
			TopicName:      name,
			Attempts:       tt.Attempts,
			MarksAwarded:   tt.MarksAwarded,
			MarksAvailable: tt.MarksAvailable,
			Percentage:     percentage(tt.MarksAwarded, tt.MarksAvailable),
		})
		s.Attempts += tt.Attempts
		s.MarksAwarded += tt.MarksAwarded
		s.MarksAvailable += tt.MarksAvailable
	}
	s.Percentage = percentage(s.MarksAwarded, s.MarksAvailable)
	return s, nil
}

// Recent returns up to n of userID's latest attempts, newest first.
func (t *Tracker) Recent(ctx context.Context, userID string, n int) ([]Attempt, error) {
	rows, err := t.repo.Recent(ctx, userID, n)
	if err != nil {
		return nil, fmt.Errorf("recent attempts: %w", err)
	}
	out := make([]Attempt, len(rows))
	for i, r := range rows {
		out[i] = Attempt{
			QuestionID:     r.QuestionID,
			Subject:        r.Subject,
			Topic:          r.Topic,
			Level:          r.Level,
			MarksAwarded:   r.MarksAwarded,
			MarksAvailable: r.MarksAvailable,
			Feedback:       r.Feedback,
			CreatedAt:      r.CreatedAt,
		}
	}
	return out, nil
}

// percentage rounds to one decimal place; zero available marks is 0%.
func percentage(awarded, available int) float64 {
	if available == 0 {
		return 0
	}
	return math.Round(float64(awarded)*1000/float64(available)) / 10
}
