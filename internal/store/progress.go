package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/pastpapers/internal/catalog"
)

type progressRepo struct {
	s *Store
}

func (r *progressRepo) Append(ctx context.Context, a *Attempt) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	query, args := r.s.builder().Insert("progress_attempts").
		Columns("id", "user_id", "question_id", "subject", "topic", "level",
			"answer", "marks_awarded", "marks_available", "feedback", "created_at").
		Values(a.ID, a.UserID, a.QuestionID, a.Subject, a.Topic, string(a.Level),
			a.Answer, a.MarksAwarded, a.MarksAvailable, a.Feedback, a.CreatedAt).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (r *progressRepo) TotalsByTopic(ctx context.Context, userID string) ([]TopicTotals, error) {
	b := r.s.builder()
	query, args := b.Select(
		"subject", "topic",
		entsql.As(entsql.Count("*"), "attempts"),
		entsql.As(entsql.Sum("marks_awarded"), "awarded"),
		entsql.As(entsql.Sum("marks_available"), "available"),
	).
		From(b.Table("progress_attempts")).
		Where(entsql.EQ("user_id", userID)).
		GroupBy("subject", "topic").
		OrderBy("subject", "topic").
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query progress totals: %w", err)
	}
	defer rows.Close()

	var out []TopicTotals
	for rows.Next() {
		var t TopicTotals
		if err := rows.Scan(&t.Subject, &t.Topic, &t.Attempts, &t.MarksAwarded, &t.MarksAvailable); err != nil {
			return nil, fmt.Errorf("scan progress totals: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *progressRepo) Recent(ctx context.Context, userID string, limit int) ([]Attempt, error) {
	b := r.s.builder()
	sel := b.Select("id", "user_id", "question_id", "subject", "topic", "level",
		"answer", "marks_awarded", "marks_available", "feedback", "created_at").
		From(b.Table("progress_attempts")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a     Attempt
			level string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuestionID, &a.Subject, &a.Topic, &level,
			&a.Answer, &a.MarksAwarded, &a.MarksAvailable, &a.Feedback, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Level = catalog.Level(level)
		out = append(out, a)
	}
	return out, rows.Err()
}
