package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/pastpapers/internal/catalog"
)

var questionColumns = []string{
	"id", "subject", "board", "level", "topic", "difficulty",
	"text", "parts", "mark_scheme", "total_marks", "computed_marks", "marks_mismatch",
	"solution", "model", "content_hash", "times_served", "created_at", "last_served_at",
}

type questionRepo struct {
	s *Store
}

func (r *questionRepo) Insert(ctx context.Context, q *Question) (bool, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	parts, err := encodeLines(q.Parts)
	if err != nil {
		return false, fmt.Errorf("encode parts: %w", err)
	}
	scheme, err := encodeLines(q.MarkScheme)
	if err != nil {
		return false, fmt.Errorf("encode mark scheme: %w", err)
	}

	c := q.Criteria
	query, args := r.s.builder().Insert("questions").
		Columns(questionColumns[:len(questionColumns)-1]...).
		Values(
			q.ID, c.Subject, string(c.Board), string(c.Level), c.Topic, string(c.Difficulty),
			q.Text, parts, scheme, q.TotalMarks, q.ComputedMarks, q.MarksMismatch,
			q.Solution, q.Model, q.ContentHash, q.TimesServed, q.CreatedAt,
		).
		OnConflict(entsql.ConflictColumns("content_hash"), entsql.DoNothing()).
		Query()

	res, err := r.s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *questionRepo) Get(ctx context.Context, id string) (*Question, error) {
	return r.one(ctx, r.selectQuestions().Where(entsql.EQ("id", id)))
}

func (r *questionRepo) ByHash(ctx context.Context, hash string) (*Question, error) {
	return r.one(ctx, r.selectQuestions().Where(entsql.EQ("content_hash", hash)))
}

func (r *questionRepo) LeastServed(ctx context.Context, c catalog.Criteria, excludeSeenBy string) (*Question, error) {
	b := r.s.builder()
	sel := r.selectQuestions().Where(criteriaPredicate(c))
	if excludeSeenBy != "" {
		seen := b.Select("question_id").
			From(b.Table("question_views")).
			Where(entsql.EQ("user_id", excludeSeenBy))
		sel.Where(entsql.NotIn("id", seen))
	}
	sel.OrderBy("times_served", "created_at", "id").Limit(1)
	return r.one(ctx, sel)
}

func (r *questionRepo) MarkServed(ctx context.Context, questionID, userID string, at time.Time) error {
	b := r.s.builder()
	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	query, args := b.Update("questions").
		Add("times_served", 1).
		Set("last_served_at", at).
		Where(entsql.EQ("id", questionID)).
		Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update serve count: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if userID != "" {
		query, args = b.Insert("question_views").
			Columns("user_id", "question_id", "viewed_at").
			Values(userID, questionID, at).
			OnConflict(
				entsql.ConflictColumns("user_id", "question_id"),
				entsql.ResolveWith(func(u *entsql.UpdateSet) { u.SetExcluded("viewed_at") }),
			).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("record view: %w", err)
		}
	}
	return tx.Commit()
}

func (r *questionRepo) Count(ctx context.Context, c catalog.Criteria) (int, error) {
	b := r.s.builder()
	query, args := b.Select(entsql.Count("*")).
		From(b.Table("questions")).
		Where(criteriaPredicate(c)).
		Query()

	var n int
	if err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (r *questionRepo) Inventory(ctx context.Context) ([]InventoryRow, error) {
	b := r.s.builder()
	query, args := b.Select(
		"subject", "board", "level", "topic", "difficulty",
		entsql.As(entsql.Count("*"), "n"),
		entsql.As(entsql.Sum("times_served"), "served"),
	).
		From(b.Table("questions")).
		GroupBy("subject", "board", "level", "topic", "difficulty").
		OrderBy("subject", "level", "topic", "board", "difficulty").
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	var out []InventoryRow
	for rows.Next() {
		var (
			row                      InventoryRow
			board, level, difficulty string
		)
		if err := rows.Scan(&row.Criteria.Subject, &board, &level, &row.Criteria.Topic, &difficulty,
			&row.Questions, &row.TimesServed); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		row.Criteria.Board = catalog.Board(board)
		row.Criteria.Level = catalog.Level(level)
		row.Criteria.Difficulty = catalog.Difficulty(difficulty)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *questionRepo) RecentTexts(ctx context.Context, c catalog.Criteria, limit int) ([]string, error) {
	b := r.s.builder()
	sel := b.Select("text").
		From(b.Table("questions")).
		Where(criteriaPredicate(c)).
		OrderBy(entsql.Desc("created_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent texts: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan text: %w", err)
		}
		out = append(out, text)
	}
	return out, rows.Err()
}

func (r *questionRepo) selectQuestions() *entsql.Selector {
	b := r.s.builder()
	return b.Select(questionColumns...).From(b.Table("questions"))
}

func (r *questionRepo) one(ctx context.Context, sel *entsql.Selector) (*Question, error) {
	query, args := sel.Query()
	q, err := scanQuestion(r.s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query question: %w", err)
	}
	return q, nil
}

func criteriaPredicate(c catalog.Criteria) *entsql.Predicate {
	return entsql.And(
		entsql.EQ("subject", c.Subject),
		entsql.EQ("board", string(c.Board)),
		entsql.EQ("level", string(c.Level)),
		entsql.EQ("topic", c.Topic),
		entsql.EQ("difficulty", string(c.Difficulty)),
	)
}

func scanQuestion(row rowScanner) (*Question, error) {
	var (
		q                        Question
		board, level, difficulty string
		parts, scheme            string
		lastServed               sql.NullTime
	)
	err := row.Scan(
		&q.ID, &q.Criteria.Subject, &board, &level, &q.Criteria.Topic, &difficulty,
		&q.Text, &parts, &scheme, &q.TotalMarks, &q.ComputedMarks, &q.MarksMismatch,
		&q.Solution, &q.Model, &q.ContentHash, &q.TimesServed, &q.CreatedAt, &lastServed,
	)
	if err != nil {
		return nil, err
	}
	q.Criteria.Board = catalog.Board(board)
	q.Criteria.Level = catalog.Level(level)
	q.Criteria.Difficulty = catalog.Difficulty(difficulty)
	if err := json.Unmarshal([]byte(parts), &q.Parts); err != nil {
		return nil, fmt.Errorf("decode parts: %w", err)
	}
	if err := json.Unmarshal([]byte(scheme), &q.MarkScheme); err != nil {
		return nil, fmt.Errorf("decode mark scheme: %w", err)
	}
	if lastServed.Valid {
		t := lastServed.Time
		q.LastServedAt = &t
	}
	return &q, nil
}

func encodeLines(lines []string) (string, error) {
	if lines == nil {
		lines = []string{}
	}
	b, err := json.Marshal(lines)
	return string(b), err
}
