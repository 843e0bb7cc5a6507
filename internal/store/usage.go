package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

type usageRepo struct {
	s *Store
}

func (r *usageRepo) Get(ctx context.Context, userID, day string) (int, error) {
	b := r.s.builder()
	query, args := b.Select("requests").
		From(b.Table("usage_counters")).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("day", day))).
		Query()

	var n int
	err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query usage: %w", err)
	}
	return n, nil
}

func (r *usageRepo) IncrementBelow(ctx context.Context, userID, day string, limit int) (bool, error) {
	opts := []entsql.ConflictOption{
		entsql.ConflictColumns("user_id", "day"),
		entsql.ResolveWith(func(u *entsql.UpdateSet) { u.Add("requests", 1) }),
	}
	if limit > 0 {
		opts = append(opts, entsql.UpdateWhere(entsql.LT("requests", limit)))
	}
	query, args := r.s.builder().Insert("usage_counters").
		Columns("user_id", "day", "requests").
		Values(userID, day, 1).
		OnConflict(opts...).
		Query()

	res, err := r.s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("increment usage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("increment usage: %w", err)
	}
	return n > 0, nil
}

func (r *usageRepo) Decrement(ctx context.Context, userID, day string) error {
	query, args := r.s.builder().Update("usage_counters").
		Add("requests", -1).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("day", day),
			entsql.GT("requests", 0),
		)).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("decrement usage: %w", err)
	}
	return nil
}
