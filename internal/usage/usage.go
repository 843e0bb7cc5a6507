// Package usage enforces the daily free question quota.
package usage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/pastpapers/internal/store"
)

// ErrQuotaExceeded is returned by Reserve once a user has used up the
// day's allowance.
var ErrQuotaExceeded = errors.New("daily question limit reached")

// Status describes a user's quota for the current UTC day.
type Status struct {
	Day       string    `json:"day"`
	Used      int       `json:"used"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Unlimited bool      `json:"unlimited"`
	ResetsAt  time.Time `json:"resets_at"`
}

// Tracker counts requests per user per UTC day against a daily limit.
// A limit of 0 disables the quota.
type Tracker struct {
	repo  store.UsageRepo
	limit int
	now   func() time.Time
}

func NewTracker(repo store.UsageRepo, dailyLimit int) *Tracker {
	return &Tracker{repo: repo, limit: dailyLimit, now: time.Now}
}

// Reserve takes one request from userID's allowance for today, or returns
// ErrQuotaExceeded. The counter is checked and moved in one statement, so
// concurrent requests cannot overshoot the limit. Call release when the
// request ends without serving a question; it hands the slot back to the
// day it was taken from.
func (t *Tracker) Reserve(ctx context.Context, userID string) (release func(), err error) {
	day := t.day()
	ok, err := t.repo.IncrementBelow(ctx, userID, day, t.limit)
	if err != nil {
		return nil, fmt.Errorf("reserve quota: %w", err)
	}
	if !ok {
		return nil, ErrQuotaExceeded
	}

	var once sync.Once
	release = func() {
		once.Do(func() {
			if err := t.repo.Decrement(context.WithoutCancel(ctx), userID, day); err != nil {
				log.Warn().Err(err).Str("user", userID).Msg("failed to release quota reservation")
			}
		})
	}
	return release, nil
}

// Remaining reports the user's quota for today.
func (t *Tracker) Remaining(ctx context.Context, userID string) (Status, error) {
	now := t.now().UTC()
	day := now.Format(time.DateOnly)
	used, err := t.repo.Get(ctx, userID, day)
	if err != nil {
		return Status{}, fmt.Errorf("read quota: %w", err)
	}

	st := Status{
		Day:       day,
		Used:      used,
		Limit:     t.limit,
		Unlimited: t.limit <= 0,
		ResetsAt:  time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC),
	}
	if !st.Unlimited {
		st.Remaining = max(t.limit-used, 0)
	}
	return st, nil
}

func (t *Tracker) day() string {
	return t.now().UTC().Format(time.DateOnly)
}
