// Package bank caches generated questions so they can be served again
// without another LLM call.
package bank

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/pastpapers/internal/catalog"
	"github.com/abhisek/pastpapers/internal/questiongen"
	"github.com/abhisek/pastpapers/internal/store"
)

// ErrMiss is returned by Lookup when no stored question matches.
var ErrMiss = errors.New("no question in bank")

// Bank is the question bank over a QuestionRepo.
type Bank struct {
	repo store.QuestionRepo
	now  func() time.Time
}

func New(repo store.QuestionRepo) *Bank {
	return &Bank{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Lookup finds a stored question for c, preferring one userID has not
// seen and, among those, the least served. When the user has seen every
// match the least-served match overall is returned. The question is
// marked served to userID before it is returned.
func (b *Bank) Lookup(ctx context.Context, c catalog.Criteria, userID string) (*store.Question, error) {
	q, err := b.repo.LeastServed(ctx, c, userID)
	if errors.Is(err, store.ErrNotFound) && userID != "" {
		q, err = b.repo.LeastServed(ctx, c, "")
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("bank lookup: %w", err)
	}

	if err := b.Serve(ctx, q, userID); err != nil {
		return nil, err
	}
	return q, nil
}

// Serve records that q was handed to userID.
func (b *Bank) Serve(ctx context.Context, q *store.Question, userID string) error {
	at := b.now()
	if err := b.repo.MarkServed(ctx, q.ID, userID, at); err != nil {
		return fmt.Errorf("mark served: %w", err)
	}
	q.TimesServed++
	q.LastServedAt = &at
	return nil
}

// Save stores a generated question. A question with the same criteria and
// normalized text is stored once; saving it again returns the existing
// record with created == false.
func (b *Bank) Save(ctx context.Context, gq *questiongen.Question) (*store.Question, bool, error) {
	q := &store.Question{
		Criteria:    gq.Criteria,
		Text:        gq.Text,
		Parts:       gq.Parts,
		MarkScheme:  gq.MarkScheme,
		TotalMarks:  gq.TotalMarks,
		Solution:    gq.Solution,
		Model:       gq.Model,
		ContentHash: ContentHash(gq.Criteria, gq.Text),
		CreatedAt:   b.now(),
	}
	if gq.Report != nil {
		q.ComputedMarks = gq.Report.ComputedTotal
		q.MarksMismatch = gq.Report.TotalMismatch
	}

	created, err := b.repo.Insert(ctx, q)
	if err != nil {
		return nil, false, fmt.Errorf("save question: %w", err)
	}
	if created {
		return q, true, nil
	}

	existing, err := b.repo.ByHash(ctx, q.ContentHash)
	if err != nil {
		return nil, false, fmt.Errorf("load duplicate question: %w", err)
	}
	return existing, false, nil
}

// Inventory returns how many questions are stored for c.
func (b *Bank) Inventory(ctx context.Context, c catalog.Criteria) (int, error) {
	return b.repo.Count(ctx, c)
}

// Stats lists stored question counts for every criteria bucket.
func (b *Bank) Stats(ctx context.Context) ([]store.InventoryRow, error) {
	return b.repo.Inventory(ctx)
}

// PriorQuestions returns the texts of the newest n questions stored for c.
func (b *Bank) PriorQuestions(ctx context.Context, c catalog.Criteria, n int) ([]string, error) {
	return b.repo.RecentTexts(ctx, c, n)
}

// Get returns a stored question by ID.
func (b *Bank) Get(ctx context.Context, id string) (*store.Question, error) {
	return b.repo.Get(ctx, id)
}

// ContentHash identifies a question by its criteria and text, ignoring
// case and whitespace differences.
func ContentHash(c catalog.Criteria, text string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))
	sum := sha256.Sum256([]byte(c.String() + "\n" + normalized))
	return hex.EncodeToString(sum[:])
}
