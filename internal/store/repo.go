package store

import (
	"context"
	"time"

	"github.com/abhisek/pastpapers/internal/catalog"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact match when non-empty
}

// Question is a stored exam question with its mark scheme.
type Question struct {
	ID            string
	Criteria      catalog.Criteria
	Text          string
	Parts         []string
	MarkScheme    []string
	TotalMarks    int
	ComputedMarks int
	MarksMismatch bool
	Solution      string
	Model         string
	ContentHash   string
	TimesServed   int
	CreatedAt     time.Time
	LastServedAt  *time.Time
}

// InventoryRow counts stored questions for one criteria bucket.
type InventoryRow struct {
	Criteria    catalog.Criteria
	Questions   int
	TimesServed int
}

// QuestionRepo stores and retrieves bank questions.
type QuestionRepo interface {
	// Insert stores q unless a question with the same content hash exists.
	// It reports whether a new row was written.
	Insert(ctx context.Context, q *Question) (bool, error)

	// Get returns the question with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Question, error)

	// ByHash returns the question with the given content hash or ErrNotFound.
	ByHash(ctx context.Context, hash string) (*Question, error)

	// LeastServed returns the least-served question matching c. When
	// excludeSeenBy is non-empty, questions that user has viewed are
	// skipped. ErrNotFound when nothing matches.
	LeastServed(ctx context.Context, c catalog.Criteria, excludeSeenBy string) (*Question, error)

	// MarkServed increments the serve counter and records the user's view.
	MarkServed(ctx context.Context, questionID, userID string, at time.Time) error

	// Count returns the number of questions stored for c.
	Count(ctx context.Context, c catalog.Criteria) (int, error)

	// Inventory groups stored questions by criteria.
	Inventory(ctx context.Context) ([]InventoryRow, error)

	// RecentTexts returns up to limit question texts for c, newest first.
	RecentTexts(ctx context.Context, c catalog.Criteria, limit int) ([]string, error)
}

// UsageRepo keeps per-user per-day request counters.
type UsageRepo interface {
	// Get returns the count for userID on day (YYYY-MM-DD), zero if none.
	Get(ctx context.Context, userID, day string) (int, error)

	// IncrementBelow adds one to the counter in a single statement, but
	// only while it is below limit. It reports whether the counter moved.
	// A limit <= 0 always increments.
	IncrementBelow(ctx context.Context, userID, day string, limit int) (bool, error)

	// Decrement takes one off the counter, never going below zero.
	Decrement(ctx context.Context, userID, day string) error
}

// Attempt is one marked answer.
type Attempt struct {
	ID             string
	UserID         string
	QuestionID     string
	Subject        string
	Topic          string
	Level          catalog.Level
	Answer         string
	MarksAwarded   int
	MarksAvailable int
	Feedback       string
	CreatedAt      time.Time
}

// TopicTotals aggregates attempts for one subject/topic pair.
type TopicTotals struct {
	Subject        string
	Topic          string
	Attempts       int
	MarksAwarded   int
	MarksAvailable int
}

// ProgressRepo records marked attempts.
type ProgressRepo interface {
	Append(ctx context.Context, a *Attempt) error

	// TotalsByTopic aggregates a user's attempts per subject and topic.
	TotalsByTopic(ctx context.Context, userID string) ([]TopicTotals, error)

	// Recent returns the user's latest attempts, newest first.
	Recent(ctx context.Context, userID string, limit int) ([]Attempt, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorKind    string // rate_limit, invalid_response, max_tokens, unavailable, timeout, canceled
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates events under one key (purpose or model).
type LLMUsageStats struct {
	Purpose      string
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns a single event or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsageStats, error)
}
