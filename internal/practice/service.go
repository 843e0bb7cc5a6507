// Package practice serves practice questions: from the bank when it can,
// from the generator when it must.
package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/pastpapers/internal/bank"
	"github.com/abhisek/pastpapers/internal/catalog"
	"github.com/abhisek/pastpapers/internal/grading"
	"github.com/abhisek/pastpapers/internal/progress"
	"github.com/abhisek/pastpapers/internal/questiongen"
	"github.com/abhisek/pastpapers/internal/store"
	"github.com/abhisek/pastpapers/internal/usage"
)

// Sources reported on a served question.
const (
	SourceBank      = "bank"
	SourceGenerated = "generated"
)

var (
	// ErrInvalidRequest wraps criteria or answers the service refuses.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrGenerationFailed is returned when the bank missed and the
	// generator could not produce a valid question.
	ErrGenerationFailed = errors.New("question generation failed")
)

// Marker awards marks for an answer.
type Marker interface {
	Mark(ctx context.Context, q *store.Question, answer string) (*grading.Result, error)
}

// Question is a served question as returned to clients.
type Question struct {
	ID            string             `json:"id"`
	Subject       string             `json:"subject"`
	Board         catalog.Board      `json:"board"`
	Level         catalog.Level      `json:"level"`
	Topic         string             `json:"topic"`
	TopicName     string             `json:"topic_name"`
	Difficulty    catalog.Difficulty `json:"difficulty"`
	Text          string             `json:"question"`
	Parts         []string           `json:"parts,omitempty"`
	MarkScheme    []string           `json:"mark_scheme"`
	TotalMarks    int                `json:"total_marks"`
	Solution      string             `json:"solution"`
	MarksMismatch bool               `json:"marks_mismatch,omitempty"`
	Source        string             `json:"source"`
}

// Marking is the result of marking one answer.
type Marking struct {
	QuestionID     string   `json:"question_id"`
	MarksAwarded   int      `json:"marks_awarded"`
	MarksAvailable int      `json:"marks_available"`
	PointsAwarded  []string `json:"points_awarded"`
	Feedback       string   `json:"feedback"`
}

// Config tunes the service.
type Config struct {
	// PriorQuestions is how many stored question texts are shown to the
	// generator to avoid repeats.
	PriorQuestions int

	// MaxAnswerLen rejects longer answers before they reach the marker.
	MaxAnswerLen int
}

func DefaultConfig() Config {
	return Config{PriorQuestions: 8, MaxAnswerLen: 8000}
}

// Service implements the question and marking flows.
type Service struct {
	bank      *bank.Bank
	generator questiongen.Generator
	quota     *usage.Tracker
	progress  *progress.Tracker
	marker    Marker
	cfg       Config
}

func NewService(b *bank.Bank, gen questiongen.Generator, quota *usage.Tracker,
	prog *progress.Tracker, marker Marker, cfg Config) *Service {
	return &Service{
		bank:      b,
		generator: gen,
		quota:     quota,
		progress:  prog,
		marker:    marker,
		cfg:       cfg,
	}
}

// Request returns a question matching c for userID. A stored question the
// user has not seen is preferred; otherwise one is generated and banked.
// The request counts against the user's daily quota only when a question
// is returned.
func (s *Service) Request(ctx context.Context, userID string, c catalog.Criteria) (*Question, error) {
	c, err := catalog.Normalize(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	release, err := s.quota.Reserve(ctx, userID)
	if err != nil {
		return nil, err
	}

	source := SourceBank
	q, err := s.bank.Lookup(ctx, c, userID)
	if errors.Is(err, bank.ErrMiss) {
		source = SourceGenerated
		q, err = s.generate(ctx, c, userID)
	}
	if err != nil {
		release()
		return nil, err
	}

	log.Info().
		Str("user", userID).
		Str("criteria", c.String()).
		Str("question", q.ID).
		Str("source", source).
		Msg("question served")
	return newQuestion(q, source), nil
}

func (s *Service) generate(ctx context.Context, c catalog.Criteria, userID string) (*store.Question, error) {
	prior, err := s.bank.PriorQuestions(ctx, c, s.cfg.PriorQuestions)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	gq, err := s.generator.Generate(ctx, questiongen.GenerateInput{Criteria: c, PriorQuestions: prior})
	if err != nil {
		log.Error().Err(err).Str("criteria", c.String()).Msg("question generation failed")
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	q, created, err := s.bank.Save(ctx, gq)
	if err != nil {
		return nil, err
	}
	if !created {
		log.Warn().Str("question", q.ID).Msg("generated question duplicates a stored one")
	}
	log.Debug().Dur("took", time.Since(start)).Str("model", gq.Model).Msg("question generated")

	if err := s.bank.Serve(ctx, q, userID); err != nil {
		return nil, err
	}
	return q, nil
}

// Question returns a stored question without serving it.
func (s *Service) Question(ctx context.Context, id string) (*Question, error) {
	q, err := s.bank.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return newQuestion(q, SourceBank), nil
}

// Mark marks answer against the stored question and records the attempt
// in userID's progress.
func (s *Service) Mark(ctx context.Context, userID, questionID, answer string) (*Marking, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, fmt.Errorf("%w: answer is empty", ErrInvalidRequest)
	}
	if s.cfg.MaxAnswerLen > 0 && utf8.RuneCountInString(answer) > s.cfg.MaxAnswerLen {
		return nil, fmt.Errorf("%w: answer exceeds %d characters", ErrInvalidRequest, s.cfg.MaxAnswerLen)
	}

	q, err := s.bank.Get(ctx, questionID)
	if err != nil {
		return nil, err
	}

	res, err := s.marker.Mark(ctx, q, answer)
	if err != nil {
		return nil, fmt.Errorf("mark answer: %w", err)
	}

	err = s.progress.Record(ctx, &store.Attempt{
		UserID:         userID,
		QuestionID:     q.ID,
		Subject:        q.Criteria.Subject,
		Topic:          q.Criteria.Topic,
		Level:          q.Criteria.Level,
		Answer:         answer,
		MarksAwarded:   res.MarksAwarded,
		MarksAvailable: res.MarksAvailable,
		Feedback:       res.Feedback,
	})
	if err != nil {
		return nil, err
	}

	return &Marking{
		QuestionID:     q.ID,
		MarksAwarded:   res.MarksAwarded,
		MarksAvailable: res.MarksAvailable,
		PointsAwarded:  res.PointsAwarded,
		Feedback:       res.Feedback,
	}, nil
}

func newQuestion(q *store.Question, source string) *Question {
	name := catalog.Unslugify(q.Criteria.Topic)
	if t, ok := catalog.TopicBySlug(q.Criteria.Subject, q.Criteria.Topic); ok {
		name = t.Name
	}
	return &Question{
		ID:            q.ID,
		Subject:       q.Criteria.Subject,
		Board:         q.Criteria.Board,
		Level:         q.Criteria.Level,
		Topic:         q.Criteria.Topic,
		TopicName:     name,
		Difficulty:    q.Criteria.Difficulty,
		Text:          q.Text,
		Parts:         q.Parts,
		MarkScheme:    q.MarkScheme,
		TotalMarks:    q.TotalMarks,
		Solution:      q.Solution,
		MarksMismatch: q.MarksMismatch,
		Source:        source,
	}
}
