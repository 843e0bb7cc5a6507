package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/pastpapers/internal/llm"
	"github.com/abhisek/pastpapers/internal/markscheme"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &LLMGenerator{provider: provider, config: cfg}
}

// questionOutput is the raw LLM response before validation.
type questionOutput struct {
	QuestionText string   `json:"question_text"`
	MarkScheme   []string `json:"mark_scheme"`
	TotalMarks   int      `json:"total_marks"`
	Solution     string   `json:"solution"`
}

// Generate produces a single question. A retryable validation failure is
// fed back to the model and the question regenerated, up to
// Config.MaxAttempts times.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*Question, error) {
	ctx = llm.WithDefaultPurpose(ctx, llm.PurposeQuestionGen)

	req := llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)}},
		Schema:      QuestionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	var lastErr error
	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		resp, err := g.provider.Generate(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("LLM generation failed: %w", err)
		}

		q, err := g.parse(resp, input)
		if err == nil {
			err = g.validate(q, input)
		}
		if err == nil {
			return q, nil
		}

		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Retryable {
			return nil, err
		}
		lastErr = err
		log.Debug().
			Int("attempt", attempt).
			Str("validator", verr.Validator).
			Str("criteria", input.Criteria.String()).
			Msg("regenerating rejected question")

		req.Messages = append(req.Messages,
			llm.Message{Role: llm.RoleAssistant, Content: string(resp.Content)},
			llm.Message{Role: llm.RoleUser, Content: retryMessage(verr)},
		)
	}
	return nil, lastErr
}

func (g *LLMGenerator) parse(resp *llm.Response, input GenerateInput) (*Question, error) {
	var raw questionOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	return &Question{
		Text: strings.TrimSpace(raw.QuestionText),
		// Models sometimes pack several points into one entry.
		MarkScheme: markscheme.ParseLines(strings.Join(raw.MarkScheme, "\n")),
		TotalMarks: raw.TotalMarks,
		Solution:   strings.TrimSpace(raw.Solution),
		Difficulty: input.Criteria.Difficulty,
		Criteria:   input.Criteria,
		Model:      resp.Model,
	}, nil
}

func (g *LLMGenerator) validate(q *Question, input GenerateInput) error {
	for _, v := range g.config.Validators {
		if verr := v.Validate(q, input); verr != nil {
			return verr
		}
	}
	return nil
}
