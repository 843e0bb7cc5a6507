// Package warmup fills the question bank ahead of demand.
package warmup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/pastpapers/internal/bank"
	"github.com/abhisek/pastpapers/internal/catalog"
	"github.com/abhisek/pastpapers/internal/llm"
	"github.com/abhisek/pastpapers/internal/questiongen"
)

// Options selects which criteria buckets to fill and how hard to push
// the LLM. Empty filters match everything.
type Options struct {
	Subject    string
	Level      catalog.Level
	Board      catalog.Board
	Topic      string
	Difficulty catalog.Difficulty

	// Target is the number of stored questions wanted per bucket.
	Target int

	// Concurrency bounds simultaneous generations.
	Concurrency int

	// Delay is slept after every LLM call by the worker that made it.
	Delay time.Duration

	// PriorQuestions is how many stored texts are sent to the generator
	// to steer it away from repeats.
	PriorQuestions int
}

func DefaultOptions() Options {
	return Options{
		Target:         5,
		Concurrency:    2,
		Delay:          2 * time.Second,
		PriorQuestions: 8,
	}
}

// Task is one bucket below target.
type Task struct {
	Criteria catalog.Criteria
	Have     int
	Need     int
}

// Report summarizes a warm-up run.
type Report struct {
	Buckets    int `json:"buckets"`
	Planned    int `json:"planned"`
	Generated  int `json:"generated"`
	Duplicates int `json:"duplicates"`
	Failures   int `json:"failures"`
}

// Warmer generates questions for buckets whose inventory is short.
type Warmer struct {
	bank      *bank.Bank
	generator questiongen.Generator
}

func New(b *bank.Bank, gen questiongen.Generator) *Warmer {
	return &Warmer{bank: b, generator: gen}
}

// Plan lists the buckets matching opts that hold fewer than opts.Target
// questions.
func (w *Warmer) Plan(ctx context.Context, opts Options) ([]Task, error) {
	var tasks []Task
	for _, c := range catalog.Combinations(opts.Subject, opts.Level, opts.Board) {
		if opts.Topic != "" && c.Topic != catalog.Slugify(opts.Topic) {
			continue
		}
		if opts.Difficulty != "" && c.Difficulty != opts.Difficulty {
			continue
		}
		have, err := w.bank.Inventory(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("inventory %s: %w", c, err)
		}
		if have < opts.Target {
			tasks = append(tasks, Task{Criteria: c, Have: have, Need: opts.Target - have})
		}
	}
	return tasks, nil
}

// Run generates the shortfall of every planned bucket. Individual
// failures are counted, not returned; the error is non-nil only when
// planning fails or ctx ends.
func (w *Warmer) Run(ctx context.Context, opts Options) (*Report, error) {
	tasks, err := w.Plan(ctx, opts)
	if err != nil {
		return nil, err
	}

	report := &Report{Buckets: len(tasks)}
	for _, t := range tasks {
		report.Planned += t.Need
	}
	if report.Planned == 0 {
		return report, nil
	}

	log.Info().
		Int("buckets", report.Buckets).
		Int("questions", report.Planned).
		Int("concurrency", opts.Concurrency).
		Msg("warm-up started")

	ctx = llm.WithPurpose(ctx, llm.PurposeWarmup)
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))

	for _, t := range tasks {
		for range t.Need {
			c := t.Criteria
			g.Go(func() error {
				created, err := w.generateOne(gctx, c, opts.PriorQuestions)

				mu.Lock()
				switch {
				case err != nil:
					report.Failures++
					log.Warn().Err(err).Str("criteria", c.String()).Msg("warm-up generation failed")
				case created:
					report.Generated++
				default:
					report.Duplicates++
				}
				mu.Unlock()

				return sleep(gctx, opts.Delay)
			})
		}
	}

	err = g.Wait()
	log.Info().
		Int("generated", report.Generated).
		Int("duplicates", report.Duplicates).
		Int("failures", report.Failures).
		Msg("warm-up finished")
	return report, err
}

func (w *Warmer) generateOne(ctx context.Context, c catalog.Criteria, priorN int) (bool, error) {
	prior, err := w.bank.PriorQuestions(ctx, c, priorN)
	if err != nil {
		return false, err
	}
	q, err := w.generator.Generate(ctx, questiongen.GenerateInput{Criteria: c, PriorQuestions: prior})
	if err != nil {
		return false, err
	}
	_, created, err := w.bank.Save(ctx, q)
	return created, err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
