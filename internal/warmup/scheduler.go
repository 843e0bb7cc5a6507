package warmup

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the warmer periodically in the background.
type Scheduler struct {
	scheduler *gocron.Scheduler
	warmer    *Warmer
	opts      Options
	every     time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(w *Warmer, every time.Duration, opts Options) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		warmer:    w,
		opts:      opts,
		every:     every,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start schedules the warm-up job. The first run happens one interval
// after Start. Runs never overlap.
func (s *Scheduler) Start() error {
	if s.every <= 0 {
		return fmt.Errorf("invalid warm-up interval %s", s.every)
	}
	_, err := s.scheduler.Every(s.every).WaitForSchedule().SingletonMode().Do(s.run)
	if err != nil {
		return fmt.Errorf("schedule warm-up: %w", err)
	}
	s.scheduler.StartAsync()
	log.Info().Dur("every", s.every).Msg("warm-up scheduled")
	return nil
}

// Stop cancels a run in progress and stops the scheduler.
func (s *Scheduler) Stop() {
	s.cancel()
	s.scheduler.Stop()
}

func (s *Scheduler) run() {
	if _, err := s.warmer.Run(s.ctx, s.opts); err != nil {
		log.Error().Err(err).Msg("scheduled warm-up failed")
	}
}
