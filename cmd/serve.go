package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/pastpapers/internal/bank"
	"github.com/abhisek/pastpapers/internal/grading"
	"github.com/abhisek/pastpapers/internal/practice"
	"github.com/abhisek/pastpapers/internal/progress"
	"github.com/abhisek/pastpapers/internal/questiongen"
	"github.com/abhisek/pastpapers/internal/server"
	"github.com/abhisek/pastpapers/internal/usage"
	"github.com/abhisek/pastpapers/internal/warmup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides PASTPAPERS_SERVER_ADDR)")
	serveCmd.Flags().Bool("warmup", false, "Schedule periodic bank warm-up (overrides PASTPAPERS_WARMUP_ENABLED)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	provider, err := newProvider(ctx, s.EventRepo())
	if err != nil {
		return err
	}

	b := bank.New(s.QuestionRepo())
	gen := questiongen.New(provider, questiongen.DefaultConfig())
	quota := usage.NewTracker(s.UsageRepo(), cfg.DailyLimit)
	prog := progress.NewTracker(s.ProgressRepo())
	svc := practice.NewService(b, gen, quota, prog,
		grading.NewMarker(provider, grading.DefaultConfig()), practice.DefaultConfig())

	if enabled, _ := cmd.Flags().GetBool("warmup"); enabled || cfg.Warmup.Enabled {
		opts := warmup.DefaultOptions()
		opts.Target = cfg.Warmup.Target
		opts.Concurrency = cfg.Warmup.Concurrency
		opts.Delay = cfg.Warmup.Delay

		sched := warmup.NewScheduler(warmup.New(b, gen), cfg.Warmup.Every, opts)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	addr := cfg.Server.Addr
	if a, _ := cmd.Flags().GetString("addr"); a != "" {
		addr = a
	}

	log.Info().
		Str("llm", cfg.LLM.Provider).
		Str("model", provider.ModelID()).
		Int("daily_limit", cfg.DailyLimit).
		Msg("starting pastpapers")

	srv := server.New(server.Deps{
		Practice: svc,
		Progress: prog,
		Quota:    quota,
		Ping:     s.Ping,
	}, server.Options{
		CORSOrigins:  cfg.Server.CORSOrigins,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})
	return srv.ListenAndServe(ctx, addr)
}
