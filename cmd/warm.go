package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/pastpapers/internal/bank"
	"github.com/abhisek/pastpapers/internal/catalog"
	"github.com/abhisek/pastpapers/internal/questiongen"
	"github.com/abhisek/pastpapers/internal/warmup"
)

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Fill the question bank up to a target per topic",
	Long: `Warm generates questions for every subject, level, board, topic and
difficulty combination that holds fewer than --target questions. Filters
narrow the combinations. Use --dry-run to see the plan without calling the LLM.`,
	RunE: runWarm,
}

func init() {
	warmCmd.Flags().String("subject", "", "Only warm this subject")
	warmCmd.Flags().String("level", "", "Only warm this level")
	warmCmd.Flags().String("board", "", "Only warm this exam board")
	warmCmd.Flags().String("topic", "", "Only warm this topic")
	warmCmd.Flags().String("difficulty", "", "Only warm this difficulty")
	warmCmd.Flags().Int("target", 0, "Questions wanted per combination (default from config)")
	warmCmd.Flags().Int("concurrency", 0, "Simultaneous generations (default from config)")
	warmCmd.Flags().Duration("delay", -1, "Pause after each LLM call per worker (default from config)")
	warmCmd.Flags().Bool("dry-run", false, "Print the plan only")
}

func warmOptions(cmd *cobra.Command) (warmup.Options, error) {
	opts := warmup.DefaultOptions()
	opts.Target = cfg.Warmup.Target
	opts.Concurrency = cfg.Warmup.Concurrency
	opts.Delay = cfg.Warmup.Delay

	opts.Subject, _ = cmd.Flags().GetString("subject")
	opts.Topic, _ = cmd.Flags().GetString("topic")
	if v, _ := cmd.Flags().GetString("level"); v != "" {
		l, err := catalog.ParseLevel(v)
		if err != nil {
			return opts, err
		}
		opts.Level = l
	}
	if v, _ := cmd.Flags().GetString("board"); v != "" {
		b, err := catalog.ParseBoard(v)
		if err != nil {
			return opts, err
		}
		opts.Board = b
	}
	if v, _ := cmd.Flags().GetString("difficulty"); v != "" {
		d, err := catalog.ParseDifficulty(v)
		if err != nil {
			return opts, err
		}
		opts.Difficulty = d
	}
	if v, _ := cmd.Flags().GetInt("target"); v > 0 {
		opts.Target = v
	}
	if v, _ := cmd.Flags().GetInt("concurrency"); v > 0 {
		opts.Concurrency = v
	}
	if v, _ := cmd.Flags().GetDuration("delay"); v >= 0 {
		opts.Delay = v
	}
	return opts, nil
}

func runWarm(cmd *cobra.Command, args []string) error {
	opts, err := warmOptions(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	b := bank.New(s.QuestionRepo())

	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		tasks, err := warmup.New(b, nil).Plan(ctx, opts)
		if err != nil {
			return err
		}
		total := 0
		for _, t := range tasks {
			fmt.Printf("%-70s  have %3d  need %3d\n", t.Criteria, t.Have, t.Need)
			total += t.Need
		}
		fmt.Println(rule(90))
		fmt.Printf("%d combination(s), %d question(s) to generate\n", len(tasks), total)
		return nil
	}

	provider, err := newProvider(ctx, s.EventRepo())
	if err != nil {
		return err
	}
	w := warmup.New(b, questiongen.New(provider, questiongen.DefaultConfig()))

	report, err := w.Run(ctx, opts)
	if report != nil {
		fmt.Println(headingStyle.Render("Warm-up"))
		fmt.Printf("  combinations  %d\n", report.Buckets)
		fmt.Printf("  planned       %d\n", report.Planned)
		fmt.Printf("  %s generated   %d\n", mark(true), report.Generated)
		fmt.Printf("  %s duplicates  %d\n", dimStyle.Render("="), report.Duplicates)
		fmt.Printf("  %s failures    %d\n", mark(false), report.Failures)
	}
	return err
}
