package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/pastpapers/internal/config"
	"github.com/abhisek/pastpapers/internal/llm"
	"github.com/abhisek/pastpapers/internal/logging"
	"github.com/abhisek/pastpapers/internal/store"
)

// cfg is loaded once per invocation by the root pre-run hook.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pastpapers",
	Short: "Exam-style GCSE and A-Level practice questions",
	Long: `Past Papers generates exam-style practice questions with mark schemes,
banks them for reuse and marks answers against the scheme.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			c.Log.Level = lvl
		}
		if err := logging.Setup(os.Stderr, c.Log.Level, c.Log.Format); err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Database DSN or SQLite file path (overrides PASTPAPERS_DB_DSN)")
	rootCmd.PersistentFlags().String("db-driver", "", "Database driver: sqlite or postgres (overrides PASTPAPERS_DB_DRIVER)")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (yaml, toml or json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(warmCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// openStore opens the database named by --db and --db-driver, falling back
// to the configured DSN and then the default SQLite path.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	driver := cfg.DB.Driver
	if d, _ := cmd.Flags().GetString("db-driver"); d != "" {
		driver = d
	}

	dsn := cfg.DB.DSN
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		dsn = p
	}
	if dsn == "" {
		if driver != "" && driver != store.DriverSQLite {
			return nil, fmt.Errorf("a DSN is required for the %s driver", driver)
		}
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		dsn = p
	} else if driver == "" || driver == store.DriverSQLite {
		if err := store.EnsureDir(dsn); err != nil {
			return nil, err
		}
	}

	s, err := store.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newProvider builds the configured LLM provider. Requests are logged to
// sink when it is non-nil.
func newProvider(ctx context.Context, sink llm.EventSink) (llm.Provider, error) {
	if err := cfg.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	p, err := llm.NewProvider(ctx, cfg.LLM, sink)
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	return p, nil
}
