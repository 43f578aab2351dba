package main

import (
	"context"
	"fmt"
	"io"
	"os"

	sonic "github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/cricket-stats/internal/app"
	"github.com/riskibarqy/cricket-stats/internal/config"
	"github.com/riskibarqy/cricket-stats/internal/platform/logging"
)

type rootOptions struct {
	out      io.Writer
	seedFile string
	jsonOut  bool
	logLevel string
	backend  string
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &rootOptions{out: out}

	rootCmd := &cobra.Command{
		Use:   "statsctl",
		Short: "Recompute and inspect cricket career and team aggregates",
		Long: `statsctl folds match history into player careers and team records.

Commands:
  recompute  Rebuild and persist aggregates (player, team or all)
  show       Print a stored or freshly folded aggregate
  classify   Parse scorecard dismissal strings`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.seedFile, "seed", "", "Seed file loaded into the store before running (overrides STORE_SEED_FILE)")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Print JSON instead of tables")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.backend, "store", "", "Store backend (memory, postgres); defaults to STORE_BACKEND")

	rootCmd.AddCommand(newRecomputeCommand(opts))
	rootCmd.AddCommand(newShowCommand(opts))
	rootCmd.AddCommand(newClassifyCommand(opts))

	return rootCmd
}

// loadApp wires the services with recomputes always run inline, since there
// is no server here to receive queued jobs.
func (o *rootOptions) loadApp(ctx context.Context) (*app.App, error) {
	if o.backend != "" {
		if err := os.Setenv("STORE_BACKEND", o.backend); err != nil {
			return nil, fmt.Errorf("set store backend: %w", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewConsole(level)
	logging.SetDefault(logger)

	return app.New(ctx, cfg, logger, app.Options{SeedFile: o.seedFile, DisableQueue: true})
}

func (o *rootOptions) printJSON(v any) error {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(o.out, string(raw))
	return err
}
