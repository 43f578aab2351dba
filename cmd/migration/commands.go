package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/cricket-stats/internal/config"
	"github.com/riskibarqy/cricket-stats/internal/platform/logging"
)

var defaultMigrationDirs = []string{"./db/migrations", "/app/db/migrations"}

type migrator struct {
	dir    string
	logger *logging.Logger
}

func newRootCommand() *cobra.Command {
	mg := &migrator{logger: logging.NewConsole(logging.LevelInfo)}

	rootCmd := &cobra.Command{
		Use:           "migration",
		Short:         "Manage the documents table schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&mg.dir, "dir", os.Getenv("MIGRATIONS_DIR"), "Migrations directory (defaults to ./db/migrations)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return mg.run(func(m *migrate.Migrate) error { return m.Up() }, "migrations applied")
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n <= 0 {
						return fmt.Errorf("down steps must be a positive integer, got %q", args[0])
					}
					steps = n
				}
				return mg.run(func(m *migrate.Migrate) error { return m.Steps(-steps) }, "rolled back", "steps", steps)
			},
		},
		&cobra.Command{
			Use:   "goto <version>",
			Short: "Migrate up or down to a version",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				target, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid target version %q: %w", args[0], err)
				}
				return mg.run(func(m *migrate.Migrate) error { return m.Migrate(uint(target)) }, "migrated", "version", target)
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the version without running migrations (clears dirty)",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil || version < -1 {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return mg.run(func(m *migrate.Migrate) error { return m.Force(version) }, "forced version", "version", version)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return mg.withMigrate(func(m *migrate.Migrate) error {
					version, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						fmt.Fprintln(cmd.OutOrStdout(), "version: none")
						return nil
					}
					if err != nil {
						return fmt.Errorf("read version: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %t\n", version, dirty)
					return nil
				})
			},
		},
	)

	return rootCmd
}

// run treats ErrNoChange as success.
func (mg *migrator) run(step func(*migrate.Migrate) error, done string, args ...any) error {
	return mg.withMigrate(func(m *migrate.Migrate) error {
		err := step(m)
		if errors.Is(err, migrate.ErrNoChange) {
			mg.logger.Info("no migration changes")
			return nil
		}
		if err != nil {
			return err
		}
		mg.logger.Info(done, args...)
		return nil
	})
}

func (mg *migrator) withMigrate(fn func(*migrate.Migrate) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dir, err := resolveMigrationsDir(mg.dir)
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(dir), cfg.PostgresDSN())
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			mg.logger.Warn("close migrator", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	mg.logger.Debug("migrator ready", "dir", dir, "db_name", cfg.DatabaseName())
	return fn(m)
}

func resolveMigrationsDir(explicit string) (string, error) {
	candidates := defaultMigrationDirs
	if explicit != "" {
		candidates = []string{explicit}
	}

	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("migrations directory not found in %v", candidates)
}
