// Package main provides the entry point for the chrono CLI application.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-chrono/internal/infrastructure/config"
)

var (
	version        = "0.1.0-dev"
	globalWorld    string
	globalLogLevel string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "chrono",
		Short:         "Timelines with fuzzy, partial and BC dates",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(globalLogLevel)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&globalWorld, "world", "w", "", "World to operate on")
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCmd(),
		newWorldsCmd(),
		newParseCmd(),
		newAddCmd(),
		newDiffCmd(),
		newCompareCmd(),
		newSpanCmd(),
		newEventsCmd(),
		newImportCmd(),
		newExportCmd(),
		newWatchCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}

// setupLogging installs the default logger. The flag wins over
// CHRONO_LOG_LEVEL; the config file is consulted later by withDeps.
func setupLogging(level string) error {
	if level == "" {
		level = os.Getenv(config.EnvLogLevel)
	}
	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		return err
	}
	slog.SetDefault(newLogger(os.Stderr, lvl))
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
