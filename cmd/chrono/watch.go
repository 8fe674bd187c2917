package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-chrono/internal/infrastructure/filewatch"
)

type watchFlags struct {
	format   string
	kind     string
	debounce time.Duration
}

func newWatchCmd() *cobra.Command {
	var flags watchFlags

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-import an event file whenever it changes",
		Long: `Imports the file, then watches it and imports it again after every save.
Rows already present are overwritten, so edits to a date or title in the file
replace the stored event. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "File format (json, csv, auto)")
	cmd.Flags().StringVarP(&flags.kind, "kind", "k", "", "Kind for rows without one (default from config)")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", filewatch.DefaultDebounce, "Quiet period before re-importing")

	return cmd
}

func runWatch(cmd *cobra.Command, filePath string, flags watchFlags) error {
	ctx := cmd.Context()
	opts := importFlags{format: flags.format, onConflict: "overwrite", kind: flags.kind}

	return withDeps(func(deps *Deps) error {
		fmt.Printf("Importing %s...\n", filePath)
		if _, err := importFile(ctx, deps, filePath, opts); err != nil {
			return err
		}

		w, err := filewatch.New(filePath, flags.debounce)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()

		fmt.Printf("\nWatching %s (Ctrl-C to stop)\n", w.File)

		for {
			select {
			case <-ctx.Done():
				fmt.Println("\nStopped watching.")
				return nil

			case change := <-w.Changes:
				if change.Kind == filewatch.ChangeRemoved {
					fmt.Printf("\n%s was removed, waiting for it to reappear\n", change.File)
					continue
				}
				fmt.Printf("\n%s changed, re-importing...\n", change.File)
				// A bad save is reported and the watch goes on.
				if _, err := importFile(ctx, deps, filePath, opts); err != nil {
					fmt.Printf("Import failed: %v\n", err)
				}

			case err := <-w.Errors:
				slog.Warn("file watcher error", "file", w.File, "error", err)
			}
		}
	})
}
