package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-chrono/internal/application/handlers"
)

type importFlags struct {
	format     string
	dryRun     bool
	onConflict string
	kind       string
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import events from JSON or CSV",
		Long: `Imports events from a structured file. Each row needs a title and a when
column; kind, context, source_file and id are optional. Dates use the same
forms as 'chrono parse'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "File format (json, csv, auto)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")
	cmd.Flags().StringVar(&flags.onConflict, "on-conflict", "", "Conflict handling (skip, overwrite; default from config)")
	cmd.Flags().StringVarP(&flags.kind, "kind", "k", "", "Kind for rows without one (default from config)")

	return cmd
}

func runImport(cmd *cobra.Command, filePath string, flags importFlags) error {
	if flags.onConflict != "" && flags.onConflict != "skip" && flags.onConflict != "overwrite" {
		return fmt.Errorf("invalid --on-conflict value %q (valid: skip, overwrite)", flags.onConflict)
	}

	ctx := cmd.Context()

	return withDeps(func(deps *Deps) error {
		fmt.Printf("Importing %s...\n", filePath)
		_, err := importFile(ctx, deps, filePath, flags)
		return err
	})
}

// importFile runs one import and prints its errors and summary. Empty
// conflict and kind flags fall back to the config file.
func importFile(ctx context.Context, deps *Deps, filePath string, flags importFlags) (*handlers.ImportResult, error) {
	opts := handlers.ImportOptions{
		Format:      flags.format,
		DryRun:      flags.dryRun,
		OnConflict:  flags.onConflict,
		DefaultKind: flags.kind,
	}
	if opts.OnConflict == "" {
		opts.OnConflict = deps.Config.Import.OnConflict
	}
	if opts.DefaultKind == "" {
		opts.DefaultKind = deps.Config.Import.DefaultKind
	}

	result, err := deps.ImportHandler.Handle(ctx, filePath, opts)
	if err != nil {
		return nil, fmt.Errorf("importing file: %w", err)
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\nValidation errors (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  %s\n", e.Error())
		}
	}

	fmt.Println()
	if flags.dryRun {
		fmt.Printf("Dry run: %d events would be imported", result.Imported)
	} else {
		fmt.Printf("Imported: %d events", result.Imported)
	}
	if result.Skipped > 0 {
		fmt.Printf(", %d skipped (already exist)", result.Skipped)
	}
	if len(result.Errors) > 0 {
		fmt.Printf(", %d errors", len(result.Errors))
	}
	fmt.Println()

	return result, nil
}
