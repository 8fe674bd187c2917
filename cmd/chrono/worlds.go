package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-chrono/internal/infrastructure/config"
)

func newWorldsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worlds",
		Short: "Manage worlds",
		RunE:  runWorldsList,
	}

	cmd.AddCommand(
		newWorldsListCmd(),
		newWorldsCreateCmd(),
		newWorldsDeleteCmd(),
	)

	return cmd
}

func newWorldsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all worlds",
		RunE:  runWorldsList,
	}
}

func runWorldsList(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}
	return listWorlds(os.Stdout, cwd)
}

func listWorlds(w io.Writer, basePath string) error {
	worlds, err := config.LoadWorlds(basePath)
	if err != nil {
		return fmt.Errorf("loading worlds: %w", err)
	}

	names := worlds.Names()
	if len(names) == 0 {
		fmt.Fprintln(w, "No worlds configured.")
		fmt.Fprintln(w, "Use 'chrono worlds create NAME' to create a world.")
		return nil
	}

	fmt.Fprintf(w, "%-20s %-16s %s\n", "NAME", "PRESENT", "DESCRIPTION")
	fmt.Fprintf(w, "%-20s %-16s %s\n", "----", "-------", "-----------")

	for _, name := range names {
		world := worlds.Worlds[name]
		present := world.Present
		if present == "" {
			present = "-"
		}
		fmt.Fprintf(w, "%-20s %-16s %s\n", name, present, world.Description)
	}

	return nil
}

func newWorldsCreateCmd() *cobra.Command {
	var entry config.WorldEntry

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}

			result, err := newInitHandler().Handle(cmd.Context(), cwd, args[0], entry)
			if err != nil {
				return err
			}

			if result.Initialized {
				fmt.Printf("Initialized chrono in %s\n", config.ConfigDir(cwd))
			}
			fmt.Printf("Created world %q at %s\n", args[0], result.DatabasePath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&entry.Description, "description", "d", "", "World description")
	cmd.Flags().StringVar(&entry.Present, "present", "", "The world's present date")

	return cmd
}

func newWorldsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}

			if err := deleteWorld(cmd.Context(), cwd, args[0], force); err != nil {
				return err
			}

			fmt.Printf("Deleted world %q\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete even if world contains events")

	return cmd
}

// deleteWorld removes a world's entry and its directory. A world that
// still holds events is kept unless force is set.
func deleteWorld(ctx context.Context, basePath, name string, force bool) error {
	worlds, err := config.LoadWorlds(basePath)
	if err != nil {
		return fmt.Errorf("loading worlds: %w", err)
	}
	if !worlds.Exists(name) {
		return fmt.Errorf("world %q not found", name)
	}

	if !force {
		count, err := countWorldEvents(ctx, basePath, name)
		if err == nil && count > 0 {
			return fmt.Errorf("world %q contains %d events, use --force to delete", name, count)
		}
	}

	worlds.Remove(name)
	if err := worlds.Save(basePath); err != nil {
		return err
	}

	if err := os.RemoveAll(config.WorldDir(basePath, name)); err != nil {
		fmt.Printf("Warning: could not remove world directory: %v\n", err)
	}

	return nil
}

func countWorldEvents(ctx context.Context, basePath, name string) (int, error) {
	path := config.SQLitePathForWorld(basePath, name)
	if _, err := os.Stat(path); err != nil {
		return 0, err
	}

	store, err := openStore(path)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	return store.CountEvents(ctx)
}
