package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-chrono/internal/application/handlers"
	"github.com/ersonp/lore-chrono/internal/infrastructure/config"
)

// defaultWorldName is the world created by a bare 'chrono init'.
const defaultWorldName = "default"

type initFlags struct {
	description string
	present     string
}

func newInitCmd() *cobra.Command {
	var flags initFlags

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new chrono project",
		Long: `Creates a .chrono directory with default configuration and a first world
with its own SQLite event database. The world is named by --world and
defaults to "default".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "World description")
	cmd.Flags().StringVar(&flags.present, "present", "", "The world's present date, e.g. \"0014 AD\"")

	return cmd
}

func runInit(cmd *cobra.Command, flags initFlags) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.Exists(cwd) {
		return fmt.Errorf("chrono already initialized in %s", cwd)
	}

	world := globalWorld
	if world == "" {
		world = defaultWorldName
	}

	result, err := newInitHandler().Handle(cmd.Context(), cwd, world, config.WorldEntry{
		Description: flags.description,
		Present:     flags.present,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", result.ConfigPath)
	fmt.Printf("Created world %q at %s\n", world, result.DatabasePath)
	fmt.Println("\nchrono initialized successfully!")

	return nil
}

func newInitHandler() *handlers.InitHandler {
	return handlers.NewInitHandler(openStore)
}
