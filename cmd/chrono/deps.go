package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ersonp/lore-chrono/internal/application/handlers"
	"github.com/ersonp/lore-chrono/internal/domain/ports"
	"github.com/ersonp/lore-chrono/internal/domain/services"
	"github.com/ersonp/lore-chrono/internal/infrastructure/config"
	"github.com/ersonp/lore-chrono/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config          *config.Config
	World           string
	Calc            *handlers.CalcHandler
	TimelineHandler *handlers.TimelineHandler
	ImportHandler   *handlers.ImportHandler
}

// internalDeps holds all dependencies including low-level components.
type internalDeps struct {
	Deps
	store ports.EventStore
}

// openStore opens and migrates the SQLite event store at path.
func openStore(path string) (ports.EventStore, error) {
	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: path})
	if err != nil {
		return nil, fmt.Errorf("creating sqlite repository: %w", err)
	}
	return repo, nil
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withStore provides direct event store access for commands like export.
func withStore(fn func(*Deps, ports.EventStore) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(&d.Deps, d.store)
	})
}

func withInternalDeps(fn func(*internalDeps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if globalLogLevel == "" {
		level, _ := cfg.Log.SlogLevel() // Validated by Load
		slog.SetDefault(newLogger(os.Stderr, level))
	}

	worlds, err := config.LoadWorlds(cwd)
	if err != nil {
		return fmt.Errorf("loading worlds: %w", err)
	}

	if globalWorld == "" {
		names := worlds.Names()
		if len(names) != 1 {
			return errors.New("world is required (use --world flag)")
		}
		// A single world needs no flag.
		globalWorld = names[0]
	}

	world, err := worlds.Get(globalWorld)
	if err != nil {
		return err
	}

	store, err := openStore(cfg.DatabasePath(cwd, globalWorld))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	logger := slog.Default().With("world", globalWorld)
	timelineService := services.NewTimelineService(store, logger)
	importService := services.NewImportService(store, logger)

	timelineHandler, err := handlers.NewTimelineHandler(timelineService, world.Present)
	if err != nil {
		return err
	}

	deps := &internalDeps{
		Deps: Deps{
			Config:          cfg,
			World:           globalWorld,
			Calc:            handlers.NewCalcHandler(cfg.Display.EraStyle),
			TimelineHandler: timelineHandler,
			ImportHandler:   handlers.NewImportHandler(importService),
		},
		store: store,
	}

	return fn(deps)
}

// loadCalcHandler builds a calc handler. Calc commands work without a
// config file, falling back to defaults.
func loadCalcHandler() *handlers.CalcHandler {
	cfg := config.Default()
	if cwd, err := os.Getwd(); err == nil && config.Exists(cwd) {
		if loaded, err := config.Load(cwd); err == nil {
			cfg = loaded
		} else {
			slog.Warn("ignoring unreadable config", "error", err)
		}
	}
	return handlers.NewCalcHandler(cfg.Display.EraStyle)
}
