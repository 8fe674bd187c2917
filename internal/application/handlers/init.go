package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/lore-chrono/internal/domain/ports"
	"github.com/ersonp/lore-chrono/internal/infrastructure/config"
)

// StoreOpener opens the event store at a database path.
type StoreOpener func(path string) (ports.EventStore, error)

// InitHandler handles project and world initialization.
type InitHandler struct {
	open StoreOpener
}

// NewInitHandler creates a new init handler.
func NewInitHandler(open StoreOpener) *InitHandler {
	return &InitHandler{open: open}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath   string
	DatabasePath string
	Initialized  bool // A new config file was written
}

// Handle writes the default config if needed, registers the world and
// creates its database schema.
func (h *InitHandler) Handle(ctx context.Context, basePath, world string, entry config.WorldEntry) (*InitResult, error) {
	if _, _, err := entry.PresentDate(); err != nil {
		return nil, fmt.Errorf("invalid present date: %w", err)
	}

	result := &InitResult{ConfigPath: config.ConfigFilePath(basePath)}

	if !config.Exists(basePath) {
		if err := config.WriteDefault(basePath); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}
		result.Initialized = true
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	worlds, err := config.LoadWorlds(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading worlds: %w", err)
	}
	if worlds.Exists(world) {
		return nil, fmt.Errorf("world %q already exists", world)
	}

	if err := os.MkdirAll(config.WorldDir(basePath, world), 0755); err != nil {
		return nil, fmt.Errorf("creating world directory: %w", err)
	}

	result.DatabasePath = cfg.DatabasePath(basePath, world)
	store, err := h.open(result.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening event store: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	worlds.Add(world, entry)
	if err := worlds.Save(basePath); err != nil {
		return nil, err
	}

	return result, nil
}
