package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ersonp/lore-chrono/internal/domain/flexidate"
)

// maxListedWorlds caps the names shown when a world lookup fails.
const maxListedWorlds = 5

// WorldsConfig holds the worlds of a project. Unlike Config it is
// rewritten by the CLI as worlds are created and deleted.
type WorldsConfig struct {
	Worlds map[string]WorldEntry `yaml:"worlds,omitempty"`
}

// WorldEntry describes one world's timeline.
type WorldEntry struct {
	Description string `yaml:"description,omitempty"`
	// Present is the date treated as "now" in the world, used for relative
	// output such as "120 years ago". Empty means no present is defined.
	Present string `yaml:"present,omitempty"`
}

// PresentDate parses Present. ok is false when no present is set.
func (e WorldEntry) PresentDate() (d flexidate.Date, ok bool, err error) {
	if e.Present == "" {
		return flexidate.Date{}, false, nil
	}
	d, err = flexidate.ParseDate(e.Present)
	if err != nil {
		return flexidate.Date{}, false, err
	}
	return d, true, nil
}

// LoadWorlds reads worlds.yaml. A missing file yields an empty set of
// worlds; a world whose present date does not parse is an error.
func LoadWorlds(basePath string) (*WorldsConfig, error) {
	cfg := &WorldsConfig{Worlds: make(map[string]WorldEntry)}

	data, err := os.ReadFile(WorldsFilePath(basePath))
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("reading worlds file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing worlds file: %w", err)
	}
	if cfg.Worlds == nil {
		cfg.Worlds = make(map[string]WorldEntry)
	}

	for _, name := range cfg.Names() {
		if _, _, err := cfg.Worlds[name].PresentDate(); err != nil {
			return nil, fmt.Errorf("world %q: invalid present date: %w", name, err)
		}
	}

	return cfg, nil
}

// Save writes worlds.yaml, creating the config directory if needed.
func (w *WorldsConfig) Save(basePath string) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshaling worlds config: %w", err)
	}

	if err := os.WriteFile(WorldsFilePath(basePath), data, 0600); err != nil {
		return fmt.Errorf("writing worlds file: %w", err)
	}

	return nil
}

// Add registers or replaces a world.
func (w *WorldsConfig) Add(name string, entry WorldEntry) {
	if w.Worlds == nil {
		w.Worlds = make(map[string]WorldEntry)
	}
	w.Worlds[name] = entry
}

// Remove drops a world. Unknown names are ignored.
func (w *WorldsConfig) Remove(name string) {
	delete(w.Worlds, name)
}

// Get looks a world up by name. The error for an unknown name lists the
// first few known worlds.
func (w *WorldsConfig) Get(name string) (*WorldEntry, error) {
	if len(w.Worlds) == 0 {
		return nil, errors.New("no worlds configured")
	}

	entry, ok := w.Worlds[name]
	if !ok {
		names := w.Names()
		if len(names) > maxListedWorlds {
			names = append(names[:maxListedWorlds], "...")
		}
		return nil, fmt.Errorf("world %q not found (available: %s)", name, strings.Join(names, ", "))
	}

	return &entry, nil
}

// Names returns the world names in sorted order.
func (w *WorldsConfig) Names() []string {
	names := make([]string, 0, len(w.Worlds))
	for name := range w.Worlds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Exists reports whether a world is configured.
func (w *WorldsConfig) Exists(name string) bool {
	_, ok := w.Worlds[name]
	return ok
}

// WorldsExists reports whether worlds.yaml exists under basePath.
func WorldsExists(basePath string) bool {
	_, err := os.Stat(WorldsFilePath(basePath))
	return err == nil
}
