// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for chrono configuration.
	DefaultConfigDir = ".chrono"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultWorldsFile is the default worlds file name.
	DefaultWorldsFile = "worlds.yaml"
	// DefaultDatabaseFile is the SQLite file name inside a world directory.
	DefaultDatabaseFile = "chrono.db"
)

// Era display styles.
const (
	EraStyleSigned = "signed" // -0044
	EraStyleBC     = "bc"     // 44 BC
)

// Environment variables that override the config file.
const (
	EnvDBPath   = "CHRONO_DB_PATH"
	EnvLogLevel = "CHRONO_LOG_LEVEL"
)

var (
	// reNonAlphanumeric matches characters that aren't alphanumeric or underscore.
	reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9_]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// Config holds static configuration (read-only after init).
type Config struct {
	SQLite  SQLiteConfig  `yaml:"sqlite,omitempty"`
	Display DisplayConfig `yaml:"display,omitempty"`
	Import  ImportConfig  `yaml:"import,omitempty"`
	Log     LogConfig     `yaml:"log,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite event store.
type SQLiteConfig struct {
	// Path overrides the per-world database location. When empty the path
	// is computed with SQLitePathForWorld.
	Path string `yaml:"path,omitempty"`
}

// DisplayConfig controls how dates are printed.
type DisplayConfig struct {
	EraStyle string `yaml:"era_style,omitempty"`
}

// ImportConfig holds defaults for the import command.
type ImportConfig struct {
	DefaultKind string `yaml:"default_kind,omitempty"`
	OnConflict  string `yaml:"on_conflict,omitempty"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{EraStyle: EraStyleSigned},
		Import: ImportConfig{
			DefaultKind: "other",
			OnConflict:  "skip",
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Load loads configuration from the .chrono directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'chrono init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv(EnvDBPath); path != "" {
		c.SQLite.Path = path
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
}

// Validate checks option values that are not free text.
func (c *Config) Validate() error {
	switch c.Display.EraStyle {
	case "", EraStyleSigned, EraStyleBC:
	default:
		return fmt.Errorf("display.era_style must be %q or %q, got %q", EraStyleSigned, EraStyleBC, c.Display.EraStyle)
	}
	switch c.Import.OnConflict {
	case "", "skip", "overwrite":
	default:
		return fmt.Errorf("import.on_conflict must be \"skip\" or \"overwrite\", got %q", c.Import.OnConflict)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses the configured level. An empty level means warn.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	return ParseLogLevel(l.Level)
}

// ParseLogLevel parses debug, info, warn or error (case-insensitive).
func ParseLogLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, errors.New("log level must be one of debug, info, warn, error")
	}
	return level, nil
}

// DatabasePath returns the SQLite path for a world, honoring the
// sqlite.path override.
func (c *Config) DatabasePath(basePath, worldName string) string {
	if c.SQLite.Path != "" {
		return c.SQLite.Path
	}
	return SQLitePathForWorld(basePath, worldName)
}

// ConfigDir returns the path to the .chrono config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// WorldsFilePath returns the path to the worlds file.
func WorldsFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultWorldsFile)
}

// SanitizeWorldName converts a world name to a safe directory name.
func SanitizeWorldName(name string) string {
	name = strings.ToLower(name)

	// Replace spaces and hyphens with underscores
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	name = reNonAlphanumeric.ReplaceAllString(name, "")
	name = reMultipleUnderscores.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if name == "" {
		return "default"
	}

	return name
}

// SQLitePathForWorld returns the SQLite database path for a given world.
func SQLitePathForWorld(basePath, worldName string) string {
	return filepath.Join(WorldDir(basePath, worldName), DefaultDatabaseFile)
}

// WorldDir returns the directory path for a given world.
func WorldDir(basePath, worldName string) string {
	return filepath.Join(basePath, DefaultConfigDir, "worlds", SanitizeWorldName(worldName))
}
