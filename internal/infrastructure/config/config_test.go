package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeWorldName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple lowercase",
			input:    "myworld",
			expected: "myworld",
		},
		{
			name:     "uppercase converted",
			input:    "MyWorld",
			expected: "myworld",
		},
		{
			name:     "spaces to underscores",
			input:    "my world",
			expected: "my_world",
		},
		{
			name:     "hyphens to underscores",
			input:    "my-world",
			expected: "my_world",
		},
		{
			name:     "special characters removed",
			input:    "my@world!",
			expected: "myworld",
		},
		{
			name:     "consecutive underscores collapsed",
			input:    "my--world",
			expected: "my_world",
		},
		{
			name:     "leading trailing underscores trimmed",
			input:    "-my-world-",
			expected: "my_world",
		},
		{
			name:     "empty string returns default",
			input:    "",
			expected: "default",
		},
		{
			name:     "only special chars returns default",
			input:    "!!!",
			expected: "default",
		},
		{
			name:     "numbers preserved",
			input:    "world123",
			expected: "world123",
		},
		{
			name:     "complex mixed input",
			input:    "Iron-Throne (Book 1)",
			expected: "iron_throne_book_1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeWorldName(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSQLitePathForWorld(t *testing.T) {
	tests := []struct {
		name      string
		worldName string
		expected  string
	}{
		{
			name:      "simple world",
			worldName: "rome",
			expected:  "/base/.chrono/worlds/rome/chrono.db",
		},
		{
			name:      "world with spaces",
			worldName: "Middle Earth",
			expected:  "/base/.chrono/worlds/middle_earth/chrono.db",
		},
		{
			name:      "empty world uses default",
			worldName: "",
			expected:  "/base/.chrono/worlds/default/chrono.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SQLitePathForWorld("/base", tt.worldName)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, EraStyleSigned, cfg.Display.EraStyle)
	assert.Equal(t, "other", cfg.Import.DefaultKind)
	assert.Equal(t, "skip", cfg.Import.OnConflict)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.SQLite.Path)
	assert.NoError(t, cfg.Validate())
}

func TestConfigDir(t *testing.T) {
	result := ConfigDir("/home/user/project")
	assert.Equal(t, "/home/user/project/.chrono", result)
}

func TestConfigFilePath(t *testing.T) {
	result := ConfigFilePath("/home/user/project")
	assert.Equal(t, "/home/user/project/.chrono/config.yaml", result)
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chrono init")
	})

	t.Run("default file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, WriteDefault(dir))

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "display:\n  era_style: bc\n")

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, EraStyleBC, cfg.Display.EraStyle)
		assert.Equal(t, "skip", cfg.Import.OnConflict)
	})

	t.Run("invalid era style", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "display:\n  era_style: roman\n")

		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "era_style")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "display: [")

		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing config file")
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))
	t.Setenv(EnvDBPath, "/tmp/override.db")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/override.db", cfg.SQLite.Path)
	assert.Equal(t, "/tmp/override.db", cfg.DatabasePath(dir, "rome"))
	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestDatabasePath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, SQLitePathForWorld("/base", "rome"), cfg.DatabasePath("/base", "rome"))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{input: "", expected: slog.LevelWarn},
		{input: "debug", expected: slog.LevelDebug},
		{input: "INFO", expected: slog.LevelInfo},
		{input: " error ", expected: slog.LevelError},
		{input: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestWriteDefault_AlreadyExists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))
	assert.True(t, Exists(dir))

	err := WriteDefault(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Display.EraStyle = EraStyleBC

	require.NoError(t, Write(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
	require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte(content), 0644))
}
