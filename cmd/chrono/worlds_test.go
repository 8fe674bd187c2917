package main

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/lore-chrono/internal/domain/entities"
	"github.com/ersonp/lore-chrono/internal/domain/flexidate"
	"github.com/ersonp/lore-chrono/internal/infrastructure/config"
)

func createTestWorld(t *testing.T, basePath, name string, entry config.WorldEntry) string {
	t.Helper()
	result, err := newInitHandler().Handle(context.Background(), basePath, name, entry)
	require.NoError(t, err)
	return result.DatabasePath
}

func TestListWorlds(t *testing.T) {
	tmpDir := t.TempDir()
	createTestWorld(t, tmpDir, "rome", config.WorldEntry{Description: "Republic and empire", Present: "0014"})
	createTestWorld(t, tmpDir, "athens", config.WorldEntry{})

	var buf bytes.Buffer
	require.NoError(t, listWorlds(&buf, tmpDir))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Contains(t, string(lines[2]), "athens")
	assert.Contains(t, string(lines[2]), "-")
	assert.Contains(t, string(lines[3]), "rome")
	assert.Contains(t, string(lines[3]), "0014")
	assert.Contains(t, string(lines[3]), "Republic and empire")
}

func TestListWorlds_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, listWorlds(&buf, t.TempDir()))
	assert.Contains(t, buf.String(), "No worlds configured.")
}

func TestDeleteWorld(t *testing.T) {
	tmpDir := t.TempDir()
	createTestWorld(t, tmpDir, "rome", config.WorldEntry{})
	createTestWorld(t, tmpDir, "athens", config.WorldEntry{})

	err := deleteWorld(context.Background(), tmpDir, "rome", false)
	require.NoError(t, err)

	worlds, err := config.LoadWorlds(tmpDir)
	require.NoError(t, err)
	assert.False(t, worlds.Exists("rome"))
	assert.True(t, worlds.Exists("athens"))

	_, err = os.Stat(config.WorldDir(tmpDir, "rome"))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteWorld_WithEventsRequiresForce(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()
	dbPath := createTestWorld(t, tmpDir, "rome", config.WorldEntry{})

	store, err := openStore(dbPath)
	require.NoError(t, err)
	when, err := flexidate.ParseDate("44 BC")
	require.NoError(t, err)
	require.NoError(t, store.SaveEvent(ctx, &entities.Event{
		ID:    "caesar",
		Title: "Death of Caesar",
		Kind:  entities.EventKindDeath,
		When:  when,
	}))
	require.NoError(t, store.Close())

	err = deleteWorld(ctx, tmpDir, "rome", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contains 1 events")

	require.NoError(t, deleteWorld(ctx, tmpDir, "rome", true))

	worlds, err := config.LoadWorlds(tmpDir)
	require.NoError(t, err)
	assert.False(t, worlds.Exists("rome"))
}

func TestDeleteWorld_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	createTestWorld(t, tmpDir, "rome", config.WorldEntry{})

	err := deleteWorld(context.Background(), tmpDir, "carthage", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `world "carthage" not found`)
}
