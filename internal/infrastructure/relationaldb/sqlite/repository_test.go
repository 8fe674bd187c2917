package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/lore-chrono/internal/domain/entities"
	"github.com/ersonp/lore-chrono/internal/domain/flexidate"
	"github.com/ersonp/lore-chrono/internal/infrastructure/config"
)

// setupTestRepo creates an in-memory SQLite repository for testing.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.EnsureSchema(context.Background())
	require.NoError(t, err)

	return repo
}

func newEvent(t *testing.T, id, when string) entities.Event {
	t.Helper()
	d, err := flexidate.ParseDate(when)
	require.NoError(t, err)
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return entities.Event{
		ID:        id,
		Title:     "Event " + id,
		Kind:      entities.EventKindOther,
		When:      d,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func seed(t *testing.T, repo *Repository, events ...entities.Event) {
	t.Helper()
	require.NoError(t, repo.SaveEvents(context.Background(), events))
}

func eventIDs(events []entities.Event) []string {
	result := make([]string, len(events))
	for i := range events {
		result[i] = events[i].ID
	}
	return result
}

func TestNewRepository(t *testing.T) {
	t.Run("success with memory database", func(t *testing.T) {
		repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
		require.NoError(t, err)
		defer repo.Close()
		assert.NotNil(t, repo)
	})

	t.Run("error with empty path", func(t *testing.T) {
		_, err := NewRepository(config.SQLiteConfig{Path: ""})
		require.Error(t, err)
	})
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo := setupTestRepo(t)

	// Verify tables exist
	tables := []string{"events", "audit_log"}
	for _, table := range tables {
		var count int
		err := repo.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}
}

func TestRepository_EnsureSchema_Idempotent(t *testing.T) {
	repo := setupTestRepo(t)

	// Should not error when called again
	err := repo.EnsureSchema(context.Background())
	require.NoError(t, err)
}

func TestRepository_SaveAndFind(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	ev := newEvent(t, "actium", "-0031-09-02")
	ev.Kind = entities.EventKindBattle
	ev.Context = "Octavian defeats Antony and Cleopatra"
	ev.SourceFile = "rome.csv"
	require.NoError(t, repo.SaveEvent(ctx, &ev))

	found, err := repo.FindEventByID(ctx, "actium")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, ev.Title, found.Title)
	assert.Equal(t, entities.EventKindBattle, found.Kind)
	assert.Equal(t, ev.When, found.When)
	assert.Equal(t, ev.Context, found.Context)
	assert.Equal(t, "rome.csv", found.SourceFile)
	assert.True(t, ev.CreatedAt.Equal(found.CreatedAt))

	t.Run("missing returns nil", func(t *testing.T) {
		found, err := repo.FindEventByID(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("update in place", func(t *testing.T) {
		shifted := ev
		shifted.When = ev.When.AddSpan(flexidate.Years(1))
		require.NoError(t, repo.SaveEvent(ctx, &shifted))

		found, err := repo.FindEventByID(ctx, "actium")
		require.NoError(t, err)
		assert.Equal(t, "-0030-09-02", found.When.String())

		count, err := repo.CountEvents(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestRepository_SaveEvent_DefaultsTimestamps(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	orig := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = orig })

	ev := newEvent(t, "a", "2020")
	ev.CreatedAt = time.Time{}
	ev.UpdatedAt = time.Time{}
	require.NoError(t, repo.SaveEvent(ctx, &ev))

	found, err := repo.FindEventByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, now.Equal(found.CreatedAt))
	assert.True(t, now.Equal(found.UpdatedAt))
}

func TestRepository_RoundTripsEveryDateShape(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	inputs := []string{"2020-02-29", "-0044-03-15", "ca. 1200-05", "41? BC", "0? BC", "41?", "12345", "c. 776 BC"}
	for i, input := range inputs {
		ev := newEvent(t, input, input)
		require.NoError(t, repo.SaveEvent(ctx, &ev), i)

		found, err := repo.FindEventByID(ctx, input)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, ev.When, found.When, input)
	}
}

func TestRepository_ListEvents_Chronological(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	// Inserted out of order on purpose; the expected order follows Date.Compare.
	seed(t, repo,
		newEvent(t, "augustus", "0014-08-19"),
		newEvent(t, "year-44", "-0044"),
		newEvent(t, "ides", "-0044-03-15"),
		newEvent(t, "march-44", "-0044-03"),
		newEvent(t, "circa-44", "ca. -0044"),
		newEvent(t, "decade", "41? BC"),
	)

	events, err := repo.ListEvents(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"decade", "year-44", "circa-44", "march-44", "ides", "augustus"}, eventIDs(events))

	t.Run("pagination", func(t *testing.T) {
		page, err := repo.ListEvents(ctx, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"year-44", "circa-44"}, eventIDs(page))
	})

	t.Run("offset past end", func(t *testing.T) {
		page, err := repo.ListEvents(ctx, 10, 50)
		require.NoError(t, err)
		assert.Empty(t, page)
	})
}

func TestRepository_ListEvents_MatchesCompare(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	inputs := []string{"2020", "2020-01", "2020-01-01", "ca. 2020", "201?", "2019-12-31", "2020-12", "ca. 2020-01-01"}
	var events []entities.Event
	for _, input := range inputs {
		events = append(events, newEvent(t, input, input))
	}
	seed(t, repo, events...)

	listed, err := repo.ListEvents(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, listed, len(inputs))
	for i := 1; i < len(listed); i++ {
		assert.True(t, listed[i-1].When.Compare(listed[i].When) <= 0, "%s before %s", listed[i-1].When, listed[i].When)
	}
}

func TestRepository_ListByKind(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	battle := newEvent(t, "actium", "-0031-09-02")
	battle.Kind = entities.EventKindBattle
	pharsalus := newEvent(t, "pharsalus", "-0048-08-09")
	pharsalus.Kind = entities.EventKindBattle
	seed(t, repo, battle, pharsalus, newEvent(t, "other", "-0040"))

	events, err := repo.ListByKind(ctx, entities.EventKindBattle, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"pharsalus", "actium"}, eventIDs(events))

	limited, err := repo.ListByKind(ctx, entities.EventKindBattle, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"pharsalus"}, eventIDs(limited))
}

func TestRepository_ListOverlapping(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	seed(t, repo,
		newEvent(t, "ides", "-0044-03-15"),
		newEvent(t, "year-31", "-0031"),
		newEvent(t, "augustus", "0014-08-19"),
		newEvent(t, "decade", "41? BC"),
	)

	tests := []struct {
		name     string
		r        string
		expected []string
	}{
		{name: "late republic", r: "-0050/-0030", expected: []string{"ides", "year-31"}},
		{name: "partial year overlaps", r: "-0031-06/-0030", expected: []string{"year-31"}},
		{name: "inside decade", r: "-0415/-0414", expected: []string{"decade"}},
		{name: "single day", r: "-0044-03-15/-0044-03-15", expected: []string{"ides"}},
		{name: "empty", r: "1000/2000", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := flexidate.ParseDateRange(tt.r)
			require.NoError(t, err)

			events, err := repo.ListOverlapping(ctx, r, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, eventIDs(events))
		})
	}
}

func TestRepository_FindEventsByIDs(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	seed(t, repo, newEvent(t, "a", "2020"), newEvent(t, "b", "1990"))

	events, err := repo.FindEventsByIDs(ctx, []string{"a", "b", "missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, eventIDs(events))

	empty, err := repo.FindEventsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepository_DeleteEvent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	seed(t, repo, newEvent(t, "a", "2020"), newEvent(t, "b", "1990"))

	require.NoError(t, repo.DeleteEvent(ctx, "a"))

	count, err := repo.CountEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Deleting a missing event is not an error.
	require.NoError(t, repo.DeleteEvent(ctx, "a"))
}

func TestRepository_SaveEvents_Empty(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, repo.SaveEvents(context.Background(), nil))
}

func TestRepository_AuditLog(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("log action with details", func(t *testing.T) {
		err := repo.LogAction(ctx, entities.ActionShift, "event-1", map[string]any{
			"from": "-0031",
			"to":   "-0030",
		})
		require.NoError(t, err)
	})

	t.Run("log action without event ID", func(t *testing.T) {
		err := repo.LogAction(ctx, entities.ActionImport, "", map[string]any{
			"imported": 3,
		})
		require.NoError(t, err)
	})

	t.Run("log action without details", func(t *testing.T) {
		err := repo.LogAction(ctx, entities.ActionDelete, "event-1", nil)
		require.NoError(t, err)
	})

	t.Run("find by event", func(t *testing.T) {
		entries, err := repo.FindAuditLog(ctx, "event-1")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, entities.ActionShift, entries[0].Action)
		assert.Equal(t, "-0031", entries[0].Details["from"])
		assert.Equal(t, entities.ActionDelete, entries[1].Action)
		assert.Nil(t, entries[1].Details)
	})

	t.Run("find by action", func(t *testing.T) {
		entries, err := repo.FindAuditLogByAction(ctx, entities.ActionImport, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, float64(3), entries[0].Details["imported"])
		assert.Empty(t, entries[0].EventID)
	})

	t.Run("find by action with limit", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			err := repo.LogAction(ctx, entities.ActionRecord, "", nil)
			require.NoError(t, err)
		}

		entries, err := repo.FindAuditLogByAction(ctx, entities.ActionRecord, 3)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})
}

func TestRepository_Path(t *testing.T) {
	repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer repo.Close()

	assert.Equal(t, ":memory:", repo.Path())
}

func TestRepository_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chrono.db")
	ctx := context.Background()

	repo, err := NewRepository(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, repo.EnsureSchema(ctx))
	ev := newEvent(t, "a", "44 BC")
	require.NoError(t, repo.SaveEvent(ctx, &ev))
	require.NoError(t, repo.Close())

	reopened, err := NewRepository(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	defer reopened.Close()

	found, err := reopened.FindEventByID(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, -44, found.When.Year())
}
