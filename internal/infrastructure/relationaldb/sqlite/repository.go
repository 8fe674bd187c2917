// Package sqlite provides a SQLite implementation of the EventStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/lore-chrono/internal/domain/entities"
	"github.com/ersonp/lore-chrono/internal/domain/flexidate"
	"github.com/ersonp/lore-chrono/internal/infrastructure/config"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// eventColumns is the column list shared by every event query.
const eventColumns = `id, title, kind, when_text, context, source_file, created_at, updated_at`

// chronological orders rows the way flexidate.Date.Compare orders dates,
// with the ID as a final tie-breaker.
const chronological = `ORDER BY earliest_day, latest_day, precision, uncertainty, id`

// Repository implements ports.EventStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if cfg.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []struct {
		stmt string
		what string
	}{
		{"PRAGMA foreign_keys = ON", "enabling foreign keys"},
		{"PRAGMA journal_mode = WAL", "enabling WAL mode"},
		// Avoid "database is locked" while a watcher and a CLI share the file
		{"PRAGMA busy_timeout = 5000", "setting busy timeout"},
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p.what, err)
		}
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Timeline events. when_text is the canonical date; the remaining date
	-- columns are derived from it so that SQL can order and filter.
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		kind TEXT NOT NULL,
		when_text TEXT NOT NULL,
		earliest_day INTEGER NOT NULL,
		latest_day INTEGER NOT NULL,
		precision INTEGER NOT NULL,
		uncertainty INTEGER NOT NULL,
		context TEXT,
		source_file TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_chrono ON events(earliest_day, latest_day);
	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);

	-- Audit log (tracks all actions)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		event_id TEXT,
		details TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_event ON audit_log(event_id);
	CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const upsertEvent = `
	INSERT INTO events (id, title, kind, when_text, earliest_day, latest_day, precision, uncertainty,
		context, source_file, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		kind = excluded.kind,
		when_text = excluded.when_text,
		earliest_day = excluded.earliest_day,
		latest_day = excluded.latest_day,
		precision = excluded.precision,
		uncertainty = excluded.uncertainty,
		context = excluded.context,
		source_file = excluded.source_file,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at
`

func saveEvent(ctx context.Context, db execer, event *entities.Event) error {
	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = timeNow()
	}
	updatedAt := event.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	earliest, latest := event.When.DayKeys()
	_, err := db.ExecContext(ctx, upsertEvent,
		event.ID,
		event.Title,
		string(event.Kind),
		event.When,
		earliest,
		latest,
		int(event.When.Precision()),
		int(event.When.Uncertainty()),
		event.Context,
		event.SourceFile,
		createdAt,
		updatedAt,
	)
	return err
}

// SaveEvent saves or updates an event.
func (r *Repository) SaveEvent(ctx context.Context, event *entities.Event) error {
	if err := saveEvent(ctx, r.db, event); err != nil {
		return fmt.Errorf("saving event: %w", err)
	}
	return nil
}

// SaveEvents saves or updates several events in one transaction.
func (r *Repository) SaveEvents(ctx context.Context, events []entities.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range events {
		if err := saveEvent(ctx, tx, &events[i]); err != nil {
			return fmt.Errorf("saving event %s: %w", events[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// FindEventByID finds an event by its ID. Returns nil if not found.
func (r *Repository) FindEventByID(ctx context.Context, id string) (*entities.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning event: %w", err)
	}
	return event, nil
}

// FindEventsByIDs finds several events by ID. Missing IDs are skipped.
func (r *Repository) FindEventsByIDs(ctx context.Context, ids []string) ([]entities.Event, error) {
	if len(ids) == 0 {
		return []entities.Event{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE id IN (` + strings.Join(placeholders, ", ") + `) ` + chronological
	return r.queryEvents(ctx, query, args...)
}

// ListEvents lists events chronologically with pagination.
func (r *Repository) ListEvents(ctx context.Context, limit, offset int) ([]entities.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ` + chronological + ` LIMIT ? OFFSET ?`
	return r.queryEvents(ctx, query, sqlLimit(limit), offset)
}

// ListByKind lists events of one kind chronologically.
func (r *Repository) ListByKind(ctx context.Context, kind entities.EventKind, limit int) ([]entities.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE kind = ? ` + chronological + ` LIMIT ?`
	return r.queryEvents(ctx, query, string(kind), sqlLimit(limit))
}

// ListOverlapping lists events whose dates share at least one day with rng.
func (r *Repository) ListOverlapping(ctx context.Context, rng flexidate.DateRange, limit int) ([]entities.Event, error) {
	lo, _ := rng.Low().DayKeys()
	_, hi := rng.High().DayKeys()

	query := `SELECT ` + eventColumns + ` FROM events
		WHERE earliest_day <= ? AND latest_day >= ? ` + chronological + ` LIMIT ?`
	return r.queryEvents(ctx, query, hi, lo, sqlLimit(limit))
}

// DeleteEvent deletes an event by ID.
func (r *Repository) DeleteEvent(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}

// CountEvents returns the total number of events.
func (r *Repository) CountEvents(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return count, nil
}

// sqlLimit maps "no limit" (0 or negative) to SQLite's -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*entities.Event, error) {
	var event entities.Event
	var kind string
	var ctxText, sourceFile sql.NullString

	if err := row.Scan(
		&event.ID,
		&event.Title,
		&kind,
		&event.When,
		&ctxText,
		&sourceFile,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}

	event.Kind = entities.EventKind(kind)
	event.Context = ctxText.String
	event.SourceFile = sourceFile.String
	return &event, nil
}

// queryEvents is a helper to execute event queries.
func (r *Repository) queryEvents(ctx context.Context, query string, args ...any) ([]entities.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	events := []entities.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, *event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}

// LogAction logs an action to the audit log.
func (r *Repository) LogAction(ctx context.Context, action string, eventID string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var eventIDPtr sql.NullString
	if eventID != "" {
		eventIDPtr = sql.NullString{String: eventID, Valid: true}
	}

	query := `INSERT INTO audit_log (action, event_id, details, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, action, eventIDPtr, detailsJSON, timeNow())
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLog finds audit log entries for a specific event, oldest first.
func (r *Repository) FindAuditLog(ctx context.Context, eventID string) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, event_id, details, created_at
		FROM audit_log
		WHERE event_id = ?
		ORDER BY id
	`
	return r.queryAuditLog(ctx, query, eventID)
}

// FindAuditLogByAction finds the most recent audit log entries of one action.
func (r *Repository) FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, event_id, details, created_at
		FROM audit_log
		WHERE action = ?
		ORDER BY id DESC
		LIMIT ?
	`
	return r.queryAuditLog(ctx, query, action, sqlLimit(limit))
}

// queryAuditLog is a helper to execute audit log queries.
func (r *Repository) queryAuditLog(ctx context.Context, query string, args ...any) ([]entities.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []entities.AuditEntry
	for rows.Next() {
		var entry entities.AuditEntry
		var eventID, details sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&eventID,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entry.EventID = eventID.String

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit log: %w", err)
	}
	return entries, nil
}
