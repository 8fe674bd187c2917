// Package ports defines the interfaces the domain depends on.
package ports

import (
	"context"

	"github.com/ersonp/lore-chrono/internal/domain/entities"
	"github.com/ersonp/lore-chrono/internal/domain/flexidate"
)

// EventStore defines the interface for persisting timeline events.
// Listing methods return events in chronological order, as defined by
// flexidate.Date.Compare.
type EventStore interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// SaveEvent saves or updates an event.
	SaveEvent(ctx context.Context, event *entities.Event) error

	// SaveEvents saves or updates several events in one transaction.
	SaveEvents(ctx context.Context, events []entities.Event) error

	// FindEventByID finds an event by its ID. Returns nil if not found.
	FindEventByID(ctx context.Context, id string) (*entities.Event, error)

	// FindEventsByIDs finds several events by ID. Missing IDs are skipped.
	FindEventsByIDs(ctx context.Context, ids []string) ([]entities.Event, error)

	// ListEvents lists events chronologically with pagination.
	ListEvents(ctx context.Context, limit, offset int) ([]entities.Event, error)

	// ListByKind lists events of one kind chronologically.
	ListByKind(ctx context.Context, kind entities.EventKind, limit int) ([]entities.Event, error)

	// ListOverlapping lists events whose dates share at least one day with r.
	ListOverlapping(ctx context.Context, r flexidate.DateRange, limit int) ([]entities.Event, error)

	// DeleteEvent deletes an event by ID.
	DeleteEvent(ctx context.Context, id string) error

	// CountEvents returns the total number of events.
	CountEvents(ctx context.Context) (int, error)

	// LogAction logs an action to the audit log.
	LogAction(ctx context.Context, action string, eventID string, details map[string]any) error

	// FindAuditLog finds audit log entries for a specific event.
	FindAuditLog(ctx context.Context, eventID string) ([]entities.AuditEntry, error)

	// FindAuditLogByAction finds the most recent audit log entries of one action.
	FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error)
}
