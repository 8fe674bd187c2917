// Package mocks provides hand-written test doubles for the domain ports.
package mocks

import (
	"context"
	"sort"

	"github.com/ersonp/lore-chrono/internal/domain/entities"
	"github.com/ersonp/lore-chrono/internal/domain/flexidate"
)

// EventStore is an in-memory mock implementation of ports.EventStore.
type EventStore struct {
	Events map[string]entities.Event
	Audit  []entities.AuditEntry
	Err    error

	// Call tracking
	SaveEventsCallCount int
	SaveEventsLast      []entities.Event
	DeleteCallCount     int
}

// NewEventStore creates a new mock EventStore.
func NewEventStore(events ...entities.Event) *EventStore {
	m := &EventStore{Events: make(map[string]entities.Event)}
	for i := range events {
		m.Events[events[i].ID] = events[i]
	}
	return m
}

// EnsureSchema creates the database schema if it doesn't exist.
func (m *EventStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close closes the database connection.
func (m *EventStore) Close() error {
	return nil
}

// SaveEvent saves or updates an event.
func (m *EventStore) SaveEvent(_ context.Context, event *entities.Event) error {
	if m.Err != nil {
		return m.Err
	}
	m.Events[event.ID] = *event
	return nil
}

// SaveEvents saves or updates several events.
func (m *EventStore) SaveEvents(_ context.Context, events []entities.Event) error {
	m.SaveEventsCallCount++
	m.SaveEventsLast = events
	if m.Err != nil {
		return m.Err
	}
	for i := range events {
		m.Events[events[i].ID] = events[i]
	}
	return nil
}

// FindEventByID finds an event by its ID.
func (m *EventStore) FindEventByID(_ context.Context, id string) (*entities.Event, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	ev, ok := m.Events[id]
	if !ok {
		return nil, nil
	}
	return &ev, nil
}

// FindEventsByIDs finds several events by ID.
func (m *EventStore) FindEventsByIDs(_ context.Context, ids []string) ([]entities.Event, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.Event
	for _, id := range ids {
		if ev, ok := m.Events[id]; ok {
			result = append(result, ev)
		}
	}
	return result, nil
}

// ListEvents lists events chronologically.
func (m *EventStore) ListEvents(_ context.Context, limit, offset int) ([]entities.Event, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return page(m.sorted(func(entities.Event) bool { return true }), limit, offset), nil
}

// ListByKind lists events of one kind chronologically.
func (m *EventStore) ListByKind(_ context.Context, kind entities.EventKind, limit int) ([]entities.Event, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return page(m.sorted(func(e entities.Event) bool { return e.Kind == kind }), limit, 0), nil
}

// ListOverlapping lists events sharing at least one day with r.
func (m *EventStore) ListOverlapping(_ context.Context, r flexidate.DateRange, limit int) ([]entities.Event, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return page(m.sorted(func(e entities.Event) bool { return e.When.Range().Overlaps(r) }), limit, 0), nil
}

// DeleteEvent deletes an event by ID.
func (m *EventStore) DeleteEvent(_ context.Context, id string) error {
	m.DeleteCallCount++
	if m.Err != nil {
		return m.Err
	}
	delete(m.Events, id)
	return nil
}

// CountEvents returns the number of stored events.
func (m *EventStore) CountEvents(_ context.Context) (int, error) {
	return len(m.Events), m.Err
}

// LogAction records an audit entry in memory.
func (m *EventStore) LogAction(_ context.Context, action string, eventID string, details map[string]any) error {
	if m.Err != nil {
		return m.Err
	}
	m.Audit = append(m.Audit, entities.AuditEntry{
		ID:      int64(len(m.Audit) + 1),
		Action:  action,
		EventID: eventID,
		Details: details,
	})
	return nil
}

// FindAuditLog finds audit log entries for a specific event.
func (m *EventStore) FindAuditLog(_ context.Context, eventID string) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.AuditEntry
	for _, a := range m.Audit {
		if a.EventID == eventID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *EventStore) sorted(keep func(entities.Event) bool) []entities.Event {
	result := make([]entities.Event, 0, len(m.Events))
	for _, ev := range m.Events {
		if keep(ev) {
			result = append(result, ev)
		}
	}
	// Sort chronologically, then by ID for deterministic test results
	sort.Slice(result, func(i, j int) bool {
		if c := result[i].When.Compare(result[j].When); c != 0 {
			return c < 0
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func page(events []entities.Event, limit, offset int) []entities.Event {
	if offset >= len(events) {
		return []entities.Event{}
	}
	events = events[offset:]
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	return events
}

// FindAuditLogByAction returns matching audit entries, newest first.
func (m *EventStore) FindAuditLogByAction(_ context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.AuditEntry
	for i := len(m.Audit) - 1; i >= 0; i-- {
		if m.Audit[i].Action != action {
			continue
		}
		result = append(result, m.Audit[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}
