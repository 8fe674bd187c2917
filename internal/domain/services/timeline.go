// Package services contains the timeline's domain logic.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/lore-chrono/internal/domain/entities"
	"github.com/ersonp/lore-chrono/internal/domain/flexidate"
	"github.com/ersonp/lore-chrono/internal/domain/ports"
)

// ErrEventNotFound is returned when an event ID does not exist.
var ErrEventNotFound = errors.New("event not found")

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// RecordInput holds the fields needed to record a new event.
type RecordInput struct {
	Title      string
	Kind       string
	When       string
	Context    string
	SourceFile string
}

// TimelineService records events and answers chronological questions about them.
type TimelineService struct {
	store  ports.EventStore
	logger *slog.Logger
}

// NewTimelineService creates a new TimelineService. A nil logger uses slog.Default.
func NewTimelineService(store ports.EventStore, logger *slog.Logger) *TimelineService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimelineService{
		store:  store,
		logger: logger,
	}
}

// Record validates the input and stores a new event.
func (s *TimelineService) Record(ctx context.Context, in RecordInput) (*entities.Event, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errors.New("title is required")
	}

	kind, err := parseKind(in.Kind)
	if err != nil {
		return nil, err
	}

	when, err := flexidate.ParseDate(in.When)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	now := timeNow()
	ev := &entities.Event{
		ID:         uuid.New().String(),
		Title:      title,
		Kind:       kind,
		When:       when,
		Context:    in.Context,
		SourceFile: in.SourceFile,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.SaveEvent(ctx, ev); err != nil {
		return nil, fmt.Errorf("saving event: %w", err)
	}
	s.audit(ctx, entities.ActionRecord, ev.ID, map[string]any{"when": when.String()})

	s.logger.Debug("event recorded", "id", ev.ID, "when", when.String(), "precision", when.Precision().String())
	return ev, nil
}

// Get returns an event by ID.
func (s *TimelineService) Get(ctx context.Context, id string) (*entities.Event, error) {
	ev, err := s.store.FindEventByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding event: %w", err)
	}
	if ev == nil {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	return ev, nil
}

// List returns events in chronological order.
func (s *TimelineService) List(ctx context.Context, limit, offset int) ([]entities.Event, error) {
	return s.store.ListEvents(ctx, limit, offset)
}

// ListByKind returns events of one kind in chronological order.
func (s *TimelineService) ListByKind(ctx context.Context, kind string, limit int) ([]entities.Event, error) {
	k, err := parseKind(kind)
	if err != nil {
		return nil, err
	}
	return s.store.ListByKind(ctx, k, limit)
}

// Overlapping returns events that may have happened during r: any event
// sharing at least one day with it.
func (s *TimelineService) Overlapping(ctx context.Context, r flexidate.DateRange, limit int) ([]entities.Event, error) {
	return s.store.ListOverlapping(ctx, r, limit)
}

// Within returns events whose dates sort between the bounds of r.
func (s *TimelineService) Within(ctx context.Context, r flexidate.DateRange, limit int) ([]entities.Event, error) {
	candidates, err := s.store.ListOverlapping(ctx, r, 0)
	if err != nil {
		return nil, err
	}

	result := make([]entities.Event, 0, len(candidates))
	for i := range candidates {
		if !r.Contains(candidates[i].When) {
			continue
		}
		result = append(result, candidates[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}

	s.logger.Debug("range query", "range", r.String(), "candidates", len(candidates), "matched", len(result))
	return result, nil
}

// Elapsed returns the time from one event to another. When either date is
// decade-uncertain the answer is a flexidate.TimeSpanRange bounding every
// possible span, otherwise a flexidate.TimeSpan.
func (s *TimelineService) Elapsed(ctx context.Context, fromID, toID string) (flexidate.Value, error) {
	from, err := s.Get(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.Get(ctx, toID)
	if err != nil {
		return nil, err
	}
	return ElapsedBetween(from.When, to.When), nil
}

// ElapsedBetween returns the span from one date to another, or a span range when
// either date denotes more than one decade-year.
func ElapsedBetween(from, to flexidate.Date) flexidate.Value {
	if from.Uncertainty() != flexidate.DecadeUncertain && to.Uncertainty() != flexidate.DecadeUncertain {
		return to.Sub(from)
	}
	return to.Range().SubtractRange(from.Range())
}

// Shift moves an event by span and records the change in the audit log.
func (s *TimelineService) Shift(ctx context.Context, id string, span flexidate.TimeSpan) (*entities.Event, error) {
	ev, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := ev.When
	ev.When = ev.When.AddSpan(span)
	ev.UpdatedAt = timeNow()

	if err := s.store.SaveEvent(ctx, ev); err != nil {
		return nil, fmt.Errorf("saving event: %w", err)
	}
	s.audit(ctx, entities.ActionShift, id, map[string]any{
		"from": before.String(),
		"to":   ev.When.String(),
		"span": span.String(),
	})

	return ev, nil
}

// Delete removes an event.
func (s *TimelineService) Delete(ctx context.Context, id string) error {
	ev, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	s.audit(ctx, entities.ActionDelete, id, map[string]any{"title": ev.Title})
	return nil
}

// Count returns the number of recorded events.
func (s *TimelineService) Count(ctx context.Context) (int, error) {
	return s.store.CountEvents(ctx)
}

// History returns the audit trail of an event.
func (s *TimelineService) History(ctx context.Context, id string) ([]entities.AuditEntry, error) {
	return s.store.FindAuditLog(ctx, id)
}

// Activity returns the most recent audit entries of one action, newest first.
func (s *TimelineService) Activity(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	switch action {
	case entities.ActionRecord, entities.ActionShift, entities.ActionDelete, entities.ActionImport:
	default:
		return nil, fmt.Errorf("invalid action %q", action)
	}
	return s.store.FindAuditLogByAction(ctx, action, limit)
}

// audit logs an action. Audit failures never fail the operation itself.
func (s *TimelineService) audit(ctx context.Context, action, id string, details map[string]any) {
	if err := s.store.LogAction(ctx, action, id, details); err != nil {
		s.logger.Warn("writing audit log", "action", action, "event", id, "error", err)
	}
}

// parseKind defaults an empty kind to "other" and rejects unknown kinds.
func parseKind(kind string) (entities.EventKind, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return entities.EventKindOther, nil
	}
	k := entities.EventKind(kind)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid kind %q (valid: %s)", kind, strings.Join(entities.DefaultKindNames(), ", "))
	}
	return k, nil
}
