package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/lore-chrono/internal/domain/entities"
	"github.com/ersonp/lore-chrono/internal/domain/flexidate"
	"github.com/ersonp/lore-chrono/internal/domain/ports"
	"github.com/ersonp/lore-chrono/internal/infrastructure/parsers"
)

// ConflictStrategy defines how to handle existing events during import.
type ConflictStrategy string

const (
	// ConflictSkip skips events that already exist (by ID).
	ConflictSkip ConflictStrategy = "skip"
	// ConflictOverwrite overwrites existing events with new data.
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun      bool             // Validate without saving
	OnConflict  ConflictStrategy // How to handle existing events
	DefaultKind entities.EventKind
}

// ImportError represents an error for a specific row during import.
type ImportError struct {
	Line    int    // Line number (1-indexed, 0 if unknown)
	Field   string // Which field has the error
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []ImportError
	Events   []entities.Event // Validated events, in input order
}

// ImportService handles importing events from external sources.
type ImportService struct {
	store  ports.EventStore
	logger *slog.Logger
}

// NewImportService creates a new import service.
func NewImportService(store ports.EventStore, logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportService{
		store:  store,
		logger: logger,
	}
}

// Import validates raw events and saves the valid ones. Invalid rows are
// reported in the result and never abort the import.
func (s *ImportService) Import(ctx context.Context, rawEvents []parsers.RawEvent, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	events, validationErrors := s.validateEvents(rawEvents, opts.DefaultKind)
	result.Errors = validationErrors
	result.Events = events

	if len(events) == 0 {
		return result, nil
	}

	if opts.DryRun {
		result.Imported = len(events)
		return result, nil
	}

	imported, skipped, err := s.saveWithConflictHandling(ctx, events, opts.OnConflict)
	if err != nil {
		return nil, fmt.Errorf("saving events: %w", err)
	}

	result.Imported = imported
	result.Skipped = skipped

	if imported > 0 {
		details := map[string]any{"imported": imported, "skipped": skipped, "errors": len(result.Errors)}
		if err := s.store.LogAction(ctx, entities.ActionImport, "", details); err != nil {
			s.logger.Warn("writing audit log", "action", entities.ActionImport, "error", err)
		}
	}

	s.logger.Debug("import finished", "imported", imported, "skipped", skipped, "errors", len(result.Errors))
	return result, nil
}

// validateEvents converts raw rows into events and collects per-row errors.
// A row repeating an ID seen earlier in the same input is an error; the
// first row with that ID wins.
func (s *ImportService) validateEvents(rawEvents []parsers.RawEvent, defaultKind entities.EventKind) ([]entities.Event, []ImportError) {
	valid := make([]entities.Event, 0, len(rawEvents))
	var errors []ImportError
	now := timeNow()
	seen := make(map[string]int)

	for i := range rawEvents {
		raw := &rawEvents[i]
		lineNum := raw.LineNum
		if lineNum == 0 {
			lineNum = i + 1
		}

		ev, err := convertRawEvent(raw, lineNum, defaultKind, now)
		if err != nil {
			errors = append(errors, *err)
			continue
		}
		if first, dup := seen[ev.ID]; dup {
			errors = append(errors, ImportError{
				Line:    lineNum,
				Field:   "id",
				Value:   ev.ID,
				Message: fmt.Sprintf("duplicate id (first seen on line %d)", first),
			})
			continue
		}
		seen[ev.ID] = lineNum
		valid = append(valid, ev)
	}

	return valid, errors
}

// convertRawEvent validates a single raw event and builds the domain entity.
func convertRawEvent(raw *parsers.RawEvent, lineNum int, defaultKind entities.EventKind, now time.Time) (entities.Event, *ImportError) {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return entities.Event{}, &ImportError{Line: lineNum, Field: "title", Message: "missing required field: title"}
	}
	if strings.TrimSpace(raw.When) == "" {
		return entities.Event{}, &ImportError{Line: lineNum, Field: "when", Message: "missing required field: when"}
	}

	kind := defaultKind
	if kind == "" {
		kind = entities.EventKindOther
	}
	if raw.Kind != "" {
		k, err := parseKind(raw.Kind)
		if err != nil {
			return entities.Event{}, &ImportError{Line: lineNum, Field: "kind", Value: raw.Kind, Message: err.Error()}
		}
		kind = k
	}

	when, err := flexidate.ParseDate(raw.When)
	if err != nil {
		return entities.Event{}, &ImportError{Line: lineNum, Field: "when", Value: raw.When, Message: err.Error()}
	}

	id := raw.ID
	if id == "" {
		id = uuid.New().String()
	}

	return entities.Event{
		ID:         id,
		Title:      title,
		Kind:       kind,
		When:       when,
		Context:    raw.Context,
		SourceFile: raw.SourceFile,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// saveWithConflictHandling saves events with conflict handling.
func (s *ImportService) saveWithConflictHandling(ctx context.Context, events []entities.Event, onConflict ConflictStrategy) (imported, skipped int, err error) {
	existing, err := s.findExisting(ctx, events)
	if err != nil {
		return 0, 0, err
	}

	toSave := make([]entities.Event, 0, len(events))
	for i := range events {
		prev, ok := existing[events[i].ID]
		switch {
		case !ok:
			toSave = append(toSave, events[i])
		case onConflict == ConflictSkip:
			skipped++
		default:
			// Overwrite keeps the original creation time.
			events[i].CreatedAt = prev.CreatedAt
			toSave = append(toSave, events[i])
		}
	}

	if len(toSave) == 0 {
		return 0, skipped, nil
	}
	if err := s.store.SaveEvents(ctx, toSave); err != nil {
		return 0, 0, err
	}
	return len(toSave), skipped, nil
}

// findExisting looks up stored events sharing an ID with the import.
func (s *ImportService) findExisting(ctx context.Context, events []entities.Event) (map[string]entities.Event, error) {
	ids := make([]string, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}

	found, err := s.store.FindEventsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("looking up existing events: %w", err)
	}

	existing := make(map[string]entities.Event, len(found))
	for i := range found {
		existing[found[i].ID] = found[i]
	}
	return existing, nil
}
