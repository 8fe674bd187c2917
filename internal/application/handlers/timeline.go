package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/lore-chrono/internal/domain/entities"
	"github.com/ersonp/lore-chrono/internal/domain/flexidate"
	"github.com/ersonp/lore-chrono/internal/domain/services"
)

// TimelineHandler handles event commands for one world.
type TimelineHandler struct {
	service *services.TimelineService
	present *flexidate.Date
}

// NewTimelineHandler creates a new timeline handler. present is the world's
// "now" as configured in worlds.yaml; empty means the world has none.
func NewTimelineHandler(service *services.TimelineService, present string) (*TimelineHandler, error) {
	h := &TimelineHandler{service: service}
	if present != "" {
		d, err := flexidate.ParseDate(present)
		if err != nil {
			return nil, fmt.Errorf("invalid world present date: %w", err)
		}
		h.present = &d
	}
	return h, nil
}

// EventView is an event plus how long before the world's present it happened.
type EventView struct {
	entities.Event
	Ago flexidate.Value // nil when the world has no present
}

// Add records a new event.
func (h *TimelineHandler) Add(ctx context.Context, in services.RecordInput) (*EventView, error) {
	ev, err := h.service.Record(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("recording event: %w", err)
	}
	view := h.view(*ev)
	return &view, nil
}

// ListOptions filters List.
type ListOptions struct {
	Kind   string
	Limit  int
	Offset int
}

// List returns events in chronological order.
func (h *TimelineHandler) List(ctx context.Context, opts ListOptions) ([]EventView, error) {
	var events []entities.Event
	var err error
	if opts.Kind != "" {
		events, err = h.service.ListByKind(ctx, opts.Kind, opts.Limit)
	} else {
		events, err = h.service.List(ctx, opts.Limit, opts.Offset)
	}
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return h.views(events), nil
}

// Within returns events dated inside the range text, e.g. "-0050/-0030" or "41? BC".
// With overlapping set, events that merely share a day with the range are included.
func (h *TimelineHandler) Within(ctx context.Context, rangeText string, overlapping bool, limit int) ([]EventView, error) {
	r, err := parseAsRange(rangeText)
	if err != nil {
		return nil, err
	}

	var events []entities.Event
	if overlapping {
		events, err = h.service.Overlapping(ctx, r, limit)
	} else {
		events, err = h.service.Within(ctx, r, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("querying range: %w", err)
	}
	return h.views(events), nil
}

// Shift moves an event by the span text, e.g. "P10Y" or "-P3M".
func (h *TimelineHandler) Shift(ctx context.Context, id, spanText string) (*EventView, error) {
	span, err := flexidate.ParseTimeSpan(spanText)
	if err != nil {
		return nil, err
	}
	ev, err := h.service.Shift(ctx, id, span)
	if err != nil {
		return nil, fmt.Errorf("shifting event: %w", err)
	}
	view := h.view(*ev)
	return &view, nil
}

// Delete removes an event.
func (h *TimelineHandler) Delete(ctx context.Context, id string) error {
	return h.service.Delete(ctx, id)
}

// Elapsed returns the time between two events.
func (h *TimelineHandler) Elapsed(ctx context.Context, fromID, toID string) (flexidate.Value, error) {
	return h.service.Elapsed(ctx, fromID, toID)
}

// Count returns the number of events in the world.
func (h *TimelineHandler) Count(ctx context.Context) (int, error) {
	return h.service.Count(ctx)
}

// History returns the audit trail of an event.
func (h *TimelineHandler) History(ctx context.Context, id string) ([]entities.AuditEntry, error) {
	if _, err := h.service.Get(ctx, id); err != nil {
		return nil, err
	}
	return h.service.History(ctx, id)
}

// Activity returns recent audit entries of one action.
func (h *TimelineHandler) Activity(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	return h.service.Activity(ctx, action, limit)
}

func (h *TimelineHandler) view(ev entities.Event) EventView {
	v := EventView{Event: ev}
	if h.present != nil {
		v.Ago = services.ElapsedBetween(ev.When, *h.present)
	}
	return v
}

func (h *TimelineHandler) views(events []entities.Event) []EventView {
	result := make([]EventView, len(events))
	for i := range events {
		result[i] = h.view(events[i])
	}
	return result
}
