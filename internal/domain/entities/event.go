// Package entities contains core domain data structures.
package entities

import (
	"time"

	"github.com/ersonp/lore-chrono/internal/domain/flexidate"
)

// EventKind represents the category of a timeline event.
type EventKind string

// Built-in event kinds.
const (
	EventKindBattle   EventKind = "battle"
	EventKindReign    EventKind = "reign"
	EventKindFounding EventKind = "founding"
	EventKindBirth    EventKind = "birth"
	EventKindDeath    EventKind = "death"
	EventKindTreaty   EventKind = "treaty"
	EventKindOther    EventKind = "other"
)

// IsValid reports whether k is one of the built-in kinds.
func (k EventKind) IsValid() bool {
	return IsDefaultKind(string(k))
}

// Event is something that happened at a possibly uncertain date in a world's history.
type Event struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Kind       EventKind      `json:"kind"`
	When       flexidate.Date `json:"when"`
	Context    string         `json:"context,omitempty"`
	SourceFile string         `json:"source_file,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
