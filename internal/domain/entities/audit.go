package entities

import "time"

// Audit actions recorded by the timeline service.
const (
	ActionRecord = "record"
	ActionShift  = "shift"
	ActionDelete = "delete"
	ActionImport = "import"
)

// AuditEntry represents a logged action in the system.
type AuditEntry struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	EventID   string         `json:"event_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
