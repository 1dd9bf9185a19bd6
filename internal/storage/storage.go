package storage

import (
	"time"

	"shoply-bot/internal/llm"
)

const (
	TypeMeta         = "meta"
	TypeMessage      = "message"
	TypeUsageSummary = "usage_summary"
)

// Event is one line of a session log. Which fields are set depends on Type:
// meta carries the session identity, message carries a single turn and
// usage_summary the session's token totals.
type Event struct {
	Type      string     `json:"type"`
	Timestamp time.Time  `json:"timestamp"`
	SessionID string     `json:"session_id,omitempty"`
	Brand     string     `json:"brand,omitempty"`
	Model     string     `json:"model,omitempty"`
	Role      string     `json:"role,omitempty"`
	Content   string     `json:"content,omitempty"`
	Usage     *llm.Usage `json:"usage,omitempty"`
	Source    string     `json:"source,omitempty"`
	Note      string     `json:"note,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Recorder abstracts persistence of session events.
// Append must never rewrite previously written events.
// Load returns events in the order they were appended.
type Recorder interface {
	Append(event Event) error
	Load() ([]Event, error)
}
