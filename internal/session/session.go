// Package session holds the state of one interactive run: identity, rolling
// history, the last looked-up order, token totals and the session log.
package session

import (
	"fmt"
	"path/filepath"
	"time"

	"shoply-bot/internal/history"
	"shoply-bot/internal/llm"
	"shoply-bot/internal/storage"
)

const idLayout = "20060102_150405"

// NewID derives a session id from the start time.
func NewID(now time.Time) string {
	return now.Format(idLayout)
}

// LogPath returns the log file for a session inside dir.
func LogPath(dir, id string) string {
	return filepath.Join(dir, fmt.Sprintf("session_%s.jsonl", id))
}

// Extra carries optional tags of a message event.
type Extra struct {
	Source string
	Note   string
	Error  string
}

type State struct {
	ID    string
	Brand string
	Model string

	History *history.Window

	lastOrderContext string
	usage            llm.Usage

	rec storage.Recorder
	now func() time.Time
}

func New(id, brand, model string, rec storage.Recorder) *State {
	return &State{
		ID:      id,
		Brand:   brand,
		Model:   model,
		History: history.NewWindow(history.DefaultLimit),
		rec:     rec,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// InitMeta writes the meta record that opens every session log.
func (s *State) InitMeta() error {
	return s.append(storage.Event{
		Type:      storage.TypeMeta,
		SessionID: s.ID,
		Brand:     s.Brand,
		Model:     s.Model,
	})
}

// LogMessage appends one user or assistant turn to the session log.
func (s *State) LogMessage(role, content string, usage *llm.Usage, extra Extra) error {
	return s.append(storage.Event{
		Type:    storage.TypeMessage,
		Role:    role,
		Content: content,
		Usage:   usage,
		Source:  extra.Source,
		Note:    extra.Note,
		Error:   extra.Error,
	})
}

// LogUsageSummary writes the accumulated token totals.
func (s *State) LogUsageSummary() error {
	totals := s.usage
	return s.append(storage.Event{
		Type:  storage.TypeUsageSummary,
		Usage: &totals,
	})
}

func (s *State) AddHistory(role, content string) {
	s.History.Append(role, content)
}

func (s *State) AddUsage(u llm.Usage) {
	s.usage = s.usage.Add(u)
}

func (s *State) Usage() llm.Usage { return s.usage }

// LastOrderContext returns the grounding block of the most recently shown
// order, or "" if none is active.
func (s *State) LastOrderContext() string { return s.lastOrderContext }

func (s *State) SetOrderContext(ctx string) { s.lastOrderContext = ctx }

func (s *State) ClearOrderContext() { s.lastOrderContext = "" }

func (s *State) append(ev storage.Event) error {
	if s.rec == nil {
		return nil
	}
	ev.Timestamp = s.now()
	if err := s.rec.Append(ev); err != nil {
		return fmt.Errorf("session %s: %w", s.ID, err)
	}
	return nil
}
