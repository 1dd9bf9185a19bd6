package history

import (
	"shoply-bot/internal/llm"
)

// DefaultLimit is the number of most recent turns kept for the model.
const DefaultLimit = 10

// Window is a sliding window over the conversation: appending past the
// limit silently drops the oldest turns.
type Window struct {
	limit    int
	messages []llm.Message
}

func NewWindow(limit int) *Window {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Window{limit: limit}
}

func (w *Window) Reset() {
	w.messages = nil
}

func (w *Window) AppendUser(content string) {
	w.Append(llm.RoleUser, content)
}

func (w *Window) AppendAssistant(content string) {
	w.Append(llm.RoleAssistant, content)
}

func (w *Window) Append(role, content string) {
	w.messages = append(w.messages, llm.Message{Role: role, Content: content})
	if over := len(w.messages) - w.limit; over > 0 {
		w.messages = append([]llm.Message(nil), w.messages[over:]...)
	}
}

// Messages returns a copy of the retained turns, oldest first.
func (w *Window) Messages() []llm.Message {
	out := make([]llm.Message, len(w.messages))
	copy(out, w.messages)
	return out
}

func (w *Window) Len() int { return len(w.messages) }

func (w *Window) Limit() int { return w.limit }
