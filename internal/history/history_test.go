package history

import (
	"fmt"
	"testing"

	"shoply-bot/internal/llm"
)

func TestWindowAppendGetReset(t *testing.T) {
	h := NewWindow(DefaultLimit)

	h.AppendUser("hello")
	h.AppendAssistant("hi")

	msgs := h.Messages()
	if len(msgs) != 2 {
		t.Fatalf("unexpected length: %d", len(msgs))
	}
	if msgs[0].Role != llm.RoleUser || msgs[0].Content != "hello" {
		t.Fatalf("unexpected [0]: %+v", msgs[0])
	}
	if msgs[1].Role != llm.RoleAssistant || msgs[1].Content != "hi" {
		t.Fatalf("unexpected [1]: %+v", msgs[1])
	}

	// Ensure copy semantics (modifying returned slice does not affect internal state)
	msgs[0] = llm.Message{Role: llm.RoleUser, Content: "mutated"}
	if h.Messages()[0].Content != "hello" {
		t.Fatalf("internal state mutated via returned slice")
	}

	h.Reset()
	if h.Len() != 0 {
		t.Fatalf("reset did not clear history")
	}
}

func TestWindowKeepsMostRecent(t *testing.T) {
	h := NewWindow(DefaultLimit)
	for i := 1; i <= 11; i++ {
		h.AppendUser(fmt.Sprintf("m%d", i))
		if h.Len() > DefaultLimit {
			t.Fatalf("len %d exceeds limit after append %d", h.Len(), i)
		}
	}

	msgs := h.Messages()
	if len(msgs) != 10 {
		t.Fatalf("want 10, got %d", len(msgs))
	}
	for i, m := range msgs {
		want := fmt.Sprintf("m%d", i+2)
		if m.Content != want {
			t.Fatalf("msgs[%d] = %q, want %q", i, m.Content, want)
		}
	}
}

func TestNewWindowDefaultsLimit(t *testing.T) {
	if got := NewWindow(0).Limit(); got != DefaultLimit {
		t.Fatalf("want default limit %d, got %d", DefaultLimit, got)
	}
}
