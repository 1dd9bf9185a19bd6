package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"shoply-bot/internal/llm"
	"shoply-bot/internal/storage"
)

// SessionStats содержит статистику одной сессии
type SessionStats struct {
	SessionID         string         `json:"session_id"`
	Brand             string         `json:"brand"`
	Model             string         `json:"model"`
	UserMessages      int            `json:"user_messages"`
	AssistantMessages int            `json:"assistant_messages"`
	BySource          map[string]int `json:"by_source"`
	Errors            int            `json:"errors"`
	// Usage is summed from message events; RecordedUsage is the summary the
	// bot wrote on exit, nil if the session ended abnormally.
	Usage         llm.Usage  `json:"usage"`
	RecordedUsage *llm.Usage `json:"recorded_usage,omitempty"`
	Completed     bool       `json:"completed"`
}

// AnalyzeSession анализирует события одного лога сессии
func AnalyzeSession(events []storage.Event) *SessionStats {
	stats := &SessionStats{BySource: make(map[string]int)}

	for _, ev := range events {
		switch ev.Type {
		case storage.TypeMeta:
			stats.SessionID = ev.SessionID
			stats.Brand = ev.Brand
			stats.Model = ev.Model
		case storage.TypeMessage:
			switch ev.Role {
			case llm.RoleUser:
				stats.UserMessages++
			case llm.RoleAssistant:
				stats.AssistantMessages++
				if ev.Source != "" {
					stats.BySource[ev.Source]++
				}
				if ev.Source == "error" {
					stats.Errors++
				}
				if ev.Note == "session_end" {
					stats.Completed = true
				}
			}
			if ev.Usage != nil {
				stats.Usage = stats.Usage.Add(*ev.Usage)
			}
		case storage.TypeUsageSummary:
			if ev.Usage != nil {
				u := *ev.Usage
				stats.RecordedUsage = &u
			}
		}
	}
	return stats
}

// GenerateReportSummary создает текстовое резюме сессии
func (s *SessionStats) GenerateReportSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Сессия %s (%s, модель %s)\n\n", s.SessionID, s.Brand, s.Model)
	fmt.Fprintf(&b, "Сообщений пользователя: %d\n", s.UserMessages)
	fmt.Fprintf(&b, "Ответов бота: %d\n", s.AssistantMessages)
	fmt.Fprintf(&b, "Ошибок LLM: %d\n", s.Errors)

	if len(s.BySource) > 0 {
		b.WriteString("\nОтветы по источникам:\n")
		sources := make([]string, 0, len(s.BySource))
		for src := range s.BySource {
			sources = append(sources, src)
		}
		sort.Strings(sources)
		for _, src := range sources {
			fmt.Fprintf(&b, "- %s: %d\n", src, s.BySource[src])
		}
	}

	fmt.Fprintf(&b, "\nТокены: prompt=%d, completion=%d, total=%d\n",
		s.Usage.PromptTokens, s.Usage.CompletionTokens, s.Usage.TotalTokens)
	if s.RecordedUsage == nil {
		b.WriteString("Итоговая сводка не записана: сессия прервана.\n")
	} else if *s.RecordedUsage != s.Usage {
		fmt.Fprintf(&b, "Итоговая сводка расходится с сообщениями: total=%d\n", s.RecordedUsage.TotalTokens)
	}
	return b.String()
}

// ToJSON сериализует статистику в JSON для детального анализа
func (s *SessionStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
