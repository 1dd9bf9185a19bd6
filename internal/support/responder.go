// Package support assembles the support-bot prompt and asks the completion
// provider for a reply.
package support

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shoply-bot/internal/history"
	"shoply-bot/internal/llm"
)

const systemTemplate = `Ты консольный бот поддержки магазина %s.
Правила:
- Отвечай кратко, вежливо, по делу.
- Используй ТОЛЬКО переданный контекст (FAQ и информацию о заказе).
- Не придумывай факты вне этого контекста.
- Если информации недостаточно, честно скажи об этом и предложи обратиться к оператору.
- Отвечай на русском языке.`

// SystemPrompt returns the fixed rules with the brand interpolated.
func SystemPrompt(brand string) string {
	return fmt.Sprintf(systemTemplate, brand)
}

type Request struct {
	Question     string
	FAQContext   string
	OrderContext string
	History      []llm.Message
}

type Answer struct {
	Text  string
	Model string
	Usage llm.Usage
}

type Responder struct {
	client  llm.Client
	brand   string
	timeout time.Duration
}

func NewResponder(client llm.Client, brand string, timeout time.Duration) *Responder {
	return &Responder{client: client, brand: brand, timeout: timeout}
}

// Messages builds the prompt in its fixed order: rules, grounding context,
// the most recent history turns, then the new question.
func (r *Responder) Messages(req Request) []llm.Message {
	grounding := req.FAQContext
	if req.OrderContext != "" {
		grounding += "\n\n" + req.OrderContext
	}

	hist := req.History
	if over := len(hist) - history.DefaultLimit; over > 0 {
		hist = hist[over:]
	}

	msgs := make([]llm.Message, 0, len(hist)+3)
	msgs = append(msgs,
		llm.Message{Role: llm.RoleSystem, Content: SystemPrompt(r.brand)},
		llm.Message{Role: llm.RoleSystem, Content: grounding},
	)
	msgs = append(msgs, hist...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: req.Question})
	return msgs
}

// Reply issues a single completion request. Errors are returned as-is for
// the caller to surface; nothing is retried. A blank completion yields
// ErrEmptyResponse together with the usage the provider reported.
func (r *Responder) Reply(ctx context.Context, req Request) (Answer, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	resp, err := r.client.Generate(ctx, r.Messages(req))
	if err != nil {
		return Answer{}, err
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return Answer{Model: resp.Model, Usage: resp.Usage}, llm.ErrEmptyResponse
	}
	return Answer{Text: text, Model: resp.Model, Usage: resp.Usage}, nil
}
