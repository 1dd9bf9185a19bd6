package console

import (
	"context"
	"fmt"
	"strings"

	"shoply-bot/internal/faq"
	"shoply-bot/internal/llm"
	"shoply-bot/internal/orders"
	"shoply-bot/internal/session"
	"shoply-bot/internal/support"
)

const (
	orderCmd = "/order"

	SourceOrders = "orders"
	SourceFAQ    = "faq"
	SourceNoFAQ  = "no_faq"
	SourceError  = "error"
)

var exitCommands = map[string]bool{
	"/exit": true,
	"exit":  true,
	"/quit": true,
	"quit":  true,
}

// HandleInput processes one line of user input and returns whether the
// session should end and the reply to show ("" for no reply).
func (b *Bot) HandleInput(ctx context.Context, line string) (bool, string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, ""
	}

	b.logMessage(llm.RoleUser, line, nil, session.Extra{})

	if exitCommands[strings.ToLower(line)] {
		b.logMessage(llm.RoleAssistant, farewell, nil, session.Extra{Note: "session_end"})
		return true, farewell
	}

	if strings.HasPrefix(line, orderCmd) {
		return false, b.handleOrder(line)
	}
	return false, b.handleQuestion(ctx, line)
}

func (b *Bot) handleOrder(line string) string {
	var answer string
	parts := strings.Fields(line)
	if len(parts) != 2 {
		// The stored order context is left untouched on a usage error.
		answer = "Корректный формат: /order <id>."
	} else {
		id := parts[1]
		order, ok := orders.Get(b.orders, id)
		if !ok {
			answer = fmt.Sprintf("Заказ %s не найден. Проверьте номер или обратитесь к оператору.", id)
			b.state.ClearOrderContext()
		} else {
			answer = orders.FormatStatus(order)
			b.state.SetOrderContext(orders.BuildContext(order))
		}
	}

	b.logMessage(llm.RoleAssistant, answer, nil, session.Extra{Source: SourceOrders})
	b.state.AddHistory(llm.RoleUser, line)
	b.state.AddHistory(llm.RoleAssistant, answer)
	return answer
}

func (b *Bot) handleQuestion(ctx context.Context, question string) string {
	matches := faq.FindTopMatches(question, b.faq, faq.DefaultTopK, faq.DefaultMinOverlap)
	req := support.Request{
		Question:     question,
		FAQContext:   faq.BuildContext(matches),
		OrderContext: b.state.LastOrderContext(),
		History:      b.state.History.Messages(),
	}

	b.log.Debug().Int("faq_matches", len(matches)).Bool("order_context", req.OrderContext != "").Msg("asking llm")

	ans, err := b.responder.Reply(ctx, req)
	if err != nil {
		b.log.Error().Err(err).Str("session_id", b.state.ID).Msg("llm request failed")
		reply := fmt.Sprintf("Ошибка LLM: %v", err)
		// a blank completion is still billed
		var billed *llm.Usage
		if ans.Usage != (llm.Usage{}) {
			b.state.AddUsage(ans.Usage)
			usage := ans.Usage
			billed = &usage
		}
		b.logMessage(llm.RoleAssistant, reply, billed, session.Extra{Source: SourceError, Error: err.Error()})
		b.state.AddHistory(llm.RoleUser, question)
		b.state.AddHistory(llm.RoleAssistant, reply)
		return reply
	}

	b.state.AddUsage(ans.Usage)
	source := SourceNoFAQ
	if len(matches) > 0 {
		source = SourceFAQ
	}
	usage := ans.Usage
	b.logMessage(llm.RoleAssistant, ans.Text, &usage, session.Extra{Source: source})
	b.state.AddHistory(llm.RoleUser, question)
	b.state.AddHistory(llm.RoleAssistant, ans.Text)
	return ans.Text
}

func (b *Bot) logMessage(role, content string, usage *llm.Usage, extra session.Extra) {
	if err := b.state.LogMessage(role, content, usage, extra); err != nil {
		b.log.Error().Err(err).Str("role", role).Msg("failed to append session log")
	}
}
