package support

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoply-bot/internal/llm"
)

type fakeLLM struct {
	resp     llm.Response
	err      error
	got      []llm.Message
	deadline bool
}

func (f *fakeLLM) Generate(ctx context.Context, msgs []llm.Message) (llm.Response, error) {
	f.got = msgs
	_, f.deadline = ctx.Deadline()
	return f.resp, f.err
}

func TestSystemPromptInterpolatesBrand(t *testing.T) {
	p := SystemPrompt("Acme")
	assert.Contains(t, p, "магазина Acme")
	assert.Contains(t, p, "ТОЛЬКО")
	assert.Contains(t, p, "оператору")
}

func TestMessagesOrder(t *testing.T) {
	r := NewResponder(nil, "Shoply", 0)

	var hist []llm.Message
	for i := 0; i < 12; i++ {
		hist = append(hist, llm.Message{Role: llm.RoleUser, Content: fmt.Sprintf("h%d", i)})
	}
	msgs := r.Messages(Request{
		Question:     "где мой заказ?",
		FAQContext:   "FAQ",
		OrderContext: "ORDER",
		History:      hist,
	})

	require.Len(t, msgs, 13)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "Shoply")
	assert.Equal(t, llm.Message{Role: llm.RoleSystem, Content: "FAQ\n\nORDER"}, msgs[1])
	assert.Equal(t, "h2", msgs[2].Content)
	assert.Equal(t, "h11", msgs[11].Content)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "где мой заказ?"}, msgs[12])
}

func TestMessagesWithoutOrderContext(t *testing.T) {
	r := NewResponder(nil, "Shoply", 0)
	msgs := r.Messages(Request{Question: "q", FAQContext: "FAQ"})
	require.Len(t, msgs, 3)
	assert.Equal(t, "FAQ", msgs[1].Content)
}

func TestReply(t *testing.T) {
	f := &fakeLLM{resp: llm.Response{
		Content: "  Краткий ответ.\n",
		Model:   "m",
		Usage:   llm.Usage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3},
	}}
	r := NewResponder(f, "Shoply", time.Second)

	ans, err := r.Reply(context.Background(), Request{Question: "q", FAQContext: "ctx"})
	require.NoError(t, err)
	assert.Equal(t, "Краткий ответ.", ans.Text)
	assert.Equal(t, llm.Usage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3}, ans.Usage)
	assert.True(t, f.deadline, "request must carry a timeout")
	assert.Len(t, f.got, 3)
}

func TestReplyErrors(t *testing.T) {
	boom := errors.New("boom")
	r := NewResponder(&fakeLLM{err: boom}, "Shoply", time.Second)
	_, err := r.Reply(context.Background(), Request{Question: "q"})
	require.ErrorIs(t, err, boom)

	usage := llm.Usage{PromptTokens: 4, CompletionTokens: 1, TotalTokens: 5}
	r = NewResponder(&fakeLLM{resp: llm.Response{Content: "   ", Usage: usage}}, "Shoply", time.Second)
	ans, err := r.Reply(context.Background(), Request{Question: "q"})
	require.ErrorIs(t, err, llm.ErrEmptyResponse)
	assert.Empty(t, ans.Text)
	assert.Equal(t, usage, ans.Usage)
}
