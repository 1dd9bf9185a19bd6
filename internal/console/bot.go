// Package console runs the interactive support chat on a line-oriented
// terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"shoply-bot/internal/faq"
	"shoply-bot/internal/orders"
	"shoply-bot/internal/session"
	"shoply-bot/internal/support"
)

const (
	farewell   = "Хорошего дня!"
	userPrompt = "Вы: "
	botPrefix  = "Бот: "
)

type Bot struct {
	state     *session.State
	responder *support.Responder
	faq       []faq.Entry
	orders    map[string]orders.Order

	in         io.Reader
	out        io.Writer
	showPrompt bool
	log        zerolog.Logger
}

type Option func(*Bot)

// WithIO replaces stdin/stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(b *Bot) {
		b.in = in
		b.out = out
	}
}

// WithPrompt controls whether "Вы: " is printed before each read.
func WithPrompt(show bool) Option {
	return func(b *Bot) { b.showPrompt = show }
}

func WithLogger(l zerolog.Logger) Option {
	return func(b *Bot) { b.log = l }
}

func New(state *session.State, responder *support.Responder, faqEntries []faq.Entry, orderBook map[string]orders.Order, opts ...Option) *Bot {
	b := &Bot{
		state:     state,
		responder: responder,
		faq:       faqEntries,
		orders:    orderBook,
		in:        os.Stdin,
		out:       os.Stdout,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run reads lines until an exit command, end of input or ctx cancellation,
// then writes the session usage summary.
func (b *Bot) Run(ctx context.Context) error {
	fmt.Fprintf(b.out, "%s support bot. /order <id>, /exit для выхода.\n", b.state.Brand)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Lines are still handled one at a time; the reader goroutine only lets
	// ctx interrupt a blocked read.
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		var err error
		defer func() {
			readErr <- err
			close(lines)
		}()
		s := bufio.NewScanner(b.in)
		s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for s.Scan() {
			select {
			case lines <- s.Text():
			case <-ctx.Done():
				return
			}
		}
		err = s.Err()
	}()

	var err error
loop:
	for {
		if b.showPrompt {
			fmt.Fprint(b.out, userPrompt)
		}
		select {
		case <-ctx.Done():
			fmt.Fprintf(b.out, "\n%s%s\n", botPrefix, farewell)
			break loop
		case line, ok := <-lines:
			if !ok {
				err = <-readErr
				fmt.Fprintf(b.out, "\n%s%s\n", botPrefix, farewell)
				break loop
			}
			exit, reply := b.HandleInput(ctx, line)
			if reply != "" {
				fmt.Fprintf(b.out, "%s%s\n", botPrefix, reply)
			}
			if exit {
				break loop
			}
		}
	}

	if logErr := b.state.LogUsageSummary(); logErr != nil {
		b.log.Error().Err(logErr).Msg("failed to write usage summary")
	}
	usage := b.state.Usage()
	b.log.Info().
		Str("session_id", b.state.ID).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Msg("session finished")
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
