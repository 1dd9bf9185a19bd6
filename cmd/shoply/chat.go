package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"shoply-bot/internal/config"
	"shoply-bot/internal/console"
	"shoply-bot/internal/faq"
	"shoply-bot/internal/llm"
	"shoply-bot/internal/orders"
	"shoply-bot/internal/session"
	"shoply-bot/internal/storage"
	"shoply-bot/internal/support"
)

type chatOpts struct {
	envFile    string
	dataDir    string
	logsDir    string
	faqPath    string
	ordersPath string
}

func newChatCmd() *cobra.Command {
	var opts chatOpts

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive support session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "optional .env file; never overrides the process environment")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "directory with faq.json and orders.json (default $DATA_DIR)")
	cmd.Flags().StringVar(&opts.logsDir, "logs-dir", "", "directory for session logs (default $LOGS_DIR)")
	cmd.Flags().StringVar(&opts.faqPath, "faq", "", "FAQ file, JSON or YAML (default <data-dir>/faq.json)")
	cmd.Flags().StringVar(&opts.ordersPath, "orders", "", "orders file, JSON or YAML (default <data-dir>/orders.json)")
	return cmd
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger().Level(lvl)
}

func runChat(cmd *cobra.Command, opts chatOpts) error {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.logsDir != "" {
		cfg.LogsDir = opts.logsDir
	}
	if opts.faqPath == "" {
		opts.faqPath = filepath.Join(cfg.DataDir, "faq.json")
	}
	if opts.ordersPath == "" {
		opts.ordersPath = filepath.Join(cfg.DataDir, "orders.json")
	}

	logger := newLogger(cfg.LogLevel)

	faqEntries, err := faq.Load(opts.faqPath)
	if err != nil {
		return err
	}
	orderBook, err := orders.Load(opts.ordersPath)
	if err != nil {
		return err
	}
	logger.Debug().Int("faq_entries", len(faqEntries)).Int("orders", len(orderBook)).Msg("data loaded")

	client, err := llm.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create llm client: %w", err)
	}

	id := session.NewID(time.Now())
	rec, err := storage.NewFileRecorder(session.LogPath(cfg.LogsDir, id))
	if err != nil {
		return err
	}
	state := session.New(id, cfg.BrandName, cfg.Model(), rec)
	if err := state.InitMeta(); err != nil {
		return err
	}
	logger.Info().Str("session_id", id).Str("log", rec.Path()).Str("model", cfg.Model()).Msg("session started")

	bot := console.New(
		state,
		support.NewResponder(client, cfg.BrandName, cfg.LLMTimeout),
		faqEntries,
		orderBook,
		console.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
		console.WithPrompt(isTerminal(cmd.InOrStdin())),
		console.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return bot.Run(ctx)
}

func isTerminal(in any) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
