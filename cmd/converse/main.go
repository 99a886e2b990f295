// Command converse is an interactive terminal chat over multiple LLM
// providers. Credentials come from the environment (a .env file is loaded
// when present); everything else is configured through converse.toml and the
// in-chat config command.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/lfpereira/converse/chat"
	"github.com/lfpereira/converse/internal/cli"
	"github.com/lfpereira/converse/internal/config"
	"github.com/lfpereira/converse/providers/ai"
	"github.com/lfpereira/converse/transcript"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "converse:", err)
		os.Exit(1)
	}
}

func run() error {
	providerFlag := flag.String("provider", "", "provider to chat with (overrides the settings file)")
	configFlag := flag.String("config", "", "path to the settings file")
	verboseFlag := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verboseFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	settings, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *providerFlag != "" {
		settings.Provider = *providerFlag
	}

	adapter, err := cli.NewAdapter(settings.Provider)
	if err != nil {
		return err
	}

	session := chat.NewSession(ai.NewClient(adapter, ai.WithLogger(logger)), chat.WithLogger(logger))
	if len(settings.Params) > 0 {
		result := session.UpdateConfig(settings.Params)
		if !result.OK() {
			return fmt.Errorf("settings file: %w", result.Rejected[0])
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(session, transcript.NewWriter(settings.HistoryDir), logger)
	return app.Run(ctx)
}
