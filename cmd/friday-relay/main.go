// Friday-relay is the HTTP relay that forwards conversational-AI requests to
// the upstream provider. It holds the provider credential so the assistant
// daemon (and any browser client) never sees it.
//
// Usage:
//
//	friday-relay [flags]
//
// Configuration comes from the environment (OPENAI_KEY, FRIDAY_RELAY_PORT,
// FRIDAY_RELAY_MODEL), optionally loaded from a .env file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fridaylabs/friday/internal/config"
	"github.com/fridaylabs/friday/internal/relay"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	envFile := flag.String("env", ".env", "path to env file")
	flag.Parse()

	if *showVersion {
		fmt.Printf("friday-relay %s\n", version)
		os.Exit(0)
	}

	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load(*envFile)

	cfg, err := config.LoadRelay()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	config.SetupLogging(cfg.Logging)
	slog.Info("friday-relay starting", "version", version)

	if cfg.OpenAIKey == "" {
		slog.Warn("OPENAI_KEY is not set; chat requests will be answered with the credential-missing reply")
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server := relay.New(cfg.OpenAIKey, cfg.Model)
	if err := server.ListenAndServe(ctx, cfg.Port); err != nil {
		slog.Error("relay failed", "error", err)
		os.Exit(1)
	}

	slog.Info("friday-relay stopped")
}
