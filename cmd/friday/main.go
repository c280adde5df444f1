// Friday is a conversational voice assistant daemon. It turns one line of
// typed or recognized text into a reply (a profile command, a built-in
// answer, a translation, or a conversational-AI response), then speaks and
// records it.
//
// Usage:
//
//	friday [flags]
//	friday --config /path/to/friday.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fridaylabs/friday/internal/adapter/chat"
	"github.com/fridaylabs/friday/internal/adapter/translate"
	"github.com/fridaylabs/friday/internal/app"
	"github.com/fridaylabs/friday/internal/config"
	"github.com/fridaylabs/friday/internal/dispatch"
	"github.com/fridaylabs/friday/internal/health"
	"github.com/fridaylabs/friday/internal/profile"
	"github.com/fridaylabs/friday/internal/speech"
	"github.com/fridaylabs/friday/internal/speech/piper"
	"github.com/fridaylabs/friday/internal/store"
	"github.com/fridaylabs/friday/internal/transcript"
	"github.com/fridaylabs/friday/internal/transport"
	httptransport "github.com/fridaylabs/friday/internal/transport/http"
)

// version is set at build time via ldflags.
var version = "dev"

// xdgNavigator opens destinations with the desktop's URL handler.
type xdgNavigator struct{}

func (xdgNavigator) Open(name, url string) {
	if err := exec.Command("xdg-open", url).Start(); err != nil {
		slog.Warn("failed to open destination", "name", name, "error", err)
	}
}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/friday.yaml)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("friday %s\n", version)
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging.
	config.SetupLogging(cfg.Logging)
	slog.Info("friday starting", "version", version)

	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Open the document store backing profiles and the transcript.
	docs, err := store.Open(cfg.Storage.Path)
	if err != nil {
		slog.Error("failed to open store", "path", cfg.Storage.Path, "error", err)
		os.Exit(1)
	}
	defer docs.Close()

	profiles := profile.New(docs)
	transcriptLog := transcript.New(docs)

	// Initialize the speech engine.
	var engine speech.Engine = speech.NullEngine{}
	if cfg.Speech.Enabled {
		switch cfg.Speech.Backend {
		case "piper":
			engine = piper.New(cfg.Speech.Piper, nil)
			slog.Info("using piper speech engine", "endpoint", cfg.Speech.Piper.Endpoint, "voices", len(cfg.Speech.Piper.Voices))
		default:
			slog.Error("unknown speech backend", "backend", cfg.Speech.Backend)
			os.Exit(1)
		}
	}
	defer engine.Close()

	controller := speech.NewController(engine, profiles)
	a := app.New(profiles, transcriptLog, controller, engine)

	// Remote adapters. An empty relay URL disables the AI catch-all; the
	// dispatcher then answers from its canned pool.
	translator := translate.New(cfg.Translation.Endpoint)
	var chatter dispatch.Chatter
	if cfg.Chat.RelayURL != "" {
		chatter = chat.New(cfg.Chat.RelayURL)
		slog.Info("using conversational-AI relay", "url", cfg.Chat.RelayURL)
	}

	dispatcher := dispatch.New(
		profiles, transcriptLog, controller,
		translator, chatter,
		xdgNavigator{}, a,
		cfg.Destinations,
	)
	a.SetDispatcher(dispatcher)

	// Start health check server.
	healthServer := health.New(cfg.Server.HealthPort)
	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	// Restore the session and speak the startup greetings.
	if err := a.Start(ctx); err != nil {
		slog.Error("failed to restore session", "error", err)
		os.Exit(1)
	}

	// Start the transports.
	transports := []transport.Transport{httptransport.New(cfg.Server.Port)}

	var wg sync.WaitGroup
	for _, t := range transports {
		wg.Add(1)
		go func(t transport.Transport) {
			defer wg.Done()
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(ctx, a); err != nil {
				slog.Error("transport failed", "name", t.Name(), "error", err)
			}
		}(t)
	}

	healthServer.SetReady(true)
	slog.Info("friday ready", "port", cfg.Server.Port, "health_port", cfg.Server.HealthPort)

	// Block until shutdown signal.
	<-ctx.Done()
	slog.Info("shutdown signal received, draining...")

	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	a.Stop()
	wg.Wait()
	slog.Info("friday stopped")
}
