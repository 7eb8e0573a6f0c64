// Command voicegram runs the Telegram voice assistant bot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"voicegram/internal/assistant"
	"voicegram/internal/config"
	"voicegram/internal/health"
	"voicegram/internal/observe"
	"voicegram/internal/scratch"
	"voicegram/internal/session"
	"voicegram/internal/telegram"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// A .env file is optional; config values reference its variables through
	// ${VAR} expansion.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "voicegram: load .env: %v\n", err)
		return 1
	}

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "voicegram: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "voicegram: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("voicegram starting",
		"version", version,
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Metrics ───────────────────────────────────────────────────────────────
	shutdownMetrics, err := observe.InitProvider(observe.ProviderConfig{ServiceVersion: version})
	if err != nil {
		slog.Error("failed to initialise metrics", "err", err)
		return 1
	}
	metrics, err := observe.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		slog.Error("failed to create instruments", "err", err)
		return 1
	}

	// ── Scratch storage and sessions ──────────────────────────────────────────
	store, err := scratch.New(cfg.Scratch.Dir)
	if err != nil {
		slog.Error("failed to prepare scratch directory", "err", err)
		return 1
	}
	sessions := session.NewRegistry()

	// ── Assistant client ──────────────────────────────────────────────────────
	api, err := assistant.NewOpenAI(cfg.OpenAI.APIKey, assistant.OpenAIConfig{
		TranscribeModel: cfg.OpenAI.TranscribeModel,
		SpeechModel:     cfg.OpenAI.TTS.Model,
		Voice:           cfg.OpenAI.TTS.Voice,
		Speed:           cfg.OpenAI.TTS.Speed,
	})
	if err != nil {
		slog.Error("failed to create openai client", "err", err)
		return 1
	}
	client := assistant.New(api, store,
		assistant.WithName(cfg.OpenAI.AssistantName),
		assistant.WithInstructions(cfg.OpenAI.Instructions),
		assistant.WithModel(cfg.OpenAI.Model),
		assistant.WithPollInterval(time.Duration(cfg.OpenAI.PollInterval)),
		assistant.WithRunTimeout(time.Duration(cfg.OpenAI.RunTimeout)),
	)
	if err := client.Bootstrap(ctx); err != nil {
		slog.Error("failed to bootstrap assistant", "err", err)
		return 1
	}
	slog.Info("assistant ready", "assistant_id", client.AssistantID())

	// ── Telegram bot ──────────────────────────────────────────────────────────
	bot, err := telegram.New(cfg.Telegram.Token, client, store, sessions, metrics)
	if err != nil {
		slog.Error("failed to create telegram bot", "err", err)
		return 1
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return bot.Run(gctx)
	})

	g.Go(func() error {
		return runSweeper(gctx, store, metrics,
			time.Duration(cfg.Scratch.MaxAge), time.Duration(cfg.Scratch.SweepInterval))
	})

	// ── Operational HTTP server (metrics + health) ────────────────────────────
	if cfg.Server.ListenAddr != "" {
		srv := newOpsServer(cfg.Server.ListenAddr, cfg.Scratch.Dir)
		g.Go(func() error {
			slog.Info("ops server listening", "addr", cfg.Server.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("ops server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	slog.Info("bot ready — press Ctrl+C to shut down")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := shutdownMetrics(shutdownCtx); err != nil {
		slog.Warn("metrics shutdown error", "err", err)
	}
	slog.Info("goodbye")
	return 0
}

// runSweeper periodically removes scratch files older than maxAge until ctx
// is cancelled.
func runSweeper(ctx context.Context, store *scratch.Store, metrics *observe.Metrics, maxAge, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := store.Sweep(maxAge); n > 0 {
				metrics.SweptFiles.Add(ctx, int64(n))
			}
		}
	}
}

// newOpsServer builds the HTTP server exposing /metrics, /healthz and
// /readyz.
func newOpsServer(addr, scratchDir string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", observe.Handler())
	health.New(health.DirWritable("scratch", scratchDir)).Register(mux)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
