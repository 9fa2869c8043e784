package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"shopchat/internal/catalog"
	"shopchat/internal/chat"
	"shopchat/internal/completion"
	"shopchat/internal/config"
	"shopchat/internal/fulfillment"
	"shopchat/internal/ledger"
	"shopchat/internal/server"
	"shopchat/internal/session"
	"shopchat/internal/storage/memory"
	"shopchat/internal/storage/sqlite"
	"shopchat/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Initialize OpenTelemetry
	shutdownTracer, err := telemetry.InitTracer("shopchat", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	configPath := os.Getenv("SHOPCHAT_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	completer := completion.NewClient(cfg.Completion.Endpoint,
		completion.WithAPIKey(cfg.Completion.APIKey),
		completion.WithTimeout(cfg.Completion.Timeout),
	)

	fetcher := catalog.NewFetcher()

	ledgerFactory, err := newLedgerFactory(cfg)
	if err != nil {
		log.Fatalf("Failed to configure order storage: %v", err)
	}

	registry := session.NewRegistry(cfg.Stores, ledgerFactory)

	notifierFor := func(endpoint string) chat.OrderNotifier {
		return fulfillment.New(endpoint, logger)
	}
	chatSvc := chat.New(completer, fetcher, notifierFor, logger)

	srv := server.New(cfg.Server.Port, cfg.Server.RequestTimeout, logger)
	server.NewHandler(registry, chatSvc, logger).Mount(srv)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	case <-sigCh:
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newLedgerFactory builds per-session ledgers. Session state stays private
// to each session: with sqlite storage every account gets its own database
// file, with memory storage every session gets a fresh store.
func newLedgerFactory(cfg *config.Config) (session.LedgerFactory, error) {
	switch cfg.Storage.Type {
	case "", "memory":
		return func(username string) (*ledger.Ledger, error) {
			return ledger.New(memory.New(), cfg.Pricing.UnitPrice), nil
		}, nil
	case "sqlite":
		if err := os.MkdirAll(cfg.Storage.SQLite.Dir, 0o755); err != nil {
			return nil, err
		}
		return func(username string) (*ledger.Ledger, error) {
			store, err := sqlite.New(filepath.Join(cfg.Storage.SQLite.Dir, username+".db"))
			if err != nil {
				return nil, err
			}
			return ledger.New(store, cfg.Pricing.UnitPrice), nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}
