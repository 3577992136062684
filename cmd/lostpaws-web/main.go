// Command lostpaws-web serves the lost-pet search API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/scrypster/lostpaws/internal/config"
	"github.com/scrypster/lostpaws/internal/engine"
	"github.com/scrypster/lostpaws/internal/llm"
	"github.com/scrypster/lostpaws/internal/logging"
	"github.com/scrypster/lostpaws/internal/server"
	"github.com/scrypster/lostpaws/internal/storage"
	"github.com/scrypster/lostpaws/internal/storage/postgres"
	"github.com/scrypster/lostpaws/internal/storage/sqlite"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (default: $"+config.ConfigFileEnv+")")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Security.SecurityMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("lostpaws-web stopped", zap.Error(err))
		os.Exit(1)
	}
}

// run wires storage, the recommendation engine and the HTTP server, then
// blocks until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	recommender, err := newRecommendationEngine(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}

	addr, _, err := server.Start(ctx, cfg, store, recommender, logger)
	if err != nil {
		return err
	}
	logger.Info("lostpaws API running",
		zap.String("url", "http://"+addr),
		zap.String("storage", cfg.Storage.StorageEngine),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.Bool("remote_analysis", cfg.RemoteEnabled()))

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

func openStore(cfg *config.Config) (storage.ReportStore, error) {
	switch cfg.Storage.StorageEngine {
	case "postgres":
		return postgres.NewReportStore(cfg.Storage.PostgresDSN)
	default:
		if err := os.MkdirAll(cfg.Storage.DataPath, 0o750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		return sqlite.NewReportStore(filepath.Join(cfg.Storage.DataPath, "lostpaws.db"))
	}
}

// newRecommendationEngine builds the engine. Without a usable provider every
// request is served by fallback generation.
func newRecommendationEngine(cfg *config.Config, logger *zap.Logger) (*engine.RecommendationEngine, error) {
	engineCfg := engine.RecommendationEngineConfig{SightingWindow: cfg.Engine.SightingWindow}

	if !cfg.RemoteEnabled() {
		logger.Warn("remote analysis disabled, using fallback search areas only",
			zap.String("llm_provider", cfg.LLM.Provider))
		return engine.NewRecommendationEngine(nil, nil, engineCfg, logger), nil
	}

	completer, err := llm.NewChatCompleter(llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	if completer == nil {
		return engine.NewRecommendationEngine(nil, nil, engineCfg, logger), nil
	}

	return engine.NewRecommendationEngine(llm.NewSearchAnalyzer(completer, logger), nil, engineCfg, logger), nil
}
