package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nyashahama/audit-planner/internal/ai"
	"github.com/nyashahama/audit-planner/internal/api"
	"github.com/nyashahama/audit-planner/internal/config"
	"github.com/nyashahama/audit-planner/internal/history"
	"github.com/nyashahama/audit-planner/internal/metrics"
	"github.com/nyashahama/audit-planner/internal/planner"
	"github.com/nyashahama/audit-planner/internal/risk"
	"github.com/nyashahama/audit-planner/internal/session"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text in development.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port)

	// ── Metrics ───────────────────────────────────────────────────────────────
	m := metrics.New(prometheus.DefaultRegisterer)

	// ── Risk signals ──────────────────────────────────────────────────────────
	catalog := risk.DefaultCatalog()
	var risks risk.Provider
	if cfg.RiskSearchEnabled {
		searcher := risk.NewHTMLSearcher(risk.SearcherConfig{
			BaseURL: cfg.RiskSearchURL,
			Pause:   cfg.RiskSearchDelay,
			Timeout: cfg.RiskSearchTimeout,
		})
		risks = risk.NewWebProvider(searcher, catalog, m, logger)
		logger.Info("risk: web search enabled", "url", cfg.RiskSearchURL)
	} else {
		risks = risk.NewStaticProvider(catalog)
		logger.Info("risk: web search disabled, using fallback table")
	}

	// ── AI ────────────────────────────────────────────────────────────────────
	// Providers are tried in order: OpenAI, Anthropic, DeepSeek. Unset keys
	// are skipped; config guarantees at least one is present.
	var openaiClient, anthropicClient, deepseekClient ai.Completer
	if cfg.OpenAIAPIKey != "" {
		openaiClient = ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	if cfg.AnthropicAPIKey != "" {
		anthropicClient = ai.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}
	if cfg.DeepSeekAPIKey != "" {
		deepseekClient = ai.NewDeepSeekClient(cfg.DeepSeekAPIKey, cfg.DeepSeekModel)
	}
	completer := ai.Chain(logger, openaiClient, anthropicClient, deepseekClient)
	if completer == nil {
		return errors.New("ai: no provider configured")
	}
	logger.Info("ai: providers configured",
		"openai", openaiClient != nil,
		"anthropic", anthropicClient != nil,
		"deepseek", deepseekClient != nil,
	)
	generator := ai.NewGenerator(completer, logger)

	// ── Planner & session ─────────────────────────────────────────────────────
	hist := history.NewStore()
	svc := planner.New(risks, generator, hist, m, logger)
	sess := session.New(hist)

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		svc,
		sess,
		prometheus.DefaultGatherer,
		api.Config{
			Env:            cfg.Env,
			RequestTimeout: cfg.RequestTimeout,
		},
		logger,
	)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// A generation makes two model calls and two search requests.
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until either a signal arrives or the server dies unexpectedly.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Give in-flight generations up to 20 seconds to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete", "records", hist.Len())
	return nil
}
