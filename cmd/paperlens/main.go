package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/paperlens/internal/config"
	dbRedis "github.com/kailas-cloud/paperlens/internal/db/redis"
	"github.com/kailas-cloud/paperlens/internal/domain"
	logpkg "github.com/kailas-cloud/paperlens/internal/logger"
	"github.com/kailas-cloud/paperlens/internal/metrics"
	budgetrepo "github.com/kailas-cloud/paperlens/internal/repository/budget"
	"github.com/kailas-cloud/paperlens/internal/repository/completioncache"
	paperrepo "github.com/kailas-cloud/paperlens/internal/repository/paper"
	chiTransport "github.com/kailas-cloud/paperlens/internal/transport/chi"
	ollamaTransport "github.com/kailas-cloud/paperlens/internal/transport/ollama"
	openaiTransport "github.com/kailas-cloud/paperlens/internal/transport/openai"
	completionuc "github.com/kailas-cloud/paperlens/internal/usecase/completion"
	healthuc "github.com/kailas-cloud/paperlens/internal/usecase/health"
	paperuc "github.com/kailas-cloud/paperlens/internal/usecase/paper"
	summaryuc "github.com/kailas-cloud/paperlens/internal/usecase/summary"
	usageuc "github.com/kailas-cloud/paperlens/internal/usecase/usage"
	"github.com/kailas-cloud/paperlens/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting "+version.String(),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	// valkey speaks the same protocol, both drivers share the rueidis store
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Explicit registration, no init()
	metrics.RegisterCompletionMetrics()
	metrics.RegisterPipelineMetrics()
	metrics.RegisterHTTPMetrics()

	// Single BudgetTracker shared by the completer chain and the usage service.
	var budget *completionuc.BudgetTracker
	if cfg.AIEnabled() {
		action := completionuc.BudgetActionWarn
		if cfg.AI.Budget.Action == "reject" {
			action = completionuc.BudgetActionReject
		}
		budget = completionuc.NewBudgetTracker(
			cfg.AI.Provider, cfg.AI.Budget.DailyTokenLimit, cfg.AI.Budget.MonthlyTokenLimit, action, logger,
		)
		budget.WithStore(ctx, budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))
	}

	completer, healthChecker, err := buildCompleter(&cfg, store, budget, logger)
	if err != nil {
		logger.Fatal("Failed to create completer", zap.Error(err))
	}

	// A nil completer keeps the summarizer on the local extractors.
	summarizer := summaryuc.New(completer, cfg.Pipeline.PromptChars)

	paperSvc := paperuc.New(paperrepo.New(store), summarizer, cfg.PipelineSettings()).
		WithAITimeout(cfg.AITimeout())

	var budgetReader usageuc.BudgetReader
	if budget != nil {
		budgetReader = budget
	}
	usageSvc := usageuc.New(budgetReader)

	healthSvc := healthuc.New(store, healthChecker)

	server := chiTransport.NewServer(paperSvc, usageSvc, healthSvc, logger).
		WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildCompleter assembles the decorator chain: provider -> Cached -> Instrumented.
// Returns a nil completer when AI is disabled. The health checker is nil when the
// provider has no health endpoint.
func buildCompleter(
	cfg *config.Config,
	store *dbRedis.Store,
	budget *completionuc.BudgetTracker,
	logger *zap.Logger,
) (domain.Completer, healthuc.CompletionChecker, error) {
	var (
		base    domain.Completer
		checker healthuc.CompletionChecker
	)

	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		c := openaiTransport.NewCompleter(&openaiTransport.Config{
			APIKey:      cfg.AI.APIKey,
			BaseURL:     cfg.AI.BaseURL,
			Model:       cfg.AI.Model,
			Temperature: float32(cfg.AI.Temperature),
			MaxTokens:   cfg.AI.MaxTokens,
			JSONMode:    cfg.AI.JSONMode,
			Provider:    cfg.AI.Provider,
			Logger:      logger,
		})
		base, checker = c, c
	case config.ProviderOllama:
		c, err := ollamaTransport.NewCompleter(&ollamaTransport.Config{
			BaseURL:     cfg.AI.BaseURL,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
			JSONMode:    cfg.AI.JSONMode,
			Provider:    cfg.AI.Provider,
			Logger:      logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("ollama completer: %w", err)
		}
		base = c
	default:
		logger.Info("AI summaries disabled, using local fallback")
		return nil, nil, nil
	}

	completer := base
	if cfg.AI.Cache.Enabled {
		completer = completioncache.New(
			completer, store, cfg.AI.Model, cfg.CacheTTL(), metrics.CompletionCacheTotal, logger,
		)
	}

	// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
	var budgetChecker completionuc.BudgetChecker
	if budget != nil {
		budgetChecker = budget
	}
	completer = completionuc.NewInstrumentedCompleter(
		completer, cfg.AI.Provider, cfg.AI.Model, budgetChecker, logger,
	).WithRateLimit(cfg.AI.RequestsPerMinute, cfg.AI.Burst)

	logger.Info("Completer created",
		zap.String("provider", cfg.AI.Provider),
		zap.String("model", cfg.AI.Model),
		zap.Bool("cache", cfg.AI.Cache.Enabled),
		zap.Int("requests_per_minute", cfg.AI.RequestsPerMinute),
	)
	return completer, checker, nil
}
