package paperlens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/paperlens/internal/db"
	dbRedis "github.com/kailas-cloud/paperlens/internal/db/redis"
	"github.com/kailas-cloud/paperlens/internal/domain"
	dombatch "github.com/kailas-cloud/paperlens/internal/domain/batch"
	dompaper "github.com/kailas-cloud/paperlens/internal/domain/paper"
	domusage "github.com/kailas-cloud/paperlens/internal/domain/usage"
	"github.com/kailas-cloud/paperlens/internal/embedding"
	budgetrepo "github.com/kailas-cloud/paperlens/internal/repository/budget"
	paperrepo "github.com/kailas-cloud/paperlens/internal/repository/paper"
	completionuc "github.com/kailas-cloud/paperlens/internal/usecase/completion"
	healthuc "github.com/kailas-cloud/paperlens/internal/usecase/health"
	paperuc "github.com/kailas-cloud/paperlens/internal/usecase/paper"
	summaryuc "github.com/kailas-cloud/paperlens/internal/usecase/summary"
	usageuc "github.com/kailas-cloud/paperlens/internal/usecase/usage"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	sdkProvider             = "sdk"
)

// Internal interfaces, swapped for fakes in tests.
type paperUseCase interface {
	Ingest(ctx context.Context, collection string, in paperuc.NewPaper) (dompaper.Paper, bool, error)
	IngestBatch(ctx context.Context, collection string, items []paperuc.NewPaper) []dombatch.Result
	Get(ctx context.Context, collection, id string) (dompaper.Paper, error)
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string) ([]string, error)
	Regenerate(ctx context.Context, collection, id string) (dompaper.Paper, error)
	Similar(ctx context.Context, collection, id string, opts embedding.RankOptions) ([]embedding.Match, error)
	Analyze(ctx context.Context, raw, contentType string) (paperuc.Analysis, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type usageUseCase interface {
	GetReport(ctx context.Context, period domusage.Period) domusage.Report
}

// Client is the paperlens SDK entry point.
type Client struct {
	store     db.Store
	paperSvc  paperUseCase
	healthSvc healthUseCase
	usageSvc  usageUseCase
	obs       *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("paperlens: database address required (use WithValkey or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("paperlens: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(ctx, store, cfg, obs), nil
}

func createStore(cfg *clientConfig) (*dbRedis.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("paperlens: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("paperlens: unknown driver %q", cfg.driver)
	}
}

func (cfg *clientConfig) pipeline() domain.PipelineConfig {
	p := domain.DefaultPipelineConfig()
	if cfg.maxTextChars > 0 {
		p.MaxTextChars = cfg.maxTextChars
	}
	if cfg.promptChars > 0 {
		p.PromptChars = cfg.promptChars
	}
	if cfg.dimensions > 0 {
		p.Dimensions = cfg.dimensions
	}
	if cfg.maxBatchSize > 0 {
		p.MaxBatchSize = cfg.maxBatchSize
	}
	if cfg.batchWorkers > 0 {
		p.BatchWorkers = cfg.batchWorkers
	}
	return p
}

func wireClient(ctx context.Context, store *dbRedis.Store, cfg *clientConfig, obs *observer) *Client {
	pipeline := cfg.pipeline()

	// Without a completer the summarizer runs on the local extractors only
	// and usage reports stay at zero.
	var (
		completer summaryuc.Completer
		budget    usageuc.BudgetReader
	)
	if cfg.completer != nil {
		action := completionuc.BudgetActionWarn
		if cfg.rejectOverrun {
			action = completionuc.BudgetActionReject
		}
		tracker := completionuc.NewBudgetTracker(
			sdkProvider, cfg.dailyTokens, cfg.monthlyTokens, action, zap.NewNop(),
		).WithStore(ctx, budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))
		completer = completionuc.NewInstrumentedCompleter(
			&completerAdapter{inner: cfg.completer}, sdkProvider, "", tracker, zap.NewNop(),
		)
		budget = tracker
	}

	paperSvc := paperuc.New(paperrepo.New(store), summaryuc.New(completer, pipeline.PromptChars), pipeline).
		WithAITimeout(cfg.aiTimeout)

	return &Client{
		store:     store,
		paperSvc:  paperSvc,
		healthSvc: healthuc.New(store, nil),
		usageSvc:  usageuc.New(budget),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Papers returns the paper service for a given collection.
func (c *Client) Papers(collection string) *PaperService {
	return &PaperService{collection: collection, svc: c.paperSvc, obs: c.obs}
}

// Analyze runs the pipeline on raw text without storing anything.
func (c *Client) Analyze(ctx context.Context, text, contentType string) (_ Analysis, err error) {
	start := time.Now()
	defer func() { c.obs.observe("analyze", start, err) }()

	a, err := c.paperSvc.Analyze(ctx, text, contentType)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze: %w", err)
	}
	s := fromInternalSummary(a.Summary)
	c.obs.observeSummary(s)
	return Analysis{Summary: s, Vector: a.Vector}, nil
}
