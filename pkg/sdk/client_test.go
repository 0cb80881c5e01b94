package paperlens

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/paperlens/internal/domain"
	domusage "github.com/kailas-cloud/paperlens/internal/domain/usage"
	healthuc "github.com/kailas-cloud/paperlens/internal/usecase/health"
	paperuc "github.com/kailas-cloud/paperlens/internal/usecase/paper"
)

func TestNew_NoAddress(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestCreateStore_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown", addrs: []string{"localhost:1234"}}
	if _, err := createStore(cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithValkey("localhost:6379", "secret").apply(cfg)
	if cfg.driver != "valkey" || cfg.addrs[0] != "localhost:6379" || cfg.password != "secret" {
		t.Errorf("valkey option: %+v", cfg)
	}

	WithRedis("localhost:6380", "pass").apply(cfg)
	if cfg.driver != "redis" || cfg.addrs[0] != "localhost:6380" {
		t.Errorf("redis option: %+v", cfg)
	}

	WithTokenBudget(1000, 20000, true).apply(cfg)
	if cfg.dailyTokens != 1000 || cfg.monthlyTokens != 20000 || !cfg.rejectOverrun {
		t.Errorf("budget option: %+v", cfg)
	}

	WithAITimeout(5 * time.Second).apply(cfg)
	if cfg.aiTimeout != 5*time.Second {
		t.Errorf("aiTimeout = %v, want 5s", cfg.aiTimeout)
	}

	logger := slog.Default()
	WithLogger(logger).apply(cfg)
	if cfg.logger != logger {
		t.Error("expected logger to be set")
	}

	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg)
	if cfg.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}

	comp := &mockCompleter{}
	WithCompleter(comp).apply(cfg)
	if cfg.completer != comp {
		t.Error("expected completer to be set")
	}
}

func TestPipelineDefaults(t *testing.T) {
	def := domain.DefaultPipelineConfig()

	got := (&clientConfig{}).pipeline()
	if got != def {
		t.Errorf("pipeline() = %+v, want defaults %+v", got, def)
	}

	cfg := &clientConfig{}
	WithDimensions(64).apply(cfg)
	WithMaxTextChars(1000).apply(cfg)
	WithPromptChars(500).apply(cfg)
	WithBatch(10, 2).apply(cfg)
	got = cfg.pipeline()
	want := domain.PipelineConfig{MaxTextChars: 1000, PromptChars: 500, Dimensions: 64, MaxBatchSize: 10, BatchWorkers: 2}
	if got != want {
		t.Errorf("pipeline() = %+v, want %+v", got, want)
	}
}

func TestClient_Close_NilStore(t *testing.T) {
	c := &Client{store: nil}
	c.Close()
}

func TestCompleterAdapter(t *testing.T) {
	adapter := &completerAdapter{inner: &mockCompleter{
		fn: func(_ context.Context, prompt string) (Completion, error) {
			if prompt != "p" {
				t.Errorf("prompt = %q", prompt)
			}
			return Completion{Text: "{}", Model: "m", PromptTokens: 7, CompletionTokens: 3}, nil
		},
	}}

	res, err := adapter.Complete(context.Background(), "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalTokens != 10 || res.Model != "m" || res.Text != "{}" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestCompleterAdapter_Error(t *testing.T) {
	adapter := &completerAdapter{inner: &mockCompleter{
		fn: func(context.Context, string) (Completion, error) {
			return Completion{}, errors.New("provider down")
		},
	}}
	if _, err := adapter.Complete(context.Background(), "p"); err == nil {
		t.Fatal("expected error from adapter")
	}
}

func TestClient_Analyze(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	c := &Client{
		obs: obs,
		paperSvc: &mockPaperUC{
			analyzeFn: func(_ context.Context, raw, contentType string) (paperuc.Analysis, error) {
				if contentType != ContentTypeHTML {
					t.Errorf("contentType = %q", contentType)
				}
				return paperuc.Analysis{
					Summary: domain.Summary{Short: "s", Source: domain.SourceFallback, FallbackReason: "disabled"},
					Vector:  []float32{1},
				}, nil
			},
		},
	}

	a, err := c.Analyze(context.Background(), "<p>x</p>", ContentTypeHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Summary.Source != SourceFallback || a.Summary.FallbackReason != "disabled" {
		t.Errorf("unexpected summary: %+v", a.Summary)
	}
	if got := testutil.ToFloat64(obs.metrics.summaries.WithLabelValues("fallback")); got != 1 {
		t.Errorf("summaries{fallback} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("analyze", "ok")); got != 1 {
		t.Errorf("operations{analyze,ok} = %v, want 1", got)
	}
}

func TestClient_Health(t *testing.T) {
	c := &Client{healthSvc: &mockHealthUC{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError},
	}}}

	h := c.Health(context.Background())
	if h.Healthy() {
		t.Error("degraded report should not be healthy")
	}
	if h.Checks["database"] != "error" {
		t.Errorf("database check = %q", h.Checks["database"])
	}
}

func TestClient_Usage(t *testing.T) {
	resets := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	c := &Client{usageSvc: &mockUsageUC{report: domusage.NewReport(
		domusage.PeriodMonth,
		time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		resets.UnixMilli(),
		domusage.Metrics{Requests: 4, Tokens: 900},
		domusage.Budget{TokensLimit: 1000, TokensRemaining: 100, ResetsAt: resets.UnixMilli()},
	)}}

	r := c.Usage(context.Background(), PeriodMonth)
	if r.Requests != 4 || r.Tokens != 900 {
		t.Errorf("usage = %d/%d, want 4/900", r.Requests, r.Tokens)
	}
	if r.Budget.TokensRemaining != 100 || !r.Budget.ResetsAt.Equal(resets) {
		t.Errorf("unexpected budget: %+v", r.Budget)
	}
}

func TestUsage_TotalHasZeroTimes(t *testing.T) {
	c := &Client{usageSvc: &mockUsageUC{report: domusage.NewReport(
		domusage.PeriodTotal, 0, 0, domusage.Metrics{}, domusage.Budget{TokensRemaining: -1},
	)}}

	r := c.Usage(context.Background(), PeriodTotal)
	if !r.PeriodStart.IsZero() || !r.Budget.ResetsAt.IsZero() {
		t.Errorf("total report should carry zero times: %+v", r)
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
	obs.observeSummary(Summary{Source: SourceAI})
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("paper.get", time.Now().Add(-10*time.Millisecond), nil)
	obs.observe("paper.get", time.Now(), errors.New("fail"))

	if got := testutil.CollectAndCount(obs.metrics.operations, "paperlens_sdk_operations_total"); got != 2 {
		t.Errorf("operations samples = %d, want 2", got)
	}
}

func TestObserver_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first observer: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second observer: %v", err)
	}
	if first.metrics.operations != second.metrics.operations {
		t.Error("second observer should reuse the registered collectors")
	}
}

func TestObserver_WithLogger(t *testing.T) {
	obs, err := newObserver(slog.Default(), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("test.op", time.Now(), nil)
	obs.observe("test.op", time.Now(), errors.New("test error"))
	obs.observeSummary(Summary{Source: SourceFallback, FallbackReason: "timeout"})
}
