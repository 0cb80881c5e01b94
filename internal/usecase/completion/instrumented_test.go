package completion

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/paperlens/internal/domain"
	"github.com/kailas-cloud/paperlens/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterCompletionMetrics()
	os.Exit(m.Run())
}

type mockCompleter struct {
	result domain.CompletionResult
	err    error
	calls  int
}

func (m *mockCompleter) Complete(_ context.Context, _ string) (domain.CompletionResult, error) {
	m.calls++
	return m.result, m.err
}

func TestInstrumentedCompleter_Success(t *testing.T) {
	inner := &mockCompleter{result: domain.CompletionResult{Text: `{"summary":"ok"}`, TotalTokens: 42}}
	p := NewInstrumentedCompleter(inner, "test", "test-model", nil, zap.NewNop())

	ctx, usage := domain.NewContextWithUsage(context.Background())
	result, err := p.Complete(ctx, "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != `{"summary":"ok"}` {
		t.Errorf("unexpected text %q", result.Text)
	}
	tokens, used := usage.Snapshot()
	if !used || tokens != 42 {
		t.Errorf("expected usage 42/used, got %d/%v", tokens, used)
	}
}

func TestInstrumentedCompleter_InnerError(t *testing.T) {
	inner := &mockCompleter{err: domain.ErrCompletionFailed}
	p := NewInstrumentedCompleter(inner, "test", "test-model", nil, zap.NewNop())

	_, err := p.Complete(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrCompletionFailed) {
		t.Fatalf("expected ErrCompletionFailed, got %v", err)
	}
}

func TestInstrumentedCompleter_BudgetRejects(t *testing.T) {
	inner := &mockCompleter{result: domain.CompletionResult{TotalTokens: 10}}
	bt := NewBudgetTracker("test-reject", 10, 0, BudgetActionReject, zap.NewNop())
	bt.Record(10)
	p := NewInstrumentedCompleter(inner, "test-reject", "m", bt, zap.NewNop())

	_, err := p.Complete(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrCompletionQuotaExceeded) {
		t.Fatalf("expected ErrCompletionQuotaExceeded, got %v", err)
	}
	if inner.calls != 0 {
		t.Errorf("inner must not be called when budget exhausted, got %d calls", inner.calls)
	}
}

func TestInstrumentedCompleter_RecordsBudget(t *testing.T) {
	inner := &mockCompleter{result: domain.CompletionResult{TotalTokens: 120}}
	bt := NewBudgetTracker("test-record", 1000, 0, BudgetActionReject, zap.NewNop())
	p := NewInstrumentedCompleter(inner, "test-record", "m", bt, zap.NewNop())

	if _, err := p.Complete(context.Background(), "prompt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := bt.DailyUsed(); got != 120 {
		t.Errorf("expected daily_used=120, got %d", got)
	}
	gauge := metrics.CompletionBudgetTokensRemaining.WithLabelValues("test-record", "daily")
	if got := testutil.ToFloat64(gauge); got != 880 {
		t.Errorf("expected remaining gauge 880, got %v", got)
	}
}

func TestInstrumentedCompleter_CachedSkipsBudget(t *testing.T) {
	inner := &mockCompleter{result: domain.CompletionResult{TotalTokens: 120, Cached: true}}
	bt := NewBudgetTracker("test-cached", 1000, 0, BudgetActionReject, zap.NewNop())
	p := NewInstrumentedCompleter(inner, "test-cached", "m", bt, zap.NewNop())

	ctx, usage := domain.NewContextWithUsage(context.Background())
	if _, err := p.Complete(ctx, "prompt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := bt.DailyRequests(); got != 0 {
		t.Errorf("cached result must not count against budget, got %d requests", got)
	}
	tokens, used := usage.Snapshot()
	if !used || tokens != 0 {
		t.Errorf("expected usage 0/used for cache hit, got %d/%v", tokens, used)
	}
}

func TestInstrumentedCompleter_RateLimited(t *testing.T) {
	inner := &mockCompleter{result: domain.CompletionResult{TotalTokens: 1}}
	p := NewInstrumentedCompleter(inner, "test-rl", "m", nil, zap.NewNop()).WithRateLimit(1, 1)

	if _, err := p.Complete(context.Background(), "first"); err != nil {
		t.Fatalf("first call should pass the burst: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Complete(ctx, "second")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
}

func TestInstrumentedCompleter_RateLimitCanceledContext(t *testing.T) {
	inner := &mockCompleter{}
	p := NewInstrumentedCompleter(inner, "test-rl-cancel", "m", nil, zap.NewNop()).WithRateLimit(60, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Complete(ctx, "prompt")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestInstrumentedCompleter_RateLimitDisabled(t *testing.T) {
	inner := &mockCompleter{}
	p := NewInstrumentedCompleter(inner, "test-rl-off", "m", nil, zap.NewNop()).WithRateLimit(0, 0)

	for range 5 {
		if _, err := p.Complete(context.Background(), "prompt"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if inner.calls != 5 {
		t.Errorf("expected 5 calls, got %d", inner.calls)
	}
}
