package completion

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/paperlens/internal/domain"
	"github.com/kailas-cloud/paperlens/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// InstrumentedCompleter wraps a Completer with rate limiting, budget enforcement and logging.
// Transport metrics (requests, duration, tokens) are recorded in the transport layer.
type InstrumentedCompleter struct {
	inner    domain.Completer
	provider string
	model    string
	budget   BudgetChecker
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// NewInstrumentedCompleter wraps a completer. budget may be nil.
func NewInstrumentedCompleter(
	inner domain.Completer, provider, model string,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedCompleter {
	return &InstrumentedCompleter{
		inner:    inner,
		provider: provider,
		model:    model,
		budget:   budget,
		logger:   logger,
	}
}

// WithRateLimit caps outgoing requests per minute. Zero or negative disables the limiter.
func (p *InstrumentedCompleter) WithRateLimit(perMinute, burst int) *InstrumentedCompleter {
	if perMinute <= 0 {
		p.limiter = nil
		return p
	}
	if burst <= 0 {
		burst = 1
	}
	p.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60), burst)
	return p
}

// Complete waits for the limiter, checks the budget, delegates and records usage.
func (p *InstrumentedCompleter) Complete(
	ctx context.Context, prompt string,
) (domain.CompletionResult, error) {
	if err := p.wait(ctx); err != nil {
		return domain.CompletionResult{}, err
	}

	if p.budget != nil {
		if err := p.budget.Check(ctx); err != nil {
			p.logger.Error("Budget exceeded",
				zap.String("provider", p.provider),
				zap.String("model", p.model),
				zap.Error(err),
			)
			return domain.CompletionResult{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	result, err := p.inner.Complete(ctx, prompt)
	duration := time.Since(start)

	if err != nil {
		p.logger.Error("Completion request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.CompletionResult{}, fmt.Errorf("complete: %w", err)
	}

	if result.Cached {
		domain.UsageFromContext(ctx).AddTokens(0)
	} else {
		domain.UsageFromContext(ctx).AddTokens(result.TotalTokens)
		p.recordBudget(result.TotalTokens)
	}

	p.logger.Debug("Completion request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Bool("cached", result.Cached),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("completion_tokens", result.CompletionTokens),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// wait blocks on the limiter. A wait that would outlive the deadline fails fast.
func (p *InstrumentedCompleter) wait(ctx context.Context) error {
	if p.limiter == nil {
		return nil
	}
	if err := p.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("rate limiter: %w", ctxErr)
		}
		p.logger.Warn("Completion rate limited",
			zap.String("provider", p.provider),
			zap.Error(err),
		)
		return fmt.Errorf("rate limiter: %w", domain.ErrRateLimited)
	}
	return nil
}

func (p *InstrumentedCompleter) recordBudget(totalTokens int) {
	if p.budget == nil {
		return
	}
	p.budget.Record(int64(totalTokens))
	remaining := metrics.CompletionBudgetTokensRemaining
	remaining.WithLabelValues(p.provider, "daily").Set(float64(p.budget.RemainingDaily()))
	remaining.WithLabelValues(p.provider, "monthly").Set(float64(p.budget.RemainingMonthly()))
}
