package paperlens

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	password string

	completer     Completer
	aiTimeout     time.Duration
	dailyTokens   int64
	monthlyTokens int64
	rejectOverrun bool

	maxTextChars int
	promptChars  int
	dimensions   int
	maxBatchSize int
	batchWorkers int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCompleter enables AI summaries through the given provider.
func WithCompleter(comp Completer) Option {
	return optionFunc(func(c *clientConfig) {
		c.completer = comp
	})
}

// WithTokenBudget caps completer tokens per UTC day and month (0 = unlimited).
// With reject set, calls over budget fail and the summary falls back to the
// local extractors; otherwise the overrun is only logged.
func WithTokenBudget(daily, monthly int64, reject bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.dailyTokens = daily
		c.monthlyTokens = monthly
		c.rejectOverrun = reject
	})
}

// WithAITimeout bounds each summary step. Default: 30s.
func WithAITimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.aiTimeout = d
	})
}

// WithMaxTextChars caps stored text length. Default: 50000.
func WithMaxTextChars(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxTextChars = n
	})
}

// WithPromptChars caps how much text is sent to the completer. Default: 4000.
func WithPromptChars(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.promptChars = n
	})
}

// WithDimensions sets the hashed embedding size. Default: 128.
func WithDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = dim
	})
}

// WithBatch sets the maximum batch size and the number of concurrent workers.
// Defaults: 100 items, 4 workers.
func WithBatch(maxSize, workers int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = maxSize
		c.batchWorkers = workers
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
