// Package ollama adapts local models served by Ollama to domain.Completer.
package ollama

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"

	"github.com/kailas-cloud/paperlens/internal/domain"
	"github.com/kailas-cloud/paperlens/internal/metrics"
)

// DefaultBaseURL is the local Ollama endpoint.
const DefaultBaseURL = "http://localhost:11434"

const systemPrompt = "You are a research assistant. Reply with a single JSON object and nothing else."

// Config holds the local model settings.
type Config struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	JSONMode    bool
	Provider    string
	Logger      *zap.Logger
}

// Completer generates text through a langchaingo model.
type Completer struct {
	llm         llms.Model
	model       string
	temperature float64
	maxTokens   int
	provider    string
	logger      *zap.Logger
}

// NewCompleter connects to an Ollama server.
func NewCompleter(cfg *Config) (*Completer, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	opts := []ollama.Option{
		ollama.WithModel(cfg.Model),
		ollama.WithServerURL(baseURL),
	}
	if cfg.JSONMode {
		opts = append(opts, ollama.WithFormat("json"))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init ollama: %w", err)
	}
	return newCompleter(llm, cfg), nil
}

func newCompleter(llm llms.Model, cfg *Config) *Completer {
	return &Completer{
		llm:         llm,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		provider:    cfg.Provider,
		logger:      cfg.Logger,
	}
}

// Complete implements domain.Completer.
func (c *Completer) Complete(ctx context.Context, prompt string) (domain.CompletionResult, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	callOpts := []llms.CallOption{llms.WithTemperature(c.temperature)}
	if c.maxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(c.maxTokens))
	}

	start := time.Now()
	resp, err := c.llm.GenerateContent(ctx, content, callOpts...)
	duration := time.Since(start)

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		metrics.CompletionErrorsTotal.WithLabelValues(c.provider, c.model, "api_error").Inc()
		return domain.CompletionResult{}, fmt.Errorf("ollama generate: %v: %w", err, domain.ErrCompletionFailed)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil || resp.Choices[0].Content == "" {
		metrics.CompletionRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		metrics.CompletionErrorsTotal.WithLabelValues(c.provider, c.model, "empty_response").Inc()
		return domain.CompletionResult{}, fmt.Errorf("empty completion response: %w", domain.ErrCompletionFailed)
	}

	metrics.CompletionRequestsTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues(c.provider, c.model).Observe(duration.Seconds())

	choice := resp.Choices[0]
	promptTokens := intInfo(choice.GenerationInfo, "PromptTokens")
	completionTokens := intInfo(choice.GenerationInfo, "CompletionTokens")
	totalTokens := intInfo(choice.GenerationInfo, "TotalTokens")
	if totalTokens == 0 {
		totalTokens = promptTokens + completionTokens
	}
	if totalTokens > 0 {
		metrics.CompletionTokensTotal.WithLabelValues(c.provider, c.model, "prompt").Add(float64(promptTokens))
		metrics.CompletionTokensTotal.WithLabelValues(c.provider, c.model, "completion").Add(float64(completionTokens))
	}

	c.logger.Debug("Local completion finished",
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.String("stop_reason", choice.StopReason),
	)

	return domain.CompletionResult{
		Text:             choice.Content,
		Model:            c.model,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      totalTokens,
	}, nil
}

// intInfo reads a token counter from generation info; ollama reports plain ints.
func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
