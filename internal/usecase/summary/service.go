// Package summary turns raw paper text into a structured summary: an AI
// completion when available, local extractors otherwise.
package summary

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/paperlens/internal/domain"
	"github.com/kailas-cloud/paperlens/internal/keyword"
	"github.com/kailas-cloud/paperlens/internal/logger"
	"github.com/kailas-cloud/paperlens/internal/metrics"
	"github.com/kailas-cloud/paperlens/internal/summarize"
	"github.com/kailas-cloud/paperlens/internal/text"
)

const (
	// MinTextLength is the shortest text (in runes) that gets analyzed at all.
	MinTextLength = text.MinDocumentLength
	// DefaultPromptChars is how much of the text goes into the prompt.
	DefaultPromptChars = 4000
	// LimitationsPlaceholder fills Limitations when no model produced them.
	LimitationsPlaceholder = "Limitations could not be determined automatically; review the full text."

	keywordsPerExtractor = 5
	tagCount             = 5

	shortSentences       = 3
	methodologySentences = 2
	findingsSentences    = 2
)

// Fallback reasons.
const (
	ReasonDisabled     = "disabled"
	ReasonServiceError = "service_error"
	ReasonParseError   = "parse_error"
)

type outcomeKind int

const (
	outcomeParsed outcomeKind = iota
	outcomeParseError
	outcomeServiceError
)

// outcome is the result of one AI attempt.
type outcome struct {
	kind   outcomeKind
	parsed aiResponse
	model  string
	err    error
}

// Service is the summary orchestrator. Safe for concurrent use.
type Service struct {
	completer   Completer
	promptChars int
	now         func() time.Time
}

// New creates a summary service. completer may be nil (local extractors only).
func New(completer Completer, promptChars int) *Service {
	if promptChars <= 0 {
		promptChars = DefaultPromptChars
	}
	return &Service{completer: completer, promptChars: promptChars, now: time.Now}
}

// Summarize never fails: AI errors and malformed answers degrade to the local extractors.
// Text shorter than MinTextLength yields an empty summary with source "skipped".
func (s *Service) Summarize(ctx context.Context, raw string) domain.Summary {
	if text.TooShort(raw) {
		metrics.SummariesTotal.WithLabelValues(string(domain.SourceSkipped), "").Inc()
		return domain.Summary{Source: domain.SourceSkipped, GeneratedAt: s.now().UnixMilli()}
	}

	keywords := s.keywords(raw)

	out := s.attempt(ctx, raw)
	if out.kind == outcomeParsed {
		metrics.SummariesTotal.WithLabelValues(string(domain.SourceAI), "").Inc()
		return domain.Summary{
			Short:         out.parsed.Summary,
			Methodology:   out.parsed.Methodology,
			Findings:      string(out.parsed.Findings),
			Limitations:   string(out.parsed.Limitations),
			Keywords:      keywords,
			SuggestedTags: out.parsed.Tags,
			Source:        domain.SourceAI,
			Model:         out.model,
			GeneratedAt:   s.now().UnixMilli(),
		}
	}

	reason := fallbackReason(out)
	log := logger.FromContext(ctx)
	if reason == ReasonDisabled {
		log.Debug("AI summary disabled, using local extractors")
	} else {
		log.Warn("AI summary failed, using local extractors",
			zap.String("reason", reason), zap.Error(out.err))
	}
	metrics.SummariesTotal.WithLabelValues(string(domain.SourceFallback), reason).Inc()

	return s.fallback(raw, keywords, reason)
}

// attempt makes exactly one completion call and classifies the result.
func (s *Service) attempt(ctx context.Context, raw string) outcome {
	if s.completer == nil {
		return outcome{kind: outcomeServiceError, err: domain.ErrCompletionDisabled}
	}

	start := time.Now()
	res, err := s.completer.Complete(ctx, buildPrompt(raw, s.promptChars))
	if err != nil {
		return outcome{kind: outcomeServiceError, err: err}
	}
	logger.FromContext(ctx).Debug("AI summary completed",
		zap.Duration("duration", time.Since(start)),
		zap.String("model", res.Model),
		zap.Int("total_tokens", res.TotalTokens),
		zap.Bool("cached", res.Cached),
	)

	parsed, err := parseResponse(res.Text)
	if err != nil {
		return outcome{kind: outcomeParseError, model: res.Model, err: err}
	}
	return outcome{kind: outcomeParsed, parsed: parsed, model: res.Model}
}

func (s *Service) fallback(raw string, keywords []string, reason string) domain.Summary {
	start := time.Now()
	short := summarize.Summarize(raw, shortSentences)
	methodology := summarize.Summarize(raw, methodologySentences)
	findings := summarize.Summarize(raw, findingsSentences)
	metrics.ObserveStage("textrank", start)

	start = time.Now()
	tags := keyword.Terms(keyword.Frequency(raw, tagCount))
	metrics.ObserveStage("frequency", start)

	return domain.Summary{
		Short:          short,
		Methodology:    methodology,
		Findings:       findings,
		Limitations:    LimitationsPlaceholder,
		Keywords:       keywords,
		SuggestedTags:  tags,
		Source:         domain.SourceFallback,
		FallbackReason: reason,
		GeneratedAt:    s.now().UnixMilli(),
	}
}

// keywords is the TF-IDF-first union of the top TF-IDF and RAKE terms.
func (s *Service) keywords(raw string) []string {
	start := time.Now()
	tfidf := keyword.Terms(keyword.TFIDF(raw, keywordsPerExtractor))
	metrics.ObserveStage("tfidf", start)

	start = time.Now()
	rake := keyword.Terms(keyword.RAKE(raw, keywordsPerExtractor))
	metrics.ObserveStage("rake", start)

	return keyword.Merge(tfidf, rake)
}

func fallbackReason(out outcome) string {
	switch {
	case errors.Is(out.err, domain.ErrCompletionDisabled):
		return ReasonDisabled
	case out.kind == outcomeParseError:
		return ReasonParseError
	default:
		return ReasonServiceError
	}
}
