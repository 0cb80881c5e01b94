// Package paper runs the document pipeline: sanitize, summarize, embed, persist.
package paper

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/kailas-cloud/paperlens/internal/domain"
	dompaper "github.com/kailas-cloud/paperlens/internal/domain/paper"
	"github.com/kailas-cloud/paperlens/internal/embedding"
	"github.com/kailas-cloud/paperlens/internal/logger"
	"github.com/kailas-cloud/paperlens/internal/metrics"
	"github.com/kailas-cloud/paperlens/internal/text"
)

// DefaultAITimeout bounds the summary step, AI call included.
const DefaultAITimeout = 30 * time.Second

// NewPaper is an ingest request.
type NewPaper struct {
	ID          string // generated when empty
	Title       string
	Text        string
	ContentType string
}

// Analysis is the stateless pipeline output.
type Analysis struct {
	Summary domain.Summary
	Vector  []float32
}

// Service handles paper ingestion and retrieval.
type Service struct {
	repo       Repository
	summarizer Summarizer
	cfg        domain.PipelineConfig
	aiTimeout  time.Duration
	sanitizer  *bluemonday.Policy
	newID      func() string
}

// New creates a paper service. Zero config fields fall back to defaults.
func New(repo Repository, summarizer Summarizer, cfg domain.PipelineConfig) *Service {
	def := domain.DefaultPipelineConfig()
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = def.Dimensions
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = def.MaxBatchSize
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = def.BatchWorkers
	}
	return &Service{
		repo:       repo,
		summarizer: summarizer,
		cfg:        cfg,
		aiTimeout:  DefaultAITimeout,
		sanitizer:  bluemonday.StrictPolicy(),
		newID:      uuid.NewString,
	}
}

// WithAITimeout configures the summary deadline.
func (s *Service) WithAITimeout(d time.Duration) *Service {
	if d > 0 {
		s.aiTimeout = d
	}
	return s
}

// Ingest analyzes and stores a paper. Returns the stored paper and true if it was created.
func (s *Service) Ingest(ctx context.Context, collection string, in NewPaper) (dompaper.Paper, bool, error) {
	if err := validateCollection(collection); err != nil {
		return dompaper.Paper{}, false, err
	}

	p, err := s.prepare(in)
	if err != nil {
		metrics.PapersIngestedTotal.WithLabelValues("error").Inc()
		return dompaper.Paper{}, false, err
	}

	ctx = logger.With(ctx, zap.String("collection", collection), zap.String("paper_id", p.ID()))
	analysis := s.analyze(ctx, p.Content())
	p = p.WithAnalysis(analysis.Summary, analysis.Vector)

	created, err := s.repo.Upsert(ctx, collection, &p)
	if err != nil {
		metrics.PapersIngestedTotal.WithLabelValues("error").Inc()
		return dompaper.Paper{}, false, fmt.Errorf("upsert paper: %w", err)
	}
	if created {
		metrics.PapersIngestedTotal.WithLabelValues("created").Inc()
	} else {
		metrics.PapersIngestedTotal.WithLabelValues("updated").Inc()
	}

	logger.FromContext(ctx).Debug("Paper ingested",
		zap.Bool("created", created),
		zap.String("summary_source", string(analysis.Summary.Source)),
	)

	stored, err := s.repo.Get(ctx, collection, p.ID())
	if err != nil {
		return dompaper.Paper{}, false, fmt.Errorf("get paper: %w", err)
	}
	return stored, created, nil
}

// prepare validates the request and produces the text the pipeline works on.
func (s *Service) prepare(in NewPaper) (dompaper.Paper, error) {
	id := in.ID
	if id == "" {
		id = s.newID()
	}

	p, err := dompaper.New(id, in.Title, in.Text, in.ContentType)
	if err != nil {
		return dompaper.Paper{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	content := p.Content()
	if p.ContentType() == dompaper.ContentTypeHTML {
		content = htmlToText(s.sanitizer, content)
		if content == "" {
			return dompaper.Paper{}, fmt.Errorf("%w: html has no text content", domain.ErrInvalidInput)
		}
	}
	if s.cfg.MaxTextChars > 0 {
		content = text.Truncate(content, s.cfg.MaxTextChars)
	}
	return p.WithContent(content), nil
}

// analyze runs the summary orchestrator under the AI deadline and embeds the text.
func (s *Service) analyze(ctx context.Context, content string) Analysis {
	aiCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	summary := s.summarizer.Summarize(aiCtx, content)

	start := time.Now()
	vec := embedding.Embed(content, s.cfg.Dimensions)
	metrics.ObserveStage("embed", start)

	return Analysis{Summary: summary, Vector: vec}
}

// Get returns a stored paper.
func (s *Service) Get(ctx context.Context, collection, id string) (dompaper.Paper, error) {
	if err := validateRef(collection, id); err != nil {
		return dompaper.Paper{}, err
	}
	p, err := s.repo.Get(ctx, collection, id)
	if err != nil {
		return dompaper.Paper{}, fmt.Errorf("get paper: %w", err)
	}
	return p, nil
}

// Delete removes a paper.
func (s *Service) Delete(ctx context.Context, collection, id string) error {
	if err := validateRef(collection, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, collection, id); err != nil {
		return fmt.Errorf("delete paper: %w", err)
	}
	return nil
}

// List returns the sorted ids of a collection's papers.
func (s *Service) List(ctx context.Context, collection string) ([]string, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}
	ids, err := s.repo.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	return ids, nil
}

// Regenerate recomputes a stored paper's summary, skipping the completion cache.
func (s *Service) Regenerate(ctx context.Context, collection, id string) (dompaper.Paper, error) {
	p, err := s.Get(ctx, collection, id)
	if err != nil {
		return dompaper.Paper{}, err
	}

	ctx = logger.With(ctx, zap.String("collection", collection), zap.String("paper_id", id))
	aiCtx, cancel := context.WithTimeout(domain.WithCacheBypass(ctx), s.aiTimeout)
	defer cancel()
	summary := s.summarizer.Summarize(aiCtx, p.Content())

	if err := s.repo.UpdateSummary(ctx, collection, id, summary); err != nil {
		return dompaper.Paper{}, fmt.Errorf("update summary: %w", err)
	}
	return p.WithAnalysis(summary, p.Vector()), nil
}

// Similar ranks the collection's other papers by cosine similarity to the given one.
func (s *Service) Similar(
	ctx context.Context, collection, id string, opts embedding.RankOptions,
) ([]embedding.Match, error) {
	target, err := s.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if len(target.Vector()) == 0 {
		return []embedding.Match{}, nil
	}

	all, err := s.repo.Vectors(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("load vectors: %w", err)
	}

	candidates := make([]embedding.Candidate, 0, len(all))
	for _, c := range all {
		if c.ID == id || len(c.Vector) == 0 {
			continue
		}
		candidates = append(candidates, c)
	}

	start := time.Now()
	matches := embedding.Rank(target.Vector(), candidates, opts)
	metrics.ObserveStage("similarity", start)
	return matches, nil
}

// Analyze runs the pipeline on a text without storing anything.
func (s *Service) Analyze(ctx context.Context, raw, contentType string) (Analysis, error) {
	p, err := s.prepare(NewPaper{ID: "analyze", Text: raw, ContentType: contentType})
	if err != nil {
		return Analysis{}, err
	}
	return s.analyze(ctx, p.Content()), nil
}

func validateCollection(collection string) error {
	if err := dompaper.ValidateID(collection); err != nil {
		return fmt.Errorf("%w: collection: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

func validateRef(collection, id string) error {
	if err := validateCollection(collection); err != nil {
		return err
	}
	if err := dompaper.ValidatePaperID(id); err != nil {
		return fmt.Errorf("%w: paper: %w", domain.ErrInvalidInput, err)
	}
	return nil
}
