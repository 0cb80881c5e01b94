package paperlens

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/paperlens/internal/domain"
	dombatch "github.com/kailas-cloud/paperlens/internal/domain/batch"
	dompaper "github.com/kailas-cloud/paperlens/internal/domain/paper"
	"github.com/kailas-cloud/paperlens/internal/embedding"
	paperuc "github.com/kailas-cloud/paperlens/internal/usecase/paper"
)

// PaperService manages papers within a single collection.
type PaperService struct {
	collection string
	svc        paperUseCase
	obs        *observer
}

// Ingest stores a paper with its summary and vector. Returns true if created.
func (s *PaperService) Ingest(ctx context.Context, in NewPaper) (_ Paper, created bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("paper.ingest", start, err) }()

	p, created, err := s.svc.Ingest(ctx, s.collection, toInternalPaper(in))
	if err != nil {
		return Paper{}, false, fmt.Errorf("ingest: %w", err)
	}
	out := fromInternalPaper(&p)
	s.obs.observeSummary(out.Summary)
	return out, created, nil
}

// IngestBatch stores papers concurrently. Failures are reported per item.
func (s *PaperService) IngestBatch(ctx context.Context, items []NewPaper) []BatchResult {
	start := time.Now()
	defer func() { s.obs.observe("paper.ingest_batch", start, nil) }()

	in := make([]paperuc.NewPaper, len(items))
	for i, it := range items {
		in[i] = toInternalPaper(it)
	}
	return fromBatchResults(s.svc.IngestBatch(ctx, s.collection, in))
}

// Get retrieves a paper by ID.
func (s *PaperService) Get(ctx context.Context, id string) (_ Paper, err error) {
	start := time.Now()
	defer func() { s.obs.observe("paper.get", start, err) }()

	p, err := s.svc.Get(ctx, s.collection, id)
	if err != nil {
		return Paper{}, fmt.Errorf("get paper: %w", err)
	}
	return fromInternalPaper(&p), nil
}

// Delete removes a paper by ID.
func (s *PaperService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("paper.delete", start, err) }()

	if err = s.svc.Delete(ctx, s.collection, id); err != nil {
		return fmt.Errorf("delete paper: %w", err)
	}
	return nil
}

// List returns the ids of all papers in the collection.
func (s *PaperService) List(ctx context.Context) (_ []string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("paper.list", start, err) }()

	ids, err := s.svc.List(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	return ids, nil
}

// Regenerate recomputes the summary, skipping the completion cache.
func (s *PaperService) Regenerate(ctx context.Context, id string) (_ Paper, err error) {
	start := time.Now()
	defer func() { s.obs.observe("paper.regenerate", start, err) }()

	p, err := s.svc.Regenerate(ctx, s.collection, id)
	if err != nil {
		return Paper{}, fmt.Errorf("regenerate: %w", err)
	}
	out := fromInternalPaper(&p)
	s.obs.observeSummary(out.Summary)
	return out, nil
}

// Similar ranks the other papers of the collection by cosine similarity to id.
func (s *PaperService) Similar(ctx context.Context, id string, opts SimilarOptions) (_ []Match, err error) {
	start := time.Now()
	defer func() { s.obs.observe("paper.similar", start, err) }()

	matches, err := s.svc.Similar(ctx, s.collection, id, embedding.RankOptions{
		TopK:     opts.Limit,
		MinScore: opts.MinScore,
	})
	if err != nil {
		return nil, fmt.Errorf("similar: %w", err)
	}
	out := make([]Match, len(matches))
	for i, m := range matches {
		out[i] = Match{ID: m.ID, Score: m.Score}
	}
	return out, nil
}

func toInternalPaper(in NewPaper) paperuc.NewPaper {
	return paperuc.NewPaper{ID: in.ID, Title: in.Title, Text: in.Text, ContentType: in.ContentType}
}

func fromInternalPaper(p *dompaper.Paper) Paper {
	return Paper{
		ID:          p.ID(),
		Title:       p.Title(),
		Text:        p.Content(),
		ContentType: p.ContentType(),
		Summary:     fromInternalSummary(p.Summary()),
		Vector:      p.Vector(),
		CreatedAt:   time.UnixMilli(p.CreatedAt()).UTC(),
		UpdatedAt:   time.UnixMilli(p.UpdatedAt()).UTC(),
	}
}

func fromInternalSummary(s domain.Summary) Summary {
	return Summary{
		Short:          s.Short,
		Methodology:    s.Methodology,
		Findings:       s.Findings,
		Limitations:    s.Limitations,
		Keywords:       s.Keywords,
		SuggestedTags:  s.SuggestedTags,
		Source:         SummarySource(s.Source),
		FallbackReason: s.FallbackReason,
		Model:          s.Model,
		GeneratedAt:    time.UnixMilli(s.GeneratedAt).UTC(),
	}
}

func fromBatchResults(results []dombatch.Result) []BatchResult {
	out := make([]BatchResult, len(results))
	for i, r := range results {
		out[i] = BatchResult{
			Index:   r.Index(),
			ID:      r.ID(),
			Created: r.Status() == dombatch.StatusCreated,
			Err:     r.Err(),
		}
	}
	return out
}
