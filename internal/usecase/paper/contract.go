package paper

import (
	"context"

	"github.com/kailas-cloud/paperlens/internal/domain"
	dompaper "github.com/kailas-cloud/paperlens/internal/domain/paper"
	"github.com/kailas-cloud/paperlens/internal/embedding"
)

// Repository defines the storage contract for papers.
type Repository interface {
	Upsert(ctx context.Context, collection string, p *dompaper.Paper) (created bool, err error)
	Get(ctx context.Context, collection, id string) (dompaper.Paper, error)
	Delete(ctx context.Context, collection, id string) error
	UpdateSummary(ctx context.Context, collection, id string, s domain.Summary) error
	List(ctx context.Context, collection string) ([]string, error)
	Vectors(ctx context.Context, collection string) ([]embedding.Candidate, error)
}

// Summarizer produces the structured summary of a text. It never fails.
type Summarizer interface {
	Summarize(ctx context.Context, raw string) domain.Summary
}
