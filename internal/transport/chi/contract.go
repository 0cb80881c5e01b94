package chi

import (
	"context"

	dombatch "github.com/kailas-cloud/paperlens/internal/domain/batch"
	dompaper "github.com/kailas-cloud/paperlens/internal/domain/paper"
	domusage "github.com/kailas-cloud/paperlens/internal/domain/usage"
	"github.com/kailas-cloud/paperlens/internal/embedding"
	healthuc "github.com/kailas-cloud/paperlens/internal/usecase/health"
	paperuc "github.com/kailas-cloud/paperlens/internal/usecase/paper"
)

// PaperService is the paper use case as seen by the HTTP layer.
type PaperService interface {
	Ingest(ctx context.Context, collection string, in paperuc.NewPaper) (dompaper.Paper, bool, error)
	IngestBatch(ctx context.Context, collection string, items []paperuc.NewPaper) []dombatch.Result
	Get(ctx context.Context, collection, id string) (dompaper.Paper, error)
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string) ([]string, error)
	Regenerate(ctx context.Context, collection, id string) (dompaper.Paper, error)
	Similar(ctx context.Context, collection, id string, opts embedding.RankOptions) ([]embedding.Match, error)
	Analyze(ctx context.Context, raw, contentType string) (paperuc.Analysis, error)
}

// UsageService builds usage reports.
type UsageService interface {
	GetReport(ctx context.Context, period domusage.Period) domusage.Report
}

// HealthService aggregates component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}
