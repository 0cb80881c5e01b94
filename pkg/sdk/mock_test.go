package paperlens

import (
	"context"

	dombatch "github.com/kailas-cloud/paperlens/internal/domain/batch"
	dompaper "github.com/kailas-cloud/paperlens/internal/domain/paper"
	domusage "github.com/kailas-cloud/paperlens/internal/domain/usage"
	"github.com/kailas-cloud/paperlens/internal/embedding"
	healthuc "github.com/kailas-cloud/paperlens/internal/usecase/health"
	paperuc "github.com/kailas-cloud/paperlens/internal/usecase/paper"
)

// --- paperUseCase mock ---

type mockPaperUC struct {
	ingestFn     func(ctx context.Context, col string, in paperuc.NewPaper) (dompaper.Paper, bool, error)
	batchFn      func(ctx context.Context, col string, items []paperuc.NewPaper) []dombatch.Result
	getFn        func(ctx context.Context, col, id string) (dompaper.Paper, error)
	deleteFn     func(ctx context.Context, col, id string) error
	listFn       func(ctx context.Context, col string) ([]string, error)
	regenerateFn func(ctx context.Context, col, id string) (dompaper.Paper, error)
	similarFn    func(ctx context.Context, col, id string, opts embedding.RankOptions) ([]embedding.Match, error)
	analyzeFn    func(ctx context.Context, raw, contentType string) (paperuc.Analysis, error)
}

func (m *mockPaperUC) Ingest(ctx context.Context, col string, in paperuc.NewPaper) (dompaper.Paper, bool, error) {
	return m.ingestFn(ctx, col, in)
}

func (m *mockPaperUC) IngestBatch(ctx context.Context, col string, items []paperuc.NewPaper) []dombatch.Result {
	return m.batchFn(ctx, col, items)
}

func (m *mockPaperUC) Get(ctx context.Context, col, id string) (dompaper.Paper, error) {
	return m.getFn(ctx, col, id)
}

func (m *mockPaperUC) Delete(ctx context.Context, col, id string) error {
	return m.deleteFn(ctx, col, id)
}

func (m *mockPaperUC) List(ctx context.Context, col string) ([]string, error) {
	return m.listFn(ctx, col)
}

func (m *mockPaperUC) Regenerate(ctx context.Context, col, id string) (dompaper.Paper, error) {
	return m.regenerateFn(ctx, col, id)
}

func (m *mockPaperUC) Similar(
	ctx context.Context, col, id string, opts embedding.RankOptions,
) ([]embedding.Match, error) {
	return m.similarFn(ctx, col, id, opts)
}

func (m *mockPaperUC) Analyze(ctx context.Context, raw, contentType string) (paperuc.Analysis, error) {
	return m.analyzeFn(ctx, raw, contentType)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- usageUseCase mock ---

type mockUsageUC struct {
	report domusage.Report
}

func (m *mockUsageUC) GetReport(_ context.Context, _ domusage.Period) domusage.Report { return m.report }

// --- Completer mock ---

type mockCompleter struct {
	fn func(ctx context.Context, prompt string) (Completion, error)
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (Completion, error) {
	return m.fn(ctx, prompt)
}
