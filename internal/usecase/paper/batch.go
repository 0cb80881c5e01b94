package paper

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/paperlens/internal/domain"
	dombatch "github.com/kailas-cloud/paperlens/internal/domain/batch"
)

// IngestBatch runs independent pipelines in parallel and reports per-item results in input order.
func (s *Service) IngestBatch(ctx context.Context, collection string, items []NewPaper) []dombatch.Result {
	results := make([]dombatch.Result, len(items))

	if len(items) > s.cfg.MaxBatchSize {
		for i, item := range items {
			results[i] = dombatch.NewError(i, item.ID,
				fmt.Errorf("batch size exceeds %d: %w", s.cfg.MaxBatchSize, domain.ErrInvalidInput))
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(s.cfg.BatchWorkers)

	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = dombatch.NewError(i, item.ID, err)
				return nil
			}
			p, created, err := s.Ingest(ctx, collection, item)
			if err != nil {
				results[i] = dombatch.NewError(i, item.ID, err)
				return nil
			}
			results[i] = dombatch.NewOK(i, p.ID(), created)
			return nil
		})
	}
	// Items never fail the group; errors are carried per result.
	_ = g.Wait()

	return results
}
