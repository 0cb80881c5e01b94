package paper

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kailas-cloud/paperlens/internal/domain"
	dompaper "github.com/kailas-cloud/paperlens/internal/domain/paper"
	"github.com/kailas-cloud/paperlens/internal/embedding"
)

// memRepo is an in-memory Repository safe for concurrent batch tests.
type memRepo struct {
	mu        sync.Mutex
	papers    map[string]dompaper.Paper
	upserts   int
	upsertErr error
	updated   map[string]domain.Summary
}

func newMemRepo() *memRepo {
	return &memRepo{papers: map[string]dompaper.Paper{}, updated: map[string]domain.Summary{}}
}

func memKey(collection, id string) string { return collection + "/" + id }

func (r *memRepo) Upsert(_ context.Context, collection string, p *dompaper.Paper) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return false, r.upsertErr
	}
	r.upserts++
	key := memKey(collection, p.ID())
	prev, exists := r.papers[key]
	created := int64(1000)
	if exists {
		created = prev.CreatedAt()
	}
	r.papers[key] = p.WithTimestamps(created, 2000)
	return !exists, nil
}

func (r *memRepo) Get(_ context.Context, collection, id string) (dompaper.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.papers[memKey(collection, id)]
	if !ok {
		return dompaper.Paper{}, domain.ErrPaperNotFound
	}
	return p, nil
}

func (r *memRepo) Delete(_ context.Context, collection, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := memKey(collection, id)
	if _, ok := r.papers[key]; !ok {
		return domain.ErrPaperNotFound
	}
	delete(r.papers, key)
	return nil
}

func (r *memRepo) UpdateSummary(_ context.Context, collection, id string, s domain.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := memKey(collection, id)
	p, ok := r.papers[key]
	if !ok {
		return domain.ErrPaperNotFound
	}
	r.updated[key] = s
	r.papers[key] = p.WithAnalysis(s, p.Vector())
	return nil
}

func (r *memRepo) List(_ context.Context, collection string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for key := range r.papers {
		if id, ok := strings.CutPrefix(key, collection+"/"); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memRepo) Vectors(_ context.Context, collection string) ([]embedding.Candidate, error) {
	ids, _ := r.List(context.Background(), collection)
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]embedding.Candidate, 0, len(ids))
	for _, id := range ids {
		p := r.papers[memKey(collection, id)]
		out = append(out, embedding.Candidate{ID: id, Vector: p.Vector()})
	}
	return out, nil
}

func (r *memRepo) put(collection string, p dompaper.Paper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.papers[memKey(collection, p.ID())] = p
}

// stubSummarizer records what the pipeline hands to the orchestrator.
type stubSummarizer struct {
	mu          sync.Mutex
	texts       []string
	hadDeadline bool
	bypassed    bool
	delay       time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (s *stubSummarizer) Summarize(ctx context.Context, raw string) domain.Summary {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		cur := s.maxInFlight.Load()
		if n <= cur || s.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, raw)
	_, s.hadDeadline = ctx.Deadline()
	s.bypassed = domain.CacheBypassed(ctx)
	return domain.Summary{Short: "summary of " + raw[:min(len(raw), 10)], Source: domain.SourceFallback}
}

func newTestService(repo Repository, sum Summarizer) *Service {
	svc := New(repo, sum, domain.DefaultPipelineConfig())
	var n atomic.Int32
	svc.newID = func() string {
		return "gen-" + string(rune('a'+n.Add(1)-1))
	}
	return svc
}
