package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded means the completion provider is down; summaries fall back to local extractors.
	Degraded Status = "degraded"
	// Unhealthy means storage is unreachable and no request can be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentDatabase   = "database"
	ComponentCompletion = "completion"
)

const defaultProbeTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db           DBPinger
	completion   CompletionChecker
	probeTimeout time.Duration
}

// New creates a Service. completion can be nil (AI disabled or the provider has no probe).
func New(db DBPinger, completion CompletionChecker) *Service {
	return &Service{db: db, completion: completion, probeTimeout: defaultProbeTimeout}
}

// WithProbeTimeout bounds each component probe.
func (s *Service) WithProbeTimeout(d time.Duration) *Service {
	if d > 0 {
		s.probeTimeout = d
	}
	return s
}

// Check probes all components concurrently.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult, 2)
	)
	record := func(name string, err error) {
		res := CheckOK
		if err != nil {
			res = CheckError
		}
		mu.Lock()
		checks[name] = res
		mu.Unlock()
	}

	// probes report through record and never fail the group
	var g errgroup.Group
	g.Go(func() error {
		record(ComponentDatabase, s.probe(ctx, s.db.Ping))
		return nil
	})
	if s.completion != nil {
		g.Go(func() error {
			record(ComponentCompletion, s.probe(ctx, s.completion.HealthCheck))
			return nil
		})
	}
	_ = g.Wait()

	return Report{Status: aggregate(checks), Checks: checks}
}

func (s *Service) probe(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()
	return fn(ctx)
}

func aggregate(checks map[string]CheckResult) Status {
	if checks[ComponentDatabase] == CheckError {
		return Unhealthy
	}
	if checks[ComponentCompletion] == CheckError {
		return Degraded
	}
	return Healthy
}
