package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockDBPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockDBPinger) Ping(ctx context.Context) error { return m.pingFn(ctx) }

type mockCompletionChecker struct {
	checkFn func(ctx context.Context) error
}

func (m *mockCompletionChecker) HealthCheck(ctx context.Context) error { return m.checkFn(ctx) }

func returning(err error) func(context.Context) error {
	return func(context.Context) error { return err }
}

func TestCheck(t *testing.T) {
	down := errors.New("down")
	tests := []struct {
		name           string
		dbErr          error
		completion     CompletionChecker
		wantStatus     Status
		wantDB         CheckResult
		wantCompletion CheckResult // empty: check absent
	}{
		{"all healthy", nil, &mockCompletionChecker{checkFn: returning(nil)}, Healthy, CheckOK, CheckOK},
		{"db down", down, &mockCompletionChecker{checkFn: returning(nil)}, Unhealthy, CheckError, CheckOK},
		{"completion down", nil, &mockCompletionChecker{checkFn: returning(down)}, Degraded, CheckOK, CheckError},
		{"both down", down, &mockCompletionChecker{checkFn: returning(down)}, Unhealthy, CheckError, CheckError},
		{"ai disabled", nil, nil, Healthy, CheckOK, ""},
		{"ai disabled db down", down, nil, Unhealthy, CheckError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&mockDBPinger{pingFn: returning(tt.dbErr)}, tt.completion).Check(context.Background())

			if r.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", r.Status, tt.wantStatus)
			}
			if r.Checks[ComponentDatabase] != tt.wantDB {
				t.Errorf("database = %q, want %q", r.Checks[ComponentDatabase], tt.wantDB)
			}
			got, ok := r.Checks[ComponentCompletion]
			if tt.wantCompletion == "" {
				if ok {
					t.Error("completion check should be absent when no checker is configured")
				}
				return
			}
			if got != tt.wantCompletion {
				t.Errorf("completion = %q, want %q", got, tt.wantCompletion)
			}
		})
	}
}

func TestCheck_ProbeTimeout(t *testing.T) {
	slow := &mockCompletionChecker{checkFn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	svc := New(&mockDBPinger{pingFn: returning(nil)}, slow).WithProbeTimeout(20 * time.Millisecond)

	start := time.Now()
	r := svc.Check(context.Background())

	if time.Since(start) > time.Second {
		t.Fatal("probe timeout not applied")
	}
	if r.Status != Degraded || r.Checks[ComponentCompletion] != CheckError {
		t.Errorf("got %+v, want degraded with completion error", r)
	}
}

func TestWithProbeTimeout_IgnoresNonPositive(t *testing.T) {
	svc := New(&mockDBPinger{pingFn: returning(nil)}, nil).WithProbeTimeout(0)
	if svc.probeTimeout != defaultProbeTimeout {
		t.Errorf("probeTimeout = %v, want %v", svc.probeTimeout, defaultProbeTimeout)
	}
}
