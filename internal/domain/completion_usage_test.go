package domain

import (
	"context"
	"sync"
	"testing"
)

func TestCompletionUsage_AddTokens(t *testing.T) {
	ctx, u := NewContextWithUsage(context.Background())
	if got := UsageFromContext(ctx); got != u {
		t.Fatal("expected the same collector from context")
	}

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() { UsageFromContext(ctx).AddTokens(5) })
	}
	wg.Wait()

	tokens, used := u.Snapshot()
	if tokens != 50 || !used {
		t.Errorf("Snapshot() = %d, %v; want 50, true", tokens, used)
	}
}

func TestCompletionUsage_CacheHitMarksUsed(t *testing.T) {
	_, u := NewContextWithUsage(context.Background())
	u.AddTokens(0)
	if _, used := u.Snapshot(); !used {
		t.Error("expected used after a zero-token call")
	}
}

func TestCompletionUsage_NilSafe(t *testing.T) {
	u := UsageFromContext(context.Background())
	if u != nil {
		t.Fatal("expected nil collector")
	}
	u.AddTokens(10)
	if tokens, used := u.Snapshot(); tokens != 0 || used {
		t.Errorf("nil Snapshot() = %d, %v", tokens, used)
	}
}

func TestCacheBypass(t *testing.T) {
	ctx := context.Background()
	if CacheBypassed(ctx) {
		t.Error("plain context should not bypass the cache")
	}
	if !CacheBypassed(WithCacheBypass(ctx)) {
		t.Error("expected bypass flag")
	}
}

func TestSummary_Empty(t *testing.T) {
	if !(Summary{Source: SourceSkipped}).Empty() {
		t.Error("skipped summary should be empty")
	}
	if (Summary{Keywords: []string{"graph"}}).Empty() {
		t.Error("summary with keywords is not empty")
	}
}
