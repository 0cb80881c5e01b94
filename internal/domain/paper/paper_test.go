package paper

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/paperlens/internal/domain"
)

func TestNew_Valid(t *testing.T) {
	p, err := New("paper-1", "Graph ranking", "some text", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID() != "paper-1" {
		t.Errorf("ID() = %q", p.ID())
	}
	if p.Title() != "Graph ranking" {
		t.Errorf("Title() = %q", p.Title())
	}
	if p.ContentType() != ContentTypePlain {
		t.Errorf("ContentType() = %q, want default %q", p.ContentType(), ContentTypePlain)
	}
	if p.Vector() != nil {
		t.Error("Vector() should be nil for new paper")
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		content     string
		contentType string
		wantErr     string
	}{
		{"empty id", "", "text", "", "required"},
		{"long id", strings.Repeat("a", 257), "text", "", "too long"},
		{"bad chars", "a/b", "text", "", "alphanumeric"},
		{"reserved", "batch", "text", "", "reserved"},
		{"empty text", "p", "", "", "text is required"},
		{"too large", "p", strings.Repeat("x", MaxContentSize+1), "", "too large"},
		{"content type", "p", "text", "application/pdf", "unsupported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.id, "", tt.content, tt.contentType)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePaperID_ReservesRouteNames(t *testing.T) {
	if err := ValidateID("batch"); err != nil {
		t.Fatalf("collection names may be %q: %v", "batch", err)
	}
	err := ValidatePaperID("batch")
	if err == nil || !strings.Contains(err.Error(), "reserved") {
		t.Fatalf("ValidatePaperID(batch) = %v, want reserved error", err)
	}
	if err := ValidatePaperID("batch-2"); err != nil {
		t.Errorf("unexpected error for batch-2: %v", err)
	}
}

func TestWithAnalysis_DoesNotMutate(t *testing.T) {
	p, _ := New("p", "", "text", ContentTypeHTML)
	s := domain.Summary{Short: "short", Source: domain.SourceFallback}

	q := p.WithAnalysis(s, []float32{1, 0})
	if p.Summary().Short != "" || p.Vector() != nil {
		t.Error("original paper mutated")
	}
	if q.Summary().Short != "short" || len(q.Vector()) != 2 {
		t.Errorf("copy missing analysis: %+v", q.Summary())
	}

	r := q.WithTimestamps(1, 2)
	if r.CreatedAt() != 1 || r.UpdatedAt() != 2 || q.CreatedAt() != 0 {
		t.Error("WithTimestamps should only affect the copy")
	}
	if c := r.WithContent("clean"); c.Content() != "clean" || r.Content() != "text" {
		t.Error("WithContent should only affect the copy")
	}
}
