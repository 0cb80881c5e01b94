package paperlens

import "time"

// SummarySource tells where a summary came from.
type SummarySource string

// Summary source values.
const (
	SourceAI       SummarySource = "ai"
	SourceFallback SummarySource = "fallback"
	SourceSkipped  SummarySource = "skipped"
)

// Content types accepted by Ingest and Analyze.
const (
	ContentTypePlain = "text/plain"
	ContentTypeHTML  = "text/html"
)

// NewPaper is an ingest request. An empty ID is generated.
type NewPaper struct {
	ID          string
	Title       string
	Text        string
	ContentType string
}

// Summary is the structured analysis of a paper.
type Summary struct {
	Short          string
	Methodology    string
	Findings       string
	Limitations    string
	Keywords       []string
	SuggestedTags  []string
	Source         SummarySource
	FallbackReason string
	Model          string
	GeneratedAt    time.Time
}

// Paper is a stored paper.
type Paper struct {
	ID          string
	Title       string
	Text        string
	ContentType string
	Summary     Summary
	Vector      []float32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Analysis is the output of the stateless pipeline.
type Analysis struct {
	Summary Summary
	Vector  []float32
}

// SimilarOptions tunes Similar. A zero Limit selects 5 matches and a nil
// MinScore selects the 0.1 threshold. Scores must exceed MinScore.
type SimilarOptions struct {
	Limit    int
	MinScore *float64
}

// Score returns a MinScore value for SimilarOptions.
func Score(v float64) *float64 { return &v }

// Match is one similarity hit.
type Match struct {
	ID    string
	Score float64
}

// BatchResult is the outcome of one batch item.
type BatchResult struct {
	Index   int
	ID      string
	Created bool
	Err     error
}

// OK reports whether the item was stored.
func (r BatchResult) OK() bool { return r.Err == nil }
