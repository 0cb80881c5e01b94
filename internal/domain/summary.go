package domain

// SummarySource tells where a summary came from.
type SummarySource string

// Summary source values.
const (
	SourceAI       SummarySource = "ai"
	SourceFallback SummarySource = "fallback"
	SourceSkipped  SummarySource = "skipped" // text too short to analyze
)

// Summary is the structured analysis of one paper.
// Keywords always come from the local extractors; SuggestedTags come from the
// model on the AI path and from frequency ranking on the fallback path.
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
	GeneratedAt    int64 // unix millis
}

// Empty reports whether the summary carries no text at all.
func (s Summary) Empty() bool {
	return s.Short == "" && s.Methodology == "" && s.Findings == "" &&
		s.Limitations == "" && len(s.Keywords) == 0 && len(s.SuggestedTags) == 0
}
