package summary

import (
	"strings"

	"github.com/kailas-cloud/paperlens/internal/text"
)

const promptHeader = `You are an assistant that analyzes academic papers.
Read the paper text below and answer with a single JSON object and nothing else.
The object must have exactly these fields:
  "summary": a concise overview of the paper in 2-3 sentences,
  "methodology": how the research was carried out,
  "findings": the key results as an array of short strings,
  "limitations": the limitations the authors acknowledge or that are evident, as an array of short strings,
  "tags": 3 to 5 short topic tags as an array of lowercase strings.

Paper text:
`

// buildPrompt embeds the first promptChars runes of s into the fixed prompt.
func buildPrompt(s string, promptChars int) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString(text.Truncate(s, promptChars))
	return b.String()
}
