package paper

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// blockBoundary matches tags that end a line of text when rendered.
var blockBoundary = regexp.MustCompile(`(?i)<\s*(br|/p|/div|/li|/tr|/h[1-6]|/section|/article|/blockquote)\b[^>]*>`)

// htmlToText strips all markup and keeps the readable text.
// Script and style bodies are dropped, block boundaries become newlines.
func htmlToText(policy *bluemonday.Policy, s string) string {
	s = blockBoundary.ReplaceAllString(s, "$0\n")
	s = html.UnescapeString(policy.Sanitize(s))
	return strings.TrimSpace(s)
}
