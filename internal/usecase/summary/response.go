package summary

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	errNoJSONObject = errors.New("no JSON object in response")
	errEmptySummary = errors.New("response has empty summary")
)

// aiResponse is the structured answer the prompt asks for.
type aiResponse struct {
	Summary     string   `json:"summary"`
	Methodology string   `json:"methodology"`
	Findings    flexText `json:"findings"`
	Limitations flexText `json:"limitations"`
	Tags        []string `json:"tags"`
}

// flexText accepts either a JSON string or an array of strings.
// Array items are joined with a single space.
type flexText string

func (f *flexText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexText(strings.TrimSpace(s))
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	parts := items[:0]
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			parts = append(parts, it)
		}
	}
	*f = flexText(strings.Join(parts, " "))
	return nil
}

// parseResponse extracts the first balanced JSON object from raw and decodes it.
func parseResponse(raw string) (aiResponse, error) {
	obj, ok := extractObject(raw)
	if !ok {
		return aiResponse{}, errNoJSONObject
	}

	var resp aiResponse
	if err := json.Unmarshal([]byte(obj), &resp); err != nil {
		return aiResponse{}, fmt.Errorf("decode response: %w", err)
	}

	resp.Summary = strings.TrimSpace(resp.Summary)
	resp.Methodology = strings.TrimSpace(resp.Methodology)
	if resp.Summary == "" {
		return aiResponse{}, errEmptySummary
	}
	resp.Tags = cleanTags(resp.Tags)
	return resp, nil
}

// extractObject returns the first balanced {...} substring of s.
// Braces inside JSON strings, including escaped quotes, are ignored.
func extractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func cleanTags(tags []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
