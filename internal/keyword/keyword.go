// Package keyword ranks the terms and phrases of a single document.
//
// Three unsupervised extractors are provided:
//
//   - TFIDF: term frequency weighted by a smoothed IDF over the document's own
//     paragraphs (the micro-corpus).
//   - RAKE: multi-word candidate phrases scored by word co-occurrence degree.
//   - Frequency: stop-word filtered single-token counts.
//
// All extractors are deterministic: ties keep first-encountered order.
// Text shorter than text.MinDocumentLength yields no keywords.
package keyword

import (
	"cmp"
	"slices"
)

// Keyword is a ranked term or phrase.
type Keyword struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// Terms returns the terms of kws in rank order.
func Terms(kws []Keyword) []string {
	if len(kws) == 0 {
		return nil
	}
	out := make([]string, len(kws))
	for i, kw := range kws {
		out[i] = kw.Term
	}
	return out
}

// Merge returns the ordered union of lists, deduplicated by exact string.
func Merge(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, term := range list {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			out = append(out, term)
		}
	}
	return out
}

// rank sorts kws by score descending, keeping input order on ties, and
// truncates to topN. topN <= 0 keeps every keyword.
func rank(kws []Keyword, topN int) []Keyword {
	slices.SortStableFunc(kws, func(a, b Keyword) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if topN > 0 && len(kws) > topN {
		kws = kws[:topN]
	}
	if len(kws) == 0 {
		return nil
	}
	return kws
}
