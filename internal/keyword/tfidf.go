package keyword

import (
	"math"

	"github.com/kailas-cloud/paperlens/internal/text"
)

// TFIDF ranks single terms by tf * idf. tf is measured over the whole text;
// idf = ln((N+1)/(df+1)) + 1 over the N paragraphs, so a term present in every
// paragraph still scores. Terms missing from the paragraph corpus get idf 1.
// A text without qualifying paragraphs yields nil.
func TFIDF(s string, topN int) []Keyword {
	if text.TooShort(s) {
		return nil
	}
	paragraphs := text.SplitParagraphs(s)
	if len(paragraphs) == 0 {
		return nil
	}

	df := make(map[string]int)
	for _, p := range paragraphs {
		seen := make(map[string]struct{})
		for tok := range text.Tokens(p) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	counts := make(map[string]int)
	var order []string
	total := 0
	for tok := range text.Tokens(s) {
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
		total++
	}
	if total == 0 {
		return nil
	}

	n := float64(len(paragraphs))
	kws := make([]Keyword, 0, len(order))
	for _, term := range order {
		idf := 1.0
		if d, ok := df[term]; ok {
			idf = math.Log((n+1)/(float64(d)+1)) + 1
		}
		tf := float64(counts[term]) / float64(total)
		kws = append(kws, Keyword{Term: term, Score: tf * idf})
	}
	return rank(kws, topN)
}
