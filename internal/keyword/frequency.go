package keyword

import "github.com/kailas-cloud/paperlens/internal/text"

// Frequency ranks stop-word filtered tokens by raw count.
func Frequency(s string, topN int) []Keyword {
	if text.TooShort(s) {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for tok := range text.Tokens(s) {
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	kws := make([]Keyword, 0, len(order))
	for _, term := range order {
		kws = append(kws, Keyword{Term: term, Score: float64(counts[term])})
	}
	return rank(kws, topN)
}
