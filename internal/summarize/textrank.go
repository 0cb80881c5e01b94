// Package summarize builds extractive summaries with TextRank over a
// sentence-similarity graph.
package summarize

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/kailas-cloud/paperlens/internal/text"
)

const (
	// Damping is the PageRank damping factor.
	Damping = 0.85
	// Iterations is the fixed number of power-iteration steps.
	Iterations = 30
)

// Summarize returns the sentenceCount highest-ranked sentences of s joined by a
// space, in their original reading order. When s has no more sentences than
// requested, every sentence is returned. Text shorter than
// text.MinDocumentLength yields "".
func Summarize(s string, sentenceCount int) string {
	if text.TooShort(s) || sentenceCount <= 0 {
		return ""
	}

	sentences := text.SplitSentences(s)
	if len(sentences) <= sentenceCount {
		return join(sentences)
	}

	scores := Rank(sentences)

	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})

	selected := order[:sentenceCount]
	slices.Sort(selected)

	picked := make([]text.Sentence, len(selected))
	for i, idx := range selected {
		picked[i] = sentences[idx]
	}
	return join(picked)
}

// Rank returns one TextRank score per sentence.
func Rank(sentences []text.Sentence) []float64 {
	n := len(sentences)
	if n == 0 {
		return nil
	}

	graph := buildGraph(sentences)

	outSum := make([]float64, n)
	for j := range graph {
		for _, w := range graph[j] {
			outSum[j] += w
		}
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1 / float64(n)
	}

	next := make([]float64, n)
	for range Iterations {
		for i := range n {
			var sum float64
			for j := range n {
				if outSum[j] == 0 || graph[j][i] == 0 {
					continue
				}
				sum += graph[j][i] / outSum[j] * scores[j]
			}
			next[i] = (1-Damping)/float64(n) + Damping*sum
		}
		scores, next = next, scores
	}
	return scores
}

// buildGraph returns the symmetric similarity matrix with a zero diagonal.
func buildGraph(sentences []text.Sentence) [][]float64 {
	n := len(sentences)
	sets := make([]map[string]struct{}, n)
	for i, s := range sentences {
		set := make(map[string]struct{})
		for tok := range text.Tokens(s.Text) {
			set[tok] = struct{}{}
		}
		sets[i] = set
	}

	graph := make([][]float64, n)
	for i := range graph {
		graph[i] = make([]float64, n)
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			w := similarity(sets[i], sets[j])
			graph[i][j] = w
			graph[j][i] = w
		}
	}
	return graph
}

// similarity is the log-normalized token overlap of two sentences.
// The +1 keeps the denominator positive when both sentences hold one token.
func similarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	overlap := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}
	return float64(overlap) / (math.Log(float64(len(a))) + math.Log(float64(len(b))) + 1)
}

func join(sentences []text.Sentence) string {
	parts := make([]string, len(sentences))
	for i, s := range sentences {
		parts[i] = s.Text
	}
	return strings.Join(parts, " ")
}
