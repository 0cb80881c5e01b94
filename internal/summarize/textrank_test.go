package summarize

import (
	"math"
	"strings"
	"testing"

	"github.com/kailas-cloud/paperlens/internal/text"
)

var mlSentences = []string{
	"Machine learning models require large datasets for training.",
	"Machine learning algorithms improve with more data.",
	"Researchers evaluate machine learning systems on benchmark tasks.",
	"Deep learning is a subset of machine learning methods.",
	"Careful data curation remains essential for reliable models.",
}

var mlParagraph = strings.Join(mlSentences, " ")

// positions returns the index of every source sentence found in summary,
// in the order they appear in summary.
func positions(t *testing.T, summary string, source []string) []int {
	t.Helper()
	type hit struct{ src, at int }
	var hits []hit
	for i, s := range source {
		if at := strings.Index(summary, s); at >= 0 {
			hits = append(hits, hit{src: i, at: at})
		}
	}
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].at < hits[j-1].at; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.src
	}
	return out
}

func TestSummarize_MachineLearningScenario(t *testing.T) {
	got := Summarize(mlParagraph, 2)
	idx := positions(t, got, mlSentences)
	if len(idx) != 2 {
		t.Fatalf("expected exactly 2 source sentences, got %d in %q", len(idx), got)
	}
	if idx[0] >= idx[1] {
		t.Errorf("sentences out of document order: %v", idx)
	}
	want := mlSentences[idx[0]] + " " + mlSentences[idx[1]]
	if got != want {
		t.Errorf("Summarize() = %q, want %q", got, want)
	}
}

func TestSummarize_PreservesDocumentOrder(t *testing.T) {
	for n := 1; n < len(mlSentences); n++ {
		got := Summarize(mlParagraph, n)
		idx := positions(t, got, mlSentences)
		if len(idx) != n {
			t.Fatalf("n=%d: expected %d sentences, got %v", n, n, idx)
		}
		for i := 1; i < len(idx); i++ {
			if idx[i-1] >= idx[i] {
				t.Errorf("n=%d: order not preserved: %v", n, idx)
			}
		}
	}
}

func TestSummarize_ReturnsAllWhenFewerSentences(t *testing.T) {
	doc := strings.Join(mlSentences[:3], " ")
	for _, n := range []int{3, 4, 10} {
		if got := Summarize(doc, n); got != doc {
			t.Errorf("Summarize(doc, %d) = %q, want the full text", n, got)
		}
	}
}

func TestSummarize_TiesPreferEarlierSentences(t *testing.T) {
	// No shared tokens: every sentence is isolated and scores the same.
	src := []string{
		"Quantum annealers minimize rugged energy landscapes.",
		"Protein folding simulations demand enormous compute.",
		"Coral reefs shelter diverse marine populations.",
		"Medieval manuscripts preserve forgotten liturgies.",
	}
	got := Summarize(strings.Join(src, " "), 2)
	want := src[0] + " " + src[1]
	if got != want {
		t.Errorf("Summarize() = %q, want %q", got, want)
	}
}

func TestSummarize_ShortInput(t *testing.T) {
	for _, n := range []int{0, 50, 99} {
		doc := strings.Repeat("Graph ranking. ", n/15+1)[:n]
		if got := Summarize(doc, 3); got != "" {
			t.Errorf("len %d: expected empty summary, got %q", n, got)
		}
	}
}

func TestSummarize_NonPositiveCount(t *testing.T) {
	if got := Summarize(mlParagraph, 0); got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
}

func TestSummarize_Deterministic(t *testing.T) {
	first := Summarize(mlParagraph, 3)
	for range 20 {
		if got := Summarize(mlParagraph, 3); got != first {
			t.Fatalf("non-deterministic summary: %q vs %q", got, first)
		}
	}
}

// --- Rank ---

func TestRank_Empty(t *testing.T) {
	if got := Rank(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestRank_IsolatedSentenceGetsBaseScore(t *testing.T) {
	sentences := text.SplitSentences(
		"Graph ranking selects central sentences. " +
			"Central sentences dominate graph ranking. " +
			"Volcanic soils nourish vineyards.",
	)
	if len(sentences) != 3 {
		t.Fatalf("expected 3 sentences, got %d", len(sentences))
	}

	scores := Rank(sentences)
	base := (1 - Damping) / 3
	if math.Abs(scores[2]-base) > 1e-12 {
		t.Errorf("isolated score = %v, want %v", scores[2], base)
	}
	if scores[0] <= base || scores[1] <= base {
		t.Errorf("connected sentences should outrank the isolated one: %v", scores)
	}
	if math.Abs(scores[0]-scores[1]) > 1e-12 {
		t.Errorf("symmetric pair should score equally: %v", scores)
	}
}

// --- similarity ---

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b map[string]struct{}
		want float64
	}{
		{"empty", set(), set("graph"), 0},
		{"disjoint", set("graph"), set("vector"), 0},
		{"single token each", set("graph"), set("graph"), 1},
		{"partial overlap", set("graph", "rank"), set("graph", "vector", "score"),
			1 / (math.Log(2) + math.Log(3) + 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := similarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("similarity() = %v, want %v", got, tt.want)
			}
			if got := similarity(tt.b, tt.a); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("similarity() not symmetric: %v", got)
			}
		})
	}
}
