package embedding

import (
	"cmp"
	"math"
	"slices"
)

const (
	// DefaultMinScore is the exclusive similarity threshold for Rank.
	DefaultMinScore = 0.1
	// DefaultTopK caps the number of matches Rank returns.
	DefaultTopK = 5
)

// CosineSimilarity returns the cosine of the angle between a and b, clamped to [-1, 1].
// Empty input, mismatched lengths and zero vectors all yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}

	return max(-1, min(1, dot/(math.Sqrt(na)*math.Sqrt(nb))))
}

// Candidate is a sibling document vector.
type Candidate struct {
	ID     string
	Vector []float32
}

// Match is a scored candidate.
type Match struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// RankOptions tunes Rank. A nil MinScore selects DefaultMinScore, so an
// explicit zero threshold stays distinguishable from "unset".
type RankOptions struct {
	MinScore *float64
	TopK     int
}

// Threshold returns a MinScore value for RankOptions.
func Threshold(v float64) *float64 { return &v }

type rankParams struct {
	minScore float64
	topK     int
}

func (o RankOptions) params() rankParams {
	p := rankParams{minScore: DefaultMinScore, topK: DefaultTopK}
	if o.MinScore != nil {
		p.minScore = *o.MinScore
	}
	if o.TopK > 0 {
		p.topK = o.TopK
	}
	return p
}

// Rank scores every candidate against target and returns those above
// MinScore, best first, at most TopK. Equal scores keep candidate order.
func Rank(target []float32, candidates []Candidate, opts RankOptions) []Match {
	p := opts.params()

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		score := CosineSimilarity(target, c.Vector)
		if score <= p.minScore {
			continue
		}
		matches = append(matches, Match{ID: c.ID, Score: score})
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(matches) > p.topK {
		matches = matches[:p.topK]
	}
	return matches
}
