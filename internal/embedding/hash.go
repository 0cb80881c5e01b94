// Package embedding produces hash-bucketed bag-of-words vectors and compares
// them with cosine similarity.
package embedding

import (
	"math"

	"github.com/kailas-cloud/paperlens/internal/text"
)

// DefaultDimensions is the vector length used across the pipeline.
const DefaultDimensions = 128

// Embed returns an L2-normalized vector of length dims built from text.Words.
// Each word increments bucket |hash(word)| mod dims; collisions are kept.
// Text without words yields the zero vector. dims <= 0 falls back to DefaultDimensions.
func Embed(s string, dims int) []float32 {
	if dims <= 0 {
		dims = DefaultDimensions
	}

	counts := make([]float64, dims)
	for w := range text.Words(s) {
		counts[bucket(w, dims)]++
	}

	vec := make([]float32, dims)
	var sum float64
	for _, c := range counts {
		sum += c * c
	}
	if sum == 0 {
		return vec
	}
	mag := math.Sqrt(sum)
	for i, c := range counts {
		vec[i] = float32(c / mag)
	}
	return vec
}

// Hash is the 32-bit polynomial rolling hash h = h*31 + r over the runes of s,
// wrapping on overflow. It steps over Unicode code points, not UTF-16 code
// units: text outside the Basic Multilingual Plane (emoji, some CJK) hashes,
// and therefore buckets, differently from a UTF-16 implementation of the same
// formula. BMP-only text matches it exactly.
func Hash(s string) int32 {
	var h int32
	for _, r := range s {
		h = h*31 + r
	}
	return h
}

func bucket(word string, dims int) int {
	h := int64(Hash(word))
	if h < 0 {
		h = -h
	}
	return int(h % int64(dims))
}

// Norm returns the L2 norm of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
