package keyword

import (
	"strings"

	"github.com/kailas-cloud/paperlens/internal/text"
)

// RAKE ranks candidate phrases: runs of content words between stop-words,
// short words and phrase punctuation. Word score is degree/frequency, phrase
// score the sum of its word scores. Repeated phrases are scored once, at their
// first occurrence.
func RAKE(s string, topN int) []Keyword {
	if text.TooShort(s) {
		return nil
	}

	phrases := candidatePhrases(s)
	if len(phrases) == 0 {
		return nil
	}

	freq := make(map[string]int)
	degree := make(map[string]int)
	for _, p := range phrases {
		for _, w := range p {
			freq[w]++
			degree[w] += len(p)
		}
	}

	seen := make(map[string]struct{}, len(phrases))
	kws := make([]Keyword, 0, len(phrases))
	for _, p := range phrases {
		key := strings.Join(p, " ")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		var score float64
		for _, w := range p {
			score += float64(degree[w]) / float64(freq[w])
		}
		kws = append(kws, Keyword{Term: key, Score: score})
	}
	return rank(kws, topN)
}

func candidatePhrases(s string) [][]string {
	var phrases [][]string
	for _, unit := range text.SplitPhraseUnits(s) {
		var run []string
		for _, w := range strings.Fields(text.Clean(unit)) {
			if text.Len(w) < text.MinTokenLength || text.IsStopWord(w) {
				if len(run) > 0 {
					phrases = append(phrases, run)
					run = nil
				}
				continue
			}
			run = append(run, w)
		}
		if len(run) > 0 {
			phrases = append(phrases, run)
		}
	}
	return phrases
}
