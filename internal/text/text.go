// Package text normalizes raw paper text into tokens, sentences, paragraphs
// and RAKE phrase units. All functions are pure and safe for concurrent use.
package text

import (
	"iter"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MinTokenLength is the shortest token (in runes) kept by Tokens and Words.
	MinTokenLength = 3
	// MinSentenceLength is the shortest sentence (in runes) kept by SplitSentences.
	MinSentenceLength = 10
	// MinParagraphLength is the shortest paragraph (in runes) kept by SplitParagraphs.
	MinParagraphLength = 20
)

var (
	paragraphBreak = regexp.MustCompile(`\n(?:[ \t]*\n)+`)
	phraseBreak    = regexp.MustCompile("[.!?,;:()\\[\\]{}\"“”\r\n\t]+")
	lineBreaks     = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
)

// Sentence is a trimmed sentence with its position among the kept sentences.
type Sentence struct {
	Index int
	Text  string
}

// Tokens yields lowercase, punctuation-free words longer than two runes that are
// not stop-words. The sequence can be ranged over any number of times.
func Tokens(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for w := range Words(s) {
			if IsStopWord(w) {
				continue
			}
			if !yield(w) {
				return
			}
		}
	}
}

// Tokenize collects Tokens into a slice.
func Tokenize(s string) []string {
	return slices.Collect(Tokens(s))
}

// Words is Tokens without the stop-word filter.
func Words(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, w := range strings.Fields(Clean(s)) {
			if utf8.RuneCountInString(w) < MinTokenLength {
				continue
			}
			if !yield(w) {
				return
			}
		}
	}
}

// Clean lowercases s and drops every rune that is not a letter, digit,
// underscore or whitespace.
func Clean(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', unicode.IsSpace(r):
			return unicode.ToLower(r)
		default:
			return -1
		}
	}, s)
}

// SplitSentences splits after '.', '!' or '?' when followed by whitespace.
// Newlines are treated as spaces; sentences shorter than MinSentenceLength are dropped.
func SplitSentences(s string) []Sentence {
	flat := lineBreaks.Replace(s)

	var out []Sentence
	start := 0
	for i := 0; i < len(flat); i++ {
		switch flat[i] {
		case '.', '!', '?':
		default:
			continue
		}
		if i+1 >= len(flat) {
			break
		}
		next, _ := utf8.DecodeRuneInString(flat[i+1:])
		if !unicode.IsSpace(next) {
			continue
		}
		out = appendSentence(out, flat[start:i+1])
		start = i + 1
	}
	return appendSentence(out, flat[start:])
}

func appendSentence(out []Sentence, piece string) []Sentence {
	piece = strings.TrimSpace(piece)
	if utf8.RuneCountInString(piece) < MinSentenceLength {
		return out
	}
	return append(out, Sentence{Index: len(out), Text: piece})
}

// SplitParagraphs splits on blank lines and drops paragraphs shorter than MinParagraphLength.
func SplitParagraphs(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var out []string
	for _, p := range paragraphBreak.Split(s, -1) {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) < MinParagraphLength {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SplitPhraseUnits splits s on sentence punctuation plus commas, semicolons,
// colons, brackets, quotes and line breaks. Empty units are dropped.
func SplitPhraseUnits(s string) []string {
	var out []string
	for _, u := range phraseBreak.Split(s, -1) {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Len returns the rune length of s.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// MinDocumentLength is the shortest text (in runes) the extractors analyze.
const MinDocumentLength = 100

// TooShort reports whether s is below MinDocumentLength.
func TooShort(s string) bool {
	return utf8.RuneCountInString(s) < MinDocumentLength
}
