package text

// stopWords holds English function words: articles, conjunctions, prepositions,
// common auxiliaries and pronouns. Read-only after package initialization.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"and": {}, "or": {}, "but": {}, "nor": {}, "so": {}, "yet": {},
	"for": {}, "of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "by": {}, "with": {},
	"from": {}, "as": {}, "into": {}, "about": {}, "than": {}, "then": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {}, "am": {},
	"do": {}, "does": {}, "did": {}, "has": {}, "have": {}, "had": {}, "having": {},
	"will": {}, "would": {}, "shall": {}, "should": {}, "can": {}, "could": {},
	"may": {}, "might": {}, "must": {},
	"it": {}, "its": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"he": {}, "she": {}, "they": {}, "them": {}, "their": {}, "his": {}, "her": {},
	"we": {}, "our": {}, "you": {}, "your": {}, "i": {}, "me": {}, "my": {},
	"which": {}, "who": {}, "whom": {}, "what": {},
	"not": {}, "no": {}, "also": {}, "such": {}, "there": {}, "here": {}, "if": {},
	"all": {}, "any": {}, "each": {}, "both": {}, "more": {}, "most": {}, "other": {},
	"some": {}, "only": {}, "very": {},
}

// IsStopWord reports whether the lowercase word is a function word.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
