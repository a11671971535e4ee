package retrieval

import (
	"strings"
	"unicode"
)

// #region stopwords
// stopwords contains common English words excluded from keyword matching.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "am": true, "do": true, "does": true,
	"did": true, "have": true, "has": true, "had": true, "be": true,
	"been": true, "being": true, "will": true, "would": true, "could": true,
	"should": true, "may": true, "might": true, "can": true, "shall": true,
	"not": true, "no": true, "and": true, "or": true, "but": true,
	"if": true, "then": true, "than": true, "so": true, "as": true,
	"at": true, "by": true, "for": true, "from": true, "in": true,
	"into": true, "of": true, "on": true, "to": true, "with": true,
	"about": true, "up": true, "out": true, "it": true, "its": true,
	"this": true, "that": true, "these": true, "those": true, "what": true,
	"which": true, "who": true, "how": true, "when": true, "where": true,
	"why": true, "you": true, "me": true, "i": true, "my": true,
	"your": true, "we": true, "they": true, "he": true, "she": true,
	"her": true, "him": true, "us": true, "them": true, "their": true,
	"there": true, "also": true,
}

// tokenize lowercases text, splits on non-letter runes, and returns the
// distinct tokens that survive the length and stopword filters.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	var tokens []string
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] || seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}

// tokenSet builds a lookup set over tokens. Queries build the set once
// and score every chunk against it.
func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

// overlap counts how many tokens are present in the set.
func overlap(set map[string]bool, tokens []string) int {
	n := 0
	for _, t := range tokens {
		if set[t] {
			n++
		}
	}
	return n
}

// #endregion stopwords
