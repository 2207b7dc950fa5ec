package query

import "strings"

// stopWords are ignored when extracting significant query terms.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "from": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"how": true, "what": true, "why": true, "can": true, "does": true,
	"not": true, "you": true, "your": true, "this": true, "that": true,
}

// Terms extracts the significant terms of a query: lower-cased words
// longer than two characters that are not stop words. Duplicates are
// removed, first occurrence order preserved.
func Terms(q string) []string {
	q = strings.ToLower(q)
	seen := make(map[string]bool)
	var terms []string
	for _, word := range strings.Fields(q) {
		word = strings.Trim(word, `.,!?:;"'()[]`)
		if len(word) <= 2 || stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		terms = append(terms, word)
	}
	return terms
}

// MatchCount returns how many of the given terms appear (case-insensitive
// substring) in the haystack.
func MatchCount(haystack string, terms []string) int {
	haystack = strings.ToLower(haystack)
	n := 0
	for _, t := range terms {
		if strings.Contains(haystack, t) {
			n++
		}
	}
	return n
}
