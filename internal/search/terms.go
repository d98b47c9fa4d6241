// Package search derives the lookup tokens stored on every post.
package search

import "strings"

// Terms splits text on spaces and . , ? ! #, lowercases every token and drops
// empty tokens and filler words. Order and duplicates are preserved.
func Terms(text string) []string {
	fields := strings.FieldsFunc(text, isDelimiter)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		token := strings.ToLower(f)
		if token == "" || IsFiller(token) {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// Normalize turns a user query into the form stored by Terms.
func Normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// IsFiller reports whether token is on the stop-word list.
func IsFiller(token string) bool {
	_, ok := fillerWords[token]
	return ok
}

func isDelimiter(r rune) bool {
	switch r {
	case ' ', '.', ',', '?', '!', '#':
		return true
	}
	return false
}
