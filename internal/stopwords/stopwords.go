// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stopwords holds the English stopword list shared by keyphrase
// candidate filtering and gloss-overlap disambiguation.
package stopwords

import (
	_ "embed"
	"strings"
	"unicode"
)

//go:embed english.txt
var englishList string

// english is built once at package init; lookups are read-only afterwards.
var english = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, w := range strings.Fields(englishList) {
		m[w] = struct{}{}
	}
	// Penn Treebank bracket escapes.
	for _, w := range []string{"-lrb-", "-rrb-", "-lcb-", "-rcb-", "-lsb-", "-rsb-"} {
		m[w] = struct{}{}
	}
	return m
}()

// Contains reports whether word (compared lowercase) is an English stopword
// or a bracket escape token.
func Contains(word string) bool {
	_, ok := english[strings.ToLower(word)]
	return ok
}

// IsPunct reports whether word consists only of punctuation or symbols.
func IsPunct(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

// Ignorable reports whether word should be skipped as a content word.
func Ignorable(word string) bool {
	return Contains(word) || IsPunct(word)
}
