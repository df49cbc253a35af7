// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mapper finds, for every candidate term, the sentences that
// contain it as a whole word or phrase.
package mapper

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"

	"github.com/pdiddy/mcq-engine/pkg/types"
)

// Matcher finds whole-word, case-insensitive occurrences of a fixed set of
// terms. A single Aho-Corasick automaton over all terms scans each sentence
// once; its hits are then confirmed at word boundaries and resolved
// leftmost-longest so that overlapping terms do not both match the same span.
// A Matcher is safe for concurrent use.
type Matcher struct {
	terms    []string // original form, as returned in matches
	patterns []string // lowercase form, as searched
	ac       *ahocorasick.Matcher
}

// NewMatcher builds a Matcher over terms. Empty and duplicate terms are
// ignored; duplicates are detected case-insensitively.
func NewMatcher(terms []string) *Matcher {
	m := &Matcher{}
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		p := strings.ToLower(strings.TrimSpace(t))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		m.terms = append(m.terms, t)
		m.patterns = append(m.patterns, p)
	}
	if len(m.patterns) > 0 {
		m.ac = ahocorasick.NewStringMatcher(m.patterns)
	}
	return m
}

// span is one confirmed whole-word occurrence of pattern idx.
type span struct {
	start, end int
	idx        int
}

// Find returns the terms occurring in sentence, in order of occurrence,
// each at most once.
func (m *Matcher) Find(sentence string) []string {
	if m.ac == nil || sentence == "" {
		return nil
	}
	lower := strings.ToLower(sentence)
	hits := m.ac.MatchThreadSafe([]byte(lower))
	if len(hits) == 0 {
		return nil
	}

	var spans []span
	for _, idx := range hits {
		p := m.patterns[idx]
		for from := 0; from < len(lower); {
			i := strings.Index(lower[from:], p)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(p)
			if isBoundary(lower, start, end) {
				spans = append(spans, span{start: start, end: end, idx: idx})
			}
			_, size := utf8.DecodeRuneInString(lower[start:])
			from = start + size
		}
	}

	// Leftmost first; at the same start the longest wins.
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	var out []string
	found := make(map[int]bool)
	pos := 0
	for _, s := range spans {
		if s.start < pos {
			continue
		}
		pos = s.end
		if !found[s.idx] {
			found[s.idx] = true
			out = append(out, m.terms[s.idx])
		}
	}
	return out
}

// isBoundary reports whether s[start:end] is delimited by non-word
// characters (or the string edges) on both sides.
func isBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Map assigns each sentence to the terms it contains. Each term's sentences
// are ordered longest first; sentences of equal length keep their document
// order. Terms found in no sentence are omitted; the remaining terms keep
// their order in terms.
func Map(terms, sentences []string) types.SentenceMap {
	m := NewMatcher(terms)
	byTerm := make(map[string][]string)
	for _, sent := range sentences {
		for _, term := range m.Find(sent) {
			byTerm[term] = append(byTerm[term], sent)
		}
	}

	out := types.SentenceMap{Sentences: make(map[string][]string, len(byTerm))}
	for _, term := range m.terms {
		sents, ok := byTerm[term]
		if !ok {
			continue
		}
		sort.SliceStable(sents, func(i, j int) bool {
			return utf8.RuneCountInString(sents[i]) > utf8.RuneCountInString(sents[j])
		})
		out.Terms = append(out.Terms, term)
		out.Sentences[term] = sents
	}
	return out
}
