// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keyphrase

import (
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
	"github.com/kljensen/snowball/english"

	"github.com/pdiddy/mcq-engine/internal/stopwords"
)

// Candidate filtering limits.
const (
	minCandidateChars = 3
	minWordChars      = 2
	maxCandidateWords = 5
	validPunctuation  = "-"
)

// properNounTags is the proper-noun class in the Penn Treebank tag set.
var properNounTags = map[string]bool{
	"NNP":  true,
	"NNPS": true,
}

// token is a tagged word with its position in the document.
type token struct {
	text string
	tag  string
}

// Candidate is a keyphrase candidate and every place it occurs.
type Candidate struct {
	// Key is the space-joined lowercase stems; candidates are unique by Key.
	Key string

	// Surface is the lowercase form of the first occurrence.
	Surface string

	// Stems are the stemmed words of the candidate.
	Stems []string

	// Offsets are the word positions of each occurrence, ascending.
	Offsets []int
}

// First returns the position of the first occurrence.
func (c *Candidate) First() int {
	return c.Offsets[0]
}

// newTaggerModel loads the perceptron POS tagger. Loading dominates the
// cost of tagging a short document, so callers keep one model and reuse it.
// Tagging only reads the model, so it may be shared across goroutines.
func newTaggerModel() *prose.Model {
	doc, err := prose.NewDocument("",
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil
	}
	return doc.Model
}

// tagDocument tokenizes and POS-tags text with model. A nil model makes
// prose load its default tagger for this call.
func tagDocument(text string, model *prose.Model) ([]token, error) {
	opts := []prose.DocOpt{
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	}
	if model != nil {
		opts = append(opts, prose.UsingModel(model))
	}
	doc, err := prose.NewDocument(text, opts...)
	if err != nil {
		return nil, err
	}
	toks := doc.Tokens()
	out := make([]token, len(toks))
	for i, t := range toks {
		out[i] = token{text: t.Text, tag: t.Tag}
	}
	return out, nil
}

// selectCandidates returns the longest runs of tokens whose tag is in
// valid, after filtering, in order of first occurrence.
func selectCandidates(tokens []token, valid map[string]bool) []*Candidate {
	byKey := make(map[string]*Candidate)
	var ordered []*Candidate

	add := func(start, end int) {
		words := make([]string, 0, end-start)
		for _, t := range tokens[start:end] {
			words = append(words, t.text)
		}
		if !keepCandidate(words) {
			return
		}
		stems := make([]string, len(words))
		for i, w := range words {
			stems[i] = stem(w)
		}
		key := strings.Join(stems, " ")
		if c, ok := byKey[key]; ok {
			c.Offsets = append(c.Offsets, start)
			return
		}
		c := &Candidate{
			Key:     key,
			Surface: strings.ToLower(strings.Join(words, " ")),
			Stems:   stems,
			Offsets: []int{start},
		}
		byKey[key] = c
		ordered = append(ordered, c)
	}

	start := -1
	for i, t := range tokens {
		if valid[t.tag] {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			add(start, i)
			start = -1
		}
	}
	if start >= 0 {
		add(start, len(tokens))
	}
	return ordered
}

// keepCandidate applies the stopword, length, and character filters.
func keepCandidate(words []string) bool {
	if len(words) == 0 || len(words) > maxCandidateWords {
		return false
	}
	total := 0
	for _, w := range words {
		if stopwords.Ignorable(w) {
			return false
		}
		n := len([]rune(w))
		if n < minWordChars {
			return false
		}
		if !isAlphanum(w) {
			return false
		}
		total += n
	}
	return total >= minCandidateChars
}

// isAlphanum reports whether w is made of letters and digits once the
// permitted punctuation is removed.
func isAlphanum(w string) bool {
	stripped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(validPunctuation, r) {
			return -1
		}
		return r
	}, w)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func stem(w string) string {
	return english.Stem(strings.ToLower(w), false)
}
