// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wsd picks the sense of a term meant in a given sentence. Two
// independent predictors, maximum Wu-Palmer similarity and adapted Lesk,
// each choose a sense; the prediction with the lower (more frequent) sense
// index wins.
package wsd

import (
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
	"github.com/kljensen/snowball/english"

	"github.com/pdiddy/mcq-engine/internal/ontology"
	"github.com/pdiddy/mcq-engine/internal/stopwords"
	"github.com/pdiddy/mcq-engine/pkg/types"
)

// Disambiguator resolves terms against an Ontology. It holds no mutable
// state and is safe for concurrent use.
type Disambiguator struct {
	ont ontology.Ontology
}

// New creates a Disambiguator over ont.
func New(ont ontology.Ontology) *Disambiguator {
	return &Disambiguator{ont: ont}
}

// Disambiguate returns the sense of term used in sentence. It returns false
// when the ontology has no noun sense for term. The result depends only on
// term, sentence, and the ontology.
func (d *Disambiguator) Disambiguate(term, sentence string) (types.Sense, bool) {
	senses := d.ont.Senses(term)
	switch len(senses) {
	case 0:
		return types.Sense{}, false
	case 1:
		return senses[0], true
	}

	context := ContextWords(sentence, term)
	wup := MaxWupSimilarity(d.ont, senses, context)
	lesk := AdaptedLesk(d.ont, senses, context)
	return senses[Reconcile(wup, lesk)], true
}

// Reconcile combines two predicted sense indices by keeping the lower one.
func Reconcile(a, b int) int {
	return min(a, b)
}

// ContextWords returns the lowercase content words of sentence, without
// stopwords, punctuation, or the words of term itself.
func ContextWords(sentence, term string) []string {
	doc, err := prose.NewDocument(sentence,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil
	}

	skip := make(map[string]bool)
	for _, w := range splitWords(term) {
		skip[w] = true
	}

	var out []string
	for _, tok := range doc.Tokens() {
		w := strings.ToLower(tok.Text)
		if skip[w] || stopwords.Ignorable(w) || !hasLetter(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// MaxWupSimilarity scores each sense by summing, over the context words,
// the best Wu-Palmer similarity between the sense and any noun sense of the
// word. It returns the index of the highest-scoring sense; ties go to the
// lower index.
func MaxWupSimilarity(ont ontology.Ontology, senses []types.Sense, context []string) int {
	candidates := make([][]types.Sense, len(context))
	for i, w := range context {
		candidates[i] = ont.Senses(w)
	}

	best, bestScore := 0, -1.0
	for i, s := range senses {
		var score float64
		for _, others := range candidates {
			var top float64
			for _, o := range others {
				if sim := ontology.WuPalmer(ont, s.ID, o.ID); sim > top {
					top = sim
				}
			}
			score += top
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// AdaptedLesk scores each sense by the number of distinct context stems
// found in its signature: the words of its gloss, examples, and lemmas
// together with those of its direct hypernyms and hyponyms. It returns the
// index of the highest-scoring sense; ties go to the lower index.
func AdaptedLesk(ont ontology.Ontology, senses []types.Sense, context []string) int {
	ctx := make(map[string]bool, len(context))
	for _, w := range context {
		if stem := stemWord(w); stem != "" {
			ctx[stem] = true
		}
	}

	best, bestScore := 0, -1
	for i, s := range senses {
		sig := Signature(ont, s)
		score := 0
		for stem := range ctx {
			if sig[stem] {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// Signature returns the stemmed content words describing s and its direct
// neighbours in the hierarchy.
func Signature(ont ontology.Ontology, s types.Sense) map[string]bool {
	sig := make(map[string]bool)
	add := func(n types.Sense, examples bool) {
		addWords(sig, n.Gloss)
		for _, l := range n.Lemmas {
			addWords(sig, l)
		}
		if examples {
			for _, ex := range n.Examples {
				addWords(sig, ex)
			}
		}
	}

	add(s, true)
	for _, h := range ont.Hypernyms(s.ID) {
		add(h, false)
	}
	for _, h := range ont.Hyponyms(s.ID) {
		add(h, false)
	}
	return sig
}

func addWords(sig map[string]bool, text string) {
	for _, w := range splitWords(text) {
		if stopwords.Ignorable(w) {
			continue
		}
		if stem := stemWord(w); stem != "" {
			sig[stem] = true
		}
	}
}

// splitWords lowercases text and splits it into runs of letters and digits.
// Underscores in lemma names separate words.
func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func stemWord(w string) string {
	return english.Stem(w, false)
}

func hasLetter(w string) bool {
	for _, r := range w {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
