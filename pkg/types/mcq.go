// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the mcq-engine pipeline:
// the generated questions, lexicon senses, the term-to-sentence mapping, and
// per-stage configuration.
package types

// Blank replaces the answer term in a question stem.
const Blank = "________"

// OptionLabels are the labels assigned to shuffled options, in order.
var OptionLabels = []string{"a", "b", "c", "d"}

// MCQ is a single fill-in-the-blank multiple-choice question.
type MCQ struct {
	// Question is the context sentence with every occurrence of the term blanked.
	Question string `json:"question" yaml:"question"`

	// Options maps a label (a, b, c, d) to an option string.
	Options map[string]string `json:"options" yaml:"options"`

	// Answer is the label of the correct option.
	Answer string `json:"answer" yaml:"answer"`

	// Term is the candidate term the question was built from.
	Term string `json:"term" yaml:"term"`
}

// Correct returns the text of the correct option.
func (q MCQ) Correct() string {
	return q.Options[q.Answer]
}

// Sense is a single meaning of a lemma in the lexicon. Senses of one lemma
// are ordered by frequency of use, most common first.
type Sense struct {
	// ID uniquely identifies the sense within its lexicon (e.g. a WordNet offset).
	ID string `json:"id" yaml:"id"`

	// Lemmas lists the words that express this sense. The first lemma is the
	// head word; multi-word lemmas are joined with underscores.
	Lemmas []string `json:"lemmas" yaml:"lemmas"`

	// Gloss is the dictionary definition.
	Gloss string `json:"gloss" yaml:"gloss"`

	// Examples are usage sentences attached to the definition.
	Examples []string `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// Head returns the first lemma, or the empty string for a sense without lemmas.
func (s Sense) Head() string {
	if len(s.Lemmas) == 0 {
		return ""
	}
	return s.Lemmas[0]
}

// SentenceMap maps each candidate term to the sentences containing it,
// longest sentence first. Terms preserves the extractor's rank order and
// lists only terms with at least one sentence.
type SentenceMap struct {
	Terms     []string            `json:"terms" yaml:"terms"`
	Sentences map[string][]string `json:"sentences" yaml:"sentences"`
}

// Best returns the longest sentence containing term.
func (m SentenceMap) Best(term string) (string, bool) {
	sents := m.Sentences[term]
	if len(sents) == 0 {
		return "", false
	}
	return sents[0], true
}

// Len returns the number of mapped terms.
func (m SentenceMap) Len() int {
	return len(m.Terms)
}
