// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quiz assembles fill-in-the-blank multiple-choice questions from a
// term, its context sentence, and its distractors.
package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/mcq-engine/pkg/types"
)

// ErrNoDistractors is returned when a question would have no wrong options.
var ErrNoDistractors = errors.New("no distractors")

// ShuffleFunc permutes n elements through swap, like rand.Shuffle.
type ShuffleFunc func(n int, swap func(i, j int))

// Assembler builds MCQs. It is safe for concurrent use if its ShuffleFunc
// is; the default one is.
type Assembler struct {
	maxOptions int
	shuffle    ShuffleFunc
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithShuffle replaces the option shuffle, for reproducible output.
func WithShuffle(f ShuffleFunc) Option {
	return func(a *Assembler) { a.shuffle = f }
}

// WithMaxOptions caps the options per question, correct answer included.
// Values outside 2..len(types.OptionLabels) are ignored.
func WithMaxOptions(n int) Option {
	return func(a *Assembler) {
		if n >= 2 && n <= len(types.OptionLabels) {
			a.maxOptions = n
		}
	}
}

// NewAssembler creates an Assembler that shuffles with math/rand/v2.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		maxOptions: len(types.OptionLabels),
		shuffle:    rand.Shuffle,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Assemble blanks every case-insensitive occurrence of term in sentence and
// builds the options from the capitalized term followed by distractors,
// truncated to the option cap and shuffled. Distractors equal to the term
// are ignored. It returns ErrNoDistractors when none remain.
func (a *Assembler) Assemble(term, sentence string, distractors []string) (types.MCQ, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return types.MCQ{}, fmt.Errorf("empty term")
	}

	answer := Capitalize(term)
	options := []string{answer}
	seen := map[string]bool{strings.ToLower(term): true}
	for _, d := range distractors {
		key := strings.ToLower(strings.TrimSpace(d))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		options = append(options, d)
	}
	if len(options) < 2 {
		return types.MCQ{}, fmt.Errorf("term %q: %w", term, ErrNoDistractors)
	}
	if len(options) > a.maxOptions {
		options = options[:a.maxOptions]
	}

	a.shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	q := types.MCQ{
		Question: Blank(sentence, term),
		Options:  make(map[string]string, len(options)),
		Term:     term,
	}
	for i, opt := range options {
		label := types.OptionLabels[i]
		q.Options[label] = opt
		if opt == answer && q.Answer == "" {
			q.Answer = label
		}
	}
	return q, nil
}

// Blank replaces every case-insensitive occurrence of term in sentence with
// types.Blank. The term is matched literally, not as a pattern.
func Blank(sentence, term string) string {
	if term == "" {
		return sentence
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
	return re.ReplaceAllLiteralString(sentence, types.Blank)
}

// Capitalize uppercases the first rune of s and lowercases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
