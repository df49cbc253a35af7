// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package distractor produces plausible wrong answers for a term. Sources
// implement Strategy and are tried in order by a Chain: siblings in the
// lexical hierarchy first, then ConceptNet part-of relations.
package distractor

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/mcq-engine/pkg/types"
)

// Strategy is one source of distractors. sense is nil when the term could
// not be resolved in the lexicon; strategies that need it return nothing.
type Strategy interface {
	Name() string
	Distractors(ctx context.Context, term string, sense *types.Sense) ([]string, error)
}

// Result is the outcome of running a Chain for one term.
type Result struct {
	// Distractors is the cleaned distractor set.
	Distractors []string

	// Strategy names the strategy that produced the set, or "" when none did.
	Strategy string
}

// Chain tries strategies in order and keeps the first non-empty result.
type Chain struct {
	strategies []Strategy
}

// NewChain creates a Chain over strategies. Nil entries are skipped.
func NewChain(strategies ...Strategy) *Chain {
	c := &Chain{}
	for _, s := range strategies {
		if s != nil {
			c.strategies = append(c.strategies, s)
		}
	}
	return c
}

// Name returns the chain identifier.
func (c *Chain) Name() string { return "chain" }

// Distractors implements Strategy.
func (c *Chain) Distractors(ctx context.Context, term string, sense *types.Sense) ([]string, error) {
	res, err := c.Resolve(ctx, term, sense)
	return res.Distractors, err
}

// Resolve runs each strategy until one yields a non-empty set after
// cleaning. A failing strategy does not stop the chain; its error is
// returned only if no later strategy succeeds. Cancellation of ctx stops
// the chain immediately.
func (c *Chain) Resolve(ctx context.Context, term string, sense *types.Sense) (Result, error) {
	var lastErr error
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		ds, err := s.Distractors(ctx, term, sense)
		if err != nil {
			lastErr = &StrategyError{Strategy: s.Name(), Err: err}
			continue
		}
		if ds = Clean(term, ds); len(ds) > 0 {
			return Result{Distractors: ds, Strategy: s.Name()}, nil
		}
	}
	return Result{}, lastErr
}

// StrategyError records which strategy failed.
type StrategyError struct {
	Strategy string
	Err      error
}

func (e *StrategyError) Error() string { return e.Strategy + ": " + e.Err.Error() }

func (e *StrategyError) Unwrap() error { return e.Err }

// Clean trims each distractor and drops empty entries, entries equal to
// term, and case-insensitive duplicates. Underscores and spaces are treated
// alike when comparing. The first spelling of each entry is kept.
func Clean(term string, ds []string) []string {
	self := foldKey(term)
	seen := make(map[string]bool, len(ds))
	var out []string
	for _, d := range ds {
		d = strings.TrimSpace(d)
		key := foldKey(d)
		if key == "" || key == self || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}

func foldKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.ReplaceAll(s, "_", " "))), " ")
}

// TitleWords converts a lemma name to display form: underscores become
// spaces and each word is capitalized with the rest lowercased.
func TitleWords(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
