// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

// Outcome classifies what happened to one candidate term.
type Outcome string

const (
	OutcomeGenerated       Outcome = "generated"
	OutcomeUnmapped        Outcome = "unmapped-term"
	OutcomeNoDistractors   Outcome = "no-distractors"
	OutcomeServiceFailure  Outcome = "external-service-failure"
	OutcomeAssemblyFailure Outcome = "assembly-failure"
)

// TermReport records the fate of one candidate term.
type TermReport struct {
	Term     string  `json:"term" yaml:"term"`
	Rank     int     `json:"rank" yaml:"rank"`
	Sentence string  `json:"sentence,omitempty" yaml:"sentence,omitempty"`
	Sense    string  `json:"sense,omitempty" yaml:"sense,omitempty"` // empty when unresolved
	Strategy string  `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Outcome  Outcome `json:"outcome" yaml:"outcome"`
	Error    string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Resolved reports whether the term's sense was found in the lexicon.
func (t TermReport) Resolved() bool {
	return t.Sense != ""
}

// Report summarizes one generation run.
type Report struct {
	Sentences  int          `json:"sentences" yaml:"sentences"`
	Candidates []string     `json:"candidates" yaml:"candidates"`
	Terms      []TermReport `json:"terms" yaml:"terms"`
}

// Count returns the number of terms with outcome o.
func (r Report) Count(o Outcome) int {
	n := 0
	for _, t := range r.Terms {
		if t.Outcome == o {
			n++
		}
	}
	return n
}

// Unresolved returns the number of mapped terms whose sense was not found.
func (r Report) Unresolved() int {
	n := 0
	for _, t := range r.Terms {
		if t.Outcome != OutcomeUnmapped && !t.Resolved() {
			n++
		}
	}
	return n
}
