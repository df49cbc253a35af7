// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package distractor

import (
	"context"
	"strings"

	"github.com/pdiddy/mcq-engine/internal/ontology"
	"github.com/pdiddy/mcq-engine/pkg/types"
)

// Hierarchy proposes the co-hyponyms of a sense: the other children of its
// first hypernym.
type Hierarchy struct {
	ont ontology.Ontology
}

// NewHierarchy creates a Hierarchy strategy over ont.
func NewHierarchy(ont ontology.Ontology) *Hierarchy {
	return &Hierarchy{ont: ont}
}

// Name returns the strategy identifier.
func (h *Hierarchy) Name() string { return "hierarchy" }

// Distractors returns the head lemma of every hyponym of the sense's first
// hypernym, in display form, excluding the term. A nil sense or a sense
// without hypernyms yields nothing.
func (h *Hierarchy) Distractors(_ context.Context, term string, sense *types.Sense) ([]string, error) {
	if sense == nil {
		return nil, nil
	}
	hypernyms := h.ont.Hypernyms(sense.ID)
	if len(hypernyms) == 0 {
		return nil, nil
	}

	var out []string
	seen := make(map[string]bool)
	for _, sib := range h.ont.Hyponyms(hypernyms[0].ID) {
		if sib.ID == sense.ID {
			continue
		}
		name := TitleWords(sib.Head())
		if name == "" || strings.EqualFold(name, term) || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}
