// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ontology provides the lexical hierarchy used for sense
// disambiguation and distractor generation: an Ontology interface, an
// in-memory Lexicon implementing it, and loaders for WordNet dictionary
// files, SQLite lexicon databases, and YAML fixtures.
package ontology

import (
	"errors"
	"sort"
	"strings"

	"github.com/pdiddy/mcq-engine/pkg/types"
)

// ErrNotFound is returned when a sense ID is not in the lexicon.
var ErrNotFound = errors.New("sense not found")

// Ontology is a read-only hierarchy of noun senses. Implementations must be
// safe for concurrent use.
type Ontology interface {
	// Senses returns the noun senses of lemma, most frequent first.
	Senses(lemma string) []types.Sense

	// Hypernyms returns the direct generalizations of the sense with id.
	Hypernyms(id string) []types.Sense

	// Hyponyms returns the direct specializations of the sense with id.
	Hyponyms(id string) []types.Sense
}

// RelationKind distinguishes class hypernymy from instance membership
// ("Paris" is an instance of "national capital", not a kind of it).
type RelationKind string

const (
	RelHypernym RelationKind = "hypernym"
	RelInstance RelationKind = "instance"
)

// Relation links a child sense to its parent.
type Relation struct {
	Parent string       `json:"parent" yaml:"parent"`
	Child  string       `json:"child" yaml:"child"`
	Kind   RelationKind `json:"kind" yaml:"kind"`
}

type entry struct {
	sense      types.Sense
	hypernyms  []string
	instanceOf []string
	hyponyms   []string
	instances  []string
}

// Lexicon is an in-memory Ontology. It is built single-threaded by a
// loader and is read-only, and therefore safe for concurrent use, once
// handed to the pipeline.
type Lexicon struct {
	entries map[string]*entry
	index   map[string][]string // normalized lemma → sense IDs in frequency order
	order   []string            // sense IDs in insertion order
}

// NewLexicon returns an empty Lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{
		entries: make(map[string]*entry),
		index:   make(map[string][]string),
	}
}

// NormalizeLemma lowercases a term and joins its words with underscores,
// the form lemmas are indexed under.
func NormalizeLemma(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), "_")
}

// AddSense stores s, replacing any sense with the same ID. Unless the
// sense is already indexed under one of its lemmas, it is appended to that
// lemma's sense list, so insertion order is frequency order.
func (l *Lexicon) AddSense(s types.Sense) {
	l.putSense(s)
	for _, lemma := range s.Lemmas {
		l.IndexLemma(lemma, s.ID)
	}
}

// putSense stores s without indexing its lemmas.
func (l *Lexicon) putSense(s types.Sense) {
	e, ok := l.entries[s.ID]
	if !ok {
		e = &entry{}
		l.entries[s.ID] = e
		l.order = append(l.order, s.ID)
	}
	e.sense = s
}

// IndexLemma appends id to the sense list of lemma unless already present.
func (l *Lexicon) IndexLemma(lemma, id string) {
	key := NormalizeLemma(lemma)
	for _, existing := range l.index[key] {
		if existing == id {
			return
		}
	}
	l.index[key] = append(l.index[key], id)
}

// SetLemmaOrder replaces the sense list of lemma with ids, dropping IDs
// that are not in the lexicon.
func (l *Lexicon) SetLemmaOrder(lemma string, ids []string) {
	key := NormalizeLemma(lemma)
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := l.entries[id]; ok {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		delete(l.index, key)
		return
	}
	l.index[key] = kept
}

// AddRelation links child to parent. Both senses must already exist.
func (l *Lexicon) AddRelation(parent, child string, kind RelationKind) error {
	p, ok := l.entries[parent]
	if !ok {
		return ErrNotFound
	}
	c, ok := l.entries[child]
	if !ok {
		return ErrNotFound
	}
	switch kind {
	case RelInstance:
		c.instanceOf = appendUnique(c.instanceOf, parent)
		p.instances = appendUnique(p.instances, child)
	default:
		c.hypernyms = appendUnique(c.hypernyms, parent)
		p.hyponyms = appendUnique(p.hyponyms, child)
	}
	return nil
}

// Sense returns the sense with id.
func (l *Lexicon) Sense(id string) (types.Sense, error) {
	e, ok := l.entries[id]
	if !ok {
		return types.Sense{}, ErrNotFound
	}
	return e.sense, nil
}

// Senses returns the senses indexed under lemma (any case, spaces or
// underscores), most frequent first.
func (l *Lexicon) Senses(lemma string) []types.Sense {
	return l.collect(l.index[NormalizeLemma(lemma)])
}

// Hypernyms returns the class hypernyms of id. A sense with none, such as a
// named instance, returns the classes it is an instance of instead.
func (l *Lexicon) Hypernyms(id string) []types.Sense {
	e, ok := l.entries[id]
	if !ok {
		return nil
	}
	if len(e.hypernyms) > 0 {
		return l.collect(e.hypernyms)
	}
	return l.collect(e.instanceOf)
}

// Hyponyms returns the subclasses of id followed by its named instances.
func (l *Lexicon) Hyponyms(id string) []types.Sense {
	e, ok := l.entries[id]
	if !ok {
		return nil
	}
	out := l.collect(e.hyponyms)
	return append(out, l.collect(e.instances)...)
}

// Len returns the number of senses.
func (l *Lexicon) Len() int {
	return len(l.entries)
}

// SenseIDs returns every sense ID in insertion order.
func (l *Lexicon) SenseIDs() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Lemmas returns every indexed lemma, sorted.
func (l *Lexicon) Lemmas() []string {
	out := make([]string, 0, len(l.index))
	for k := range l.index {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LemmaSenseIDs returns the sense IDs of an indexed lemma in frequency order.
func (l *Lexicon) LemmaSenseIDs(lemma string) []string {
	ids := l.index[NormalizeLemma(lemma)]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Relations returns every parent link, grouped by child in insertion order.
func (l *Lexicon) Relations() []Relation {
	var out []Relation
	for _, id := range l.order {
		e := l.entries[id]
		for _, p := range e.hypernyms {
			out = append(out, Relation{Parent: p, Child: id, Kind: RelHypernym})
		}
		for _, p := range e.instanceOf {
			out = append(out, Relation{Parent: p, Child: id, Kind: RelInstance})
		}
	}
	return out
}

func (l *Lexicon) collect(ids []string) []types.Sense {
	if len(ids) == 0 {
		return nil
	}
	out := make([]types.Sense, 0, len(ids))
	for _, id := range ids {
		if e, ok := l.entries[id]; ok {
			out = append(out, e.sense)
		}
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
