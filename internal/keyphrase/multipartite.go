// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keyphrase ranks the proper-noun phrases of a document with
// MultipartiteRank: candidates are grouped into topics, linked across topics
// by positional proximity, and scored with weighted PageRank.
package keyphrase

import (
	"math"
	"sort"
	"sync"

	"github.com/jdkato/prose/v2"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/pdiddy/mcq-engine/pkg/types"
)

// pageRankTol is the convergence tolerance for PageRank iterations.
const pageRankTol = 1e-10

// scoreQuantum rounds scores before ordering so that candidates whose
// scores differ only by iteration noise fall back to first-occurrence order.
const scoreQuantum = 1e9

// Extractor ranks candidate terms in a document. It is safe for concurrent
// use. The POS tagger is loaded on the first Extract and reused after that.
type Extractor struct {
	cfg   types.KeyphraseConfig
	valid map[string]bool

	modelOnce sync.Once
	model     *prose.Model
}

// New creates an Extractor. Zero-valued settings in cfg take their defaults.
func New(cfg types.KeyphraseConfig) *Extractor {
	def := types.DefaultKeyphraseConfig()
	if cfg.TopN <= 0 {
		cfg.TopN = def.TopN
	}
	if cfg.Alpha <= 0 {
		cfg.Alpha = def.Alpha
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.Damping <= 0 || cfg.Damping >= 1 {
		cfg.Damping = def.Damping
	}
	return &Extractor{cfg: cfg, valid: properNounTags}
}

// Extract returns up to TopN terms of text, highest weighted first. Terms
// are the lowercase surface form of each candidate's first occurrence.
// A document with no proper-noun candidates yields an empty result.
func (e *Extractor) Extract(text string) []string {
	tokens, err := tagDocument(text, e.tagger())
	if err != nil || len(tokens) == 0 {
		return nil
	}
	cands := selectCandidates(tokens, e.valid)
	ranked := e.Rank(cands)
	if len(ranked) > e.cfg.TopN {
		ranked = ranked[:e.cfg.TopN]
	}
	out := make([]string, len(ranked))
	for i, c := range ranked {
		out[i] = c.Surface
	}
	return out
}

func (e *Extractor) tagger() *prose.Model {
	e.modelOnce.Do(func() { e.model = newTaggerModel() })
	return e.model
}

// Rank orders cands by MultipartiteRank weight, descending. Ties keep the
// earlier-occurring candidate first.
func (e *Extractor) Rank(cands []*Candidate) []*Candidate {
	switch len(cands) {
	case 0:
		return nil
	case 1:
		return []*Candidate{cands[0]}
	}

	topics := clusterTopics(cands, e.cfg.Threshold)
	g := buildTopicGraph(cands, topics)
	adjustWeights(g, cands, topics, e.cfg.Alpha)

	ranks := network.PageRank(g, e.cfg.Damping, pageRankTol)

	ranked := make([]*Candidate, len(cands))
	copy(ranked, cands)
	scores := make(map[*Candidate]float64, len(cands))
	for i, c := range cands {
		scores[c] = math.Round(ranks[int64(i)] * scoreQuantum)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := scores[ranked[i]], scores[ranked[j]]
		if si != sj {
			return si > sj
		}
		return ranked[i].First() < ranked[j].First()
	})
	return ranked
}

// buildTopicGraph links every pair of candidates from different topics in
// both directions. The weight sums the inverse word gap over all pairs of
// occurrences, measured between the end of the earlier and the start of
// the later occurrence.
func buildTopicGraph(cands []*Candidate, topics []int) *simple.WeightedDirectedGraph {
	g := simple.NewWeightedDirectedGraph(0, 0)
	for i := range cands {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < len(cands); i++ {
		for j := i + 1; j < len(cands); j++ {
			if topics[i] == topics[j] {
				continue
			}
			w := proximity(cands[i], cands[j])
			if w == 0 {
				continue
			}
			g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(i), simple.Node(j), w))
			g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(j), simple.Node(i), w))
		}
	}
	return g
}

func proximity(a, b *Candidate) float64 {
	var w float64
	for _, pa := range a.Offsets {
		for _, pb := range b.Offsets {
			gap := pa - pb
			if gap < 0 {
				gap = -gap
			}
			switch {
			case pa < pb:
				gap -= len(a.Stems) - 1
			case pb < pa:
				gap -= len(b.Stems) - 1
			}
			if gap < 1 {
				gap = 1
			}
			w += 1 / float64(gap)
		}
	}
	return w
}

// adjustWeights boosts the first-occurring candidate of each topic. For
// every edge first→end, the weights of edges from the topic's other members
// to end are summed; the reverse edge end→first gains
// alpha·e^(1/(1+pos(first)))·sum.
func adjustWeights(g *simple.WeightedDirectedGraph, cands []*Candidate, topics []int, alpha float64) {
	members := make(map[int][]int)
	for i, t := range topics {
		members[t] = append(members[t], i)
	}

	type edge struct{ from, to int64 }
	boosts := make(map[edge]float64)
	var order []edge

	topicIDs := make([]int, 0, len(members))
	for t := range members {
		topicIDs = append(topicIDs, t)
	}
	sort.Ints(topicIDs)

	for _, t := range topicIDs {
		group := members[t]
		if len(group) < 2 {
			continue
		}
		first := group[0]
		for _, m := range group[1:] {
			if cands[m].First() < cands[first].First() {
				first = m
			}
		}
		to := g.From(int64(first))
		for to.Next() {
			end := to.Node().ID()
			for _, m := range group {
				if m == first {
					continue
				}
				if w, ok := g.Weight(int64(m), end); ok && g.HasEdgeFromTo(int64(m), end) {
					e := edge{from: int64(first), to: end}
					if _, seen := boosts[e]; !seen {
						order = append(order, e)
					}
					boosts[e] += w
				}
			}
		}
	}

	for _, e := range order {
		pos := math.Exp(1 / (1 + float64(cands[e.from].First())))
		rev, ok := g.Weight(e.to, e.from)
		if !ok {
			continue
		}
		rev += boosts[e] * alpha * pos
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(e.to), simple.Node(e.from), rev))
	}
}
