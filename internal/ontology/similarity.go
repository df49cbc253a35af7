// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ontology

// maxHierarchyDepth bounds hypernym walks; WordNet's noun hierarchy is
// under 20 levels deep, so anything longer indicates a cycle.
const maxHierarchyDepth = 64

// Ancestors returns every sense reachable from id through hypernym links,
// including id itself at distance 0, mapped to its shortest distance.
func Ancestors(ont Ontology, id string) map[string]int {
	dist := map[string]int{id: 0}
	frontier := []string{id}
	for d := 1; len(frontier) > 0 && d <= maxHierarchyDepth; d++ {
		var next []string
		for _, cur := range frontier {
			for _, h := range ont.Hypernyms(cur) {
				if _, seen := dist[h.ID]; seen {
					continue
				}
				dist[h.ID] = d
				next = append(next, h.ID)
			}
		}
		frontier = next
	}
	return dist
}

// MaxDepth returns the length of the longest hypernym path from id to a
// root. A root has depth 0.
func MaxDepth(ont Ontology, id string) int {
	return maxDepth(ont, id, make(map[string]int), 0)
}

func maxDepth(ont Ontology, id string, memo map[string]int, level int) int {
	if d, ok := memo[id]; ok {
		return d
	}
	if level >= maxHierarchyDepth {
		return 0
	}
	best := 0
	for _, h := range ont.Hypernyms(id) {
		if d := maxDepth(ont, h.ID, memo, level+1) + 1; d > best {
			best = d
		}
	}
	memo[id] = best
	return best
}

// WuPalmer returns the Wu-Palmer similarity of two senses:
//
//	2·depth(lcs) / (len(a, lcs) + len(b, lcs) + 2·depth(lcs))
//
// where lcs is the deepest common hypernym and depth counts from 1 at a
// root. Senses with no common hypernym score 0; identical senses score 1.
func WuPalmer(ont Ontology, a, b string) float64 {
	if a == b {
		return 1
	}
	da := Ancestors(ont, a)
	db := Ancestors(ont, b)

	memo := make(map[string]int)
	lcs, lcsDepth, found := "", -1, false
	for id, distA := range da {
		distB, ok := db[id]
		if !ok {
			continue
		}
		d := maxDepth(ont, id, memo, 0)
		switch {
		case !found, d > lcsDepth:
		case d == lcsDepth && distA+distB < da[lcs]+db[lcs]:
		case d == lcsDepth && distA+distB == da[lcs]+db[lcs] && id < lcs:
		default:
			continue
		}
		lcs, lcsDepth, found = id, d, true
	}
	if !found {
		return 0
	}

	depth := float64(lcsDepth + 1)
	return 2 * depth / (float64(da[lcs]+db[lcs]) + 2*depth)
}
