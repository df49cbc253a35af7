// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keyphrase

import "math"

// jaccardDistance returns 1 - |a∩b|/|a∪b| over the stem sets of a and b.
func jaccardDistance(a, b []string) float64 {
	set := make(map[string]uint8, len(a)+len(b))
	for _, s := range a {
		set[s] |= 1
	}
	for _, s := range b {
		set[s] |= 2
	}
	if len(set) == 0 {
		return 0
	}
	shared := 0
	for _, v := range set {
		if v == 3 {
			shared++
		}
	}
	return 1 - float64(shared)/float64(len(set))
}

// clusterTopics groups candidates by hierarchical agglomerative clustering
// with average linkage, merging while the closest pair of clusters is no
// farther apart than threshold. It returns a topic index per candidate;
// topics are numbered in order of their earliest member.
func clusterTopics(cands []*Candidate, threshold float64) []int {
	n := len(cands)
	topics := make([]int, n)
	if n == 0 {
		return topics
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := jaccardDistance(cands[i].Stems, cands[j].Stems)
			dist[i][j], dist[j][i] = d, d
		}
	}

	// clusters[k] holds the candidate indices of live cluster k.
	clusters := make([][]int, n)
	for i := range clusters {
		clusters[i] = []int{i}
	}

	linkage := func(a, b []int) float64 {
		var sum float64
		for _, i := range a {
			for _, j := range b {
				sum += dist[i][j]
			}
		}
		return sum / float64(len(a)*len(b))
	}

	for len(clusters) > 1 {
		bi, bj, best := -1, -1, math.Inf(1)
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				if d := linkage(clusters[i], clusters[j]); d < best {
					bi, bj, best = i, j, d
				}
			}
		}
		if best > threshold {
			break
		}
		clusters[bi] = append(clusters[bi], clusters[bj]...)
		clusters = append(clusters[:bj], clusters[bj+1:]...)
	}

	// Clusters keep the position of their lowest member, so numbering by
	// slice index orders topics by earliest member.
	for t, members := range clusters {
		for _, i := range members {
			topics[i] = t
		}
	}
	return topics
}
