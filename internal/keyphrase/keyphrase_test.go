// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keyphrase

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/mcq-engine/pkg/types"
)

// --- helpers ---

func tagged(pairs ...string) []token {
	var out []token
	for _, p := range pairs {
		text, tag, _ := strings.Cut(p, "/")
		out = append(out, token{text: text, tag: tag})
	}
	return out
}

func cand(key string, offsets ...int) *Candidate {
	return &Candidate{
		Key:     key,
		Surface: key,
		Stems:   strings.Fields(key),
		Offsets: offsets,
	}
}

func surfaces(cands []*Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Surface
	}
	return out
}

// --- candidate selection ---

func TestSelectCandidates_LongestProperNounRuns(t *testing.T) {
	toks := tagged(
		"Paris/NNP", "is/VBZ", "the/DT", "capital/NN", "of/IN", "France/NNP", "./.",
		"The/DT", "Eiffel/NNP", "Tower/NNP", "is/VBZ", "located/VBN", "in/IN", "Paris/NNP", "./.",
	)
	got := selectCandidates(toks, properNounTags)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"paris", "france", "eiffel tower"}, surfaces(got))
	assert.Equal(t, []int{0, 13}, got[0].Offsets)
	assert.Equal(t, []int{5}, got[1].Offsets)
	assert.Equal(t, []int{8}, got[2].Offsets)
	assert.Len(t, got[2].Stems, 2)
}

func TestSelectCandidates_TrailingRun(t *testing.T) {
	got := selectCandidates(tagged("We/PRP", "visited/VBD", "New/NNP", "York/NNP"), properNounTags)
	require.Len(t, got, 1)
	assert.Equal(t, "new york", got[0].Surface)
	assert.Equal(t, []int{2}, got[0].Offsets)
}

func TestKeepCandidate(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		want  bool
	}{
		{"plain proper noun", []string{"Paris"}, true},
		{"hyphenated", []string{"Rolls-Royce"}, true},
		{"contains stopword", []string{"The", "Hague"}, false},
		{"punctuation token", []string{"Paris", ","}, false},
		{"too short overall", []string{"Al"}, false},
		{"single-letter word", []string{"J", "Smith"}, false},
		{"dotted abbreviation", []string{"U.S."}, false},
		{"too many words", []string{"Aa", "Bb", "Cc", "Dd", "Ee", "Ff"}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keepCandidate(tt.words))
		})
	}
}

// --- clustering ---

func TestJaccardDistance(t *testing.T) {
	assert.InDelta(t, 0.5, jaccardDistance([]string{"new", "york"}, []string{"york"}), 1e-9)
	assert.InDelta(t, 1.0, jaccardDistance([]string{"pari"}, []string{"franc"}), 1e-9)
	assert.InDelta(t, 0.0, jaccardDistance([]string{"rome"}, []string{"rome"}), 1e-9)
}

func TestClusterTopics(t *testing.T) {
	cands := []*Candidate{
		cand("new york", 0),
		cand("paris", 5),
		cand("york", 10),
	}
	topics := clusterTopics(cands, 0.74)
	assert.Equal(t, topics[0], topics[2], "new york and york share a stem")
	assert.NotEqual(t, topics[0], topics[1])
	assert.Equal(t, 0, topics[0], "topics are numbered by earliest member")
}

func TestClusterTopics_LowThresholdKeepsSingletons(t *testing.T) {
	cands := []*Candidate{cand("new york", 0), cand("york", 3)}
	topics := clusterTopics(cands, 0.1)
	assert.NotEqual(t, topics[0], topics[1])
}

// --- ranking ---

func TestProximity_AccountsForCandidateLength(t *testing.T) {
	a := cand("eiffel tower", 8)
	b := cand("paris", 13)
	// Gap from the end of "eiffel tower" (9) to "paris" (13) is 4.
	assert.InDelta(t, 0.25, proximity(a, b), 1e-9)
	assert.InDelta(t, proximity(a, b), proximity(b, a), 1e-9)
}

func TestRank_FirstTopicMemberIsBoosted(t *testing.T) {
	e := New(types.KeyphraseConfig{})
	cands := []*Candidate{
		cand("new york", 0),
		cand("paris", 5),
		cand("york", 10),
	}
	ranked := e.Rank(cands)
	require.Len(t, ranked, 3)

	pos := map[string]int{}
	for i, c := range ranked {
		pos[c.Surface] = i
	}
	assert.Less(t, pos["new york"], pos["york"])
}

func TestRank_Deterministic(t *testing.T) {
	e := New(types.KeyphraseConfig{})
	build := func() []*Candidate {
		return []*Candidate{cand("paris", 0, 13), cand("france", 5), cand("eiffel tower", 8)}
	}
	first := surfaces(e.Rank(build()))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, surfaces(e.Rank(build())))
	}
	assert.ElementsMatch(t, []string{"paris", "france", "eiffel tower"}, first)
}

func TestRank_EdgeCases(t *testing.T) {
	e := New(types.KeyphraseConfig{})
	assert.Empty(t, e.Rank(nil))

	one := []*Candidate{cand("paris", 0)}
	assert.Equal(t, one, e.Rank(one))
}

// --- extraction ---

func TestExtract_Document(t *testing.T) {
	e := New(types.DefaultKeyphraseConfig())
	got := e.Extract("Paris is the capital of France. The Eiffel Tower is located in Paris.")
	assert.Contains(t, got, "paris")
	for _, term := range got {
		assert.Equal(t, strings.ToLower(term), term)
	}
}

func TestExtract_NoCandidates(t *testing.T) {
	e := New(types.DefaultKeyphraseConfig())
	assert.Empty(t, e.Extract(""))
	assert.Empty(t, e.Extract("the cat sat on the mat and looked at the dog."))
}

func TestExtract_RespectsTopN(t *testing.T) {
	e := New(types.KeyphraseConfig{TopN: 1})
	got := e.Extract("Paris is the capital of France. Berlin is the capital of Germany.")
	assert.LessOrEqual(t, len(got), 1)
}

func TestExtract_UniqueTerms(t *testing.T) {
	e := New(types.DefaultKeyphraseConfig())
	got := e.Extract("Rome is old. Rome is large. Rome has the Colosseum and Rome has the Forum.")
	seen := map[string]bool{}
	for _, term := range got {
		assert.False(t, seen[term], "duplicate term %q", term)
		seen[term] = true
	}
}

func TestExtract_ReusesTaggerModel(t *testing.T) {
	e := New(types.DefaultKeyphraseConfig())
	text := "Paris is the capital of France. The Eiffel Tower is located in Paris."

	first := e.Extract(text)
	model := e.model
	require.NotNil(t, model)

	assert.Equal(t, first, e.Extract(text))
	assert.Same(t, model, e.model, "the tagger is loaded once per Extractor")
}

func TestExtract_ConcurrentCallsShareTagger(t *testing.T) {
	e := New(types.DefaultKeyphraseConfig())
	text := "Paris is the capital of France. Berlin is the capital of Germany."
	want := New(types.DefaultKeyphraseConfig()).Extract(text)

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = e.Extract(text)
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
