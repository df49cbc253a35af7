// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ontology

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/mcq-engine/pkg/types"
)

const fixturePath = "testdata/lexicon.yaml"

func loadFixture(t *testing.T) *Lexicon {
	t.Helper()
	lex, err := LoadYAML(fixturePath)
	require.NoError(t, err)
	return lex
}

func ids(senses []types.Sense) []string {
	out := make([]string, len(senses))
	for i, s := range senses {
		out[i] = s.ID
	}
	return out
}

// --- Lexicon ---

func TestLexicon_SensesInFrequencyOrder(t *testing.T) {
	lex := loadFixture(t)
	assert.Equal(t, []string{"paris.n.01", "paris.n.02"}, ids(lex.Senses("paris")))
	assert.Equal(t, []string{"bank.n.01", "depository_financial_institution.n.01"}, ids(lex.Senses("bank")))
}

func TestLexicon_SensesNormalizesLemma(t *testing.T) {
	lex := loadFixture(t)
	assert.Equal(t, []string{"eiffel_tower.n.01"}, ids(lex.Senses("Eiffel Tower")))
	assert.Equal(t, []string{"eiffel_tower.n.01"}, ids(lex.Senses("eiffel_tower")))
	assert.Equal(t, []string{"paris.n.01"}, ids(lex.Senses("Capital of  France")))
	assert.Empty(t, lex.Senses("atlantis"))
}

func TestLexicon_HypernymsFallBackToInstanceOf(t *testing.T) {
	lex := loadFixture(t)
	assert.Equal(t, []string{"location.n.01"}, ids(lex.Hypernyms("city.n.01")))
	assert.Equal(t, []string{"national_capital.n.01"}, ids(lex.Hypernyms("paris.n.01")))
	assert.Empty(t, lex.Hypernyms("entity.n.01"))
	assert.Empty(t, lex.Hypernyms("missing"))
}

func TestLexicon_HyponymsIncludeInstances(t *testing.T) {
	lex := loadFixture(t)
	assert.Equal(t,
		[]string{"paris.n.01", "berlin.n.01", "rome.n.01", "madrid.n.01"},
		ids(lex.Hyponyms("national_capital.n.01")))
	assert.Equal(t, []string{"national_capital.n.01"}, ids(lex.Hyponyms("city.n.01")))
	assert.Empty(t, lex.Hyponyms("paris.n.01"))
}

func TestLexicon_Sense(t *testing.T) {
	lex := loadFixture(t)
	s, err := lex.Sense("city.n.01")
	require.NoError(t, err)
	assert.Equal(t, "city", s.Head())
	assert.Equal(t, []string{"they drove into the city"}, s.Examples)

	_, err = lex.Sense("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLexicon_AddRelationUnknownSense(t *testing.T) {
	lex := NewLexicon()
	lex.AddSense(types.Sense{ID: "a", Lemmas: []string{"a"}})
	assert.ErrorIs(t, lex.AddRelation("missing", "a", RelHypernym), ErrNotFound)
	assert.ErrorIs(t, lex.AddRelation("a", "missing", RelHypernym), ErrNotFound)
}

func TestParseYAML_Errors(t *testing.T) {
	_, err := ParseYAML([]byte("senses:\n  - lemmas: [x]\n"))
	assert.Error(t, err)

	_, err = ParseYAML([]byte("senses:\n  - id: a\n    hypernyms: [b]\n"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ParseYAML([]byte("senses: ["))
	assert.Error(t, err)
}

// --- similarity ---

func TestAncestors(t *testing.T) {
	lex := loadFixture(t)
	assert.Equal(t, map[string]int{
		"paris.n.01":            0,
		"national_capital.n.01": 1,
		"city.n.01":             2,
		"location.n.01":         3,
		"entity.n.01":           4,
	}, Ancestors(lex, "paris.n.01"))
}

func TestMaxDepth(t *testing.T) {
	lex := loadFixture(t)
	assert.Equal(t, 0, MaxDepth(lex, "entity.n.01"))
	assert.Equal(t, 4, MaxDepth(lex, "paris.n.01"))
	assert.Equal(t, 3, MaxDepth(lex, "paris.n.02"))
}

func TestWuPalmer(t *testing.T) {
	lex := loadFixture(t)
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "paris.n.01", "paris.n.01", 1},
		{"sibling capitals", "paris.n.01", "berlin.n.01", 0.8},
		{"city and country", "paris.n.01", "france.n.01", 0.4},
		{"city and prince", "paris.n.01", "paris.n.02", 2.0 / 9.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WuPalmer(lex, tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, WuPalmer(lex, tt.b, tt.a), 1e-9)
		})
	}
}

func TestWuPalmer_NoCommonAncestor(t *testing.T) {
	lex := NewLexicon()
	lex.AddSense(types.Sense{ID: "a", Lemmas: []string{"a"}})
	lex.AddSense(types.Sense{ID: "b", Lemmas: []string{"b"}})
	assert.Zero(t, WuPalmer(lex, "a", "b"))
}

func TestWuPalmer_CycleTerminates(t *testing.T) {
	lex := NewLexicon()
	lex.AddSense(types.Sense{ID: "a", Lemmas: []string{"a"}})
	lex.AddSense(types.Sense{ID: "b", Lemmas: []string{"b"}})
	require.NoError(t, lex.AddRelation("a", "b", RelHypernym))
	require.NoError(t, lex.AddRelation("b", "a", RelHypernym))
	assert.Greater(t, WuPalmer(lex, "a", "b"), 0.0)
}

// --- WordNet ---

const testDataNoun = `  1 This software and database is being provided to you, the LICENSEE, by
  2 Princeton University under the following license.
00001740 03 n 01 entity 0 001 ~ 08000000 n 0000 | that which is perceived or known or inferred to have its own distinct existence
08000000 15 n 02 city 0 metropolis 0 002 @ 00001740 n 0000 ~i 08900000 n 0000 | a large and densely populated urban area; "they drove into the city"
08900000 15 n 02 Paris 0 City_of_Light 0 002 @i 08000000 n 0000 + 02900000 a 0101 | the capital and largest city of France
10400000 18 n 01 Paris 0 001 @ 00001740 n 0000 | the prince of Troy; "Paris abducted Helen"; "Paris was a Trojan"
`

const testIndexNoun = `  1 This software and database is being provided to you, the LICENSEE, by
city n 1 2 @ ~ 1 1 08000000
city_of_light n 1 1 @i 1 0 08900000
entity n 1 1 ~ 1 0 00001740
metropolis n 1 1 @ 1 0 08000000
paris n 2 2 @ @i 2 1 10400000 08900000
`

func writeWordNet(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, dataNounFile), []byte(testDataNoun), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, indexNounFile), []byte(testIndexNoun), 0o644))
	return dir
}

func TestReadWordNet(t *testing.T) {
	lex, err := ReadWordNet(writeWordNet(t))
	require.NoError(t, err)
	assert.Equal(t, 4, lex.Len())

	// index.noun order wins over data.noun order.
	assert.Equal(t, []string{"10400000-n", "08900000-n"}, ids(lex.Senses("Paris")))
	assert.Equal(t, []string{"08900000-n"}, ids(lex.Senses("city of light")))

	city, err := lex.Sense("08000000-n")
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "metropolis"}, city.Lemmas)
	assert.Equal(t, "a large and densely populated urban area", city.Gloss)
	assert.Equal(t, []string{"they drove into the city"}, city.Examples)

	assert.Equal(t, []string{"08000000-n"}, ids(lex.Hypernyms("08900000-n")))
	assert.Equal(t, []string{"08900000-n"}, ids(lex.Hyponyms("08000000-n")))
	assert.Equal(t, []string{"00001740-n"}, ids(lex.Hypernyms("10400000-n")))
}

func TestReadWordNet_MissingFiles(t *testing.T) {
	_, err := ReadWordNet(t.TempDir())
	assert.Error(t, err)
}

func TestParseDataLine_Malformed(t *testing.T) {
	for _, line := range []string{
		"00001740 03 n",
		"00001740 03 n zz entity 0 000 | gloss",
		"00001740 03 n 02 entity 0 | gloss",
		"00001740 03 n 01 entity 0 002 @ 00000001 n 0000 | gloss",
	} {
		_, _, err := parseDataLine(line)
		assert.Error(t, err, line)
	}
}

func TestSplitGloss(t *testing.T) {
	def, ex := splitGloss(` the prince of Troy; "Paris abducted Helen"; "Paris was a Trojan" `)
	assert.Equal(t, "the prince of Troy", def)
	assert.Equal(t, []string{"Paris abducted Helen", "Paris was a Trojan"}, ex)

	def, ex = splitGloss("a republic in central Europe")
	assert.Equal(t, "a republic in central Europe", def)
	assert.Nil(t, ex)
}

// --- Store ---

func TestStore_ImportLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	lex := loadFixture(t)

	st, err := OpenStore(filepath.Join(t.TempDir(), "lexicon", "lexicon.db"))
	require.NoError(t, err)
	defer st.Close()

	var buf bytes.Buffer
	summary, err := st.Import(ctx, lex, &buf)
	require.NoError(t, err)
	assert.Equal(t, lex.Len(), summary.Senses)
	assert.Equal(t, len(lex.Relations()), summary.Relations)
	assert.Contains(t, buf.String(), "imported senses")

	loaded, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, lex.Len(), loaded.Len())
	assert.Equal(t, lex.Senses("paris"), loaded.Senses("paris"))
	assert.Equal(t, lex.Senses("bank"), loaded.Senses("bank"))
	assert.Equal(t, ids(lex.Hyponyms("national_capital.n.01")), ids(loaded.Hyponyms("national_capital.n.01")))
	assert.Equal(t, ids(lex.Hypernyms("paris.n.02")), ids(loaded.Hypernyms("paris.n.02")))
}

func TestStore_ImportReplaces(t *testing.T) {
	ctx := context.Background()
	st, err := OpenStore(filepath.Join(t.TempDir(), "lexicon.db"))
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Import(ctx, loadFixture(t), &bytes.Buffer{})
	require.NoError(t, err)

	small := NewLexicon()
	small.AddSense(types.Sense{ID: "x.n.01", Lemmas: []string{"x"}, Gloss: "a letter"})
	_, err = st.Import(ctx, small, &bytes.Buffer{})
	require.NoError(t, err)

	loaded, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
	assert.Empty(t, loaded.Senses("paris"))
}

func TestStore_Lookup(t *testing.T) {
	ctx := context.Background()
	st, err := OpenStore(filepath.Join(t.TempDir(), "lexicon.db"))
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Import(ctx, loadFixture(t), &bytes.Buffer{})
	require.NoError(t, err)

	got, err := st.Lookup(ctx, "Paris")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "paris.n.01", got[0].ID)
	assert.Contains(t, got[1].Gloss, "Troy")

	got, err = st.Lookup(ctx, "atlantis")
	require.NoError(t, err)
	assert.Empty(t, got)
}

// --- Load ---

func TestLoad_Sources(t *testing.T) {
	ctx := context.Background()

	_, err := Load(ctx, types.LexiconConfig{})
	assert.ErrorIs(t, err, ErrNoLexicon)

	lex, err := Load(ctx, types.LexiconConfig{Fixture: fixturePath})
	require.NoError(t, err)
	assert.NotEmpty(t, lex.Senses("paris"))

	lex, err = Load(ctx, types.LexiconConfig{WordNetDir: writeWordNet(t)})
	require.NoError(t, err)
	assert.Equal(t, 4, lex.Len())

	_, err = Load(ctx, types.LexiconConfig{Fixture: "testdata/missing.yaml"})
	assert.Error(t, err)
}
