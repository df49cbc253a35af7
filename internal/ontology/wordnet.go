// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ontology

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/mcq-engine/pkg/types"
)

// WordNet noun database files.
const (
	indexNounFile = "index.noun"
	dataNounFile  = "data.noun"
)

// WordNet pointer symbols used to build the hierarchy.
const (
	ptrHypernym         = "@"
	ptrInstanceHypernym = "@i"
)

var quotedExample = regexp.MustCompile(`"([^"]*)"`)

// ReadWordNet parses index.noun and data.noun from a WordNet 3.x dict
// directory. Senses are indexed in index.noun order, which lists the senses
// of each lemma by tagged frequency.
func ReadWordNet(dir string) (*Lexicon, error) {
	data, err := os.Open(filepath.Join(dir, dataNounFile))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dataNounFile, err)
	}
	defer data.Close()

	lex := NewLexicon()
	ptrs, err := readDataNoun(data, lex)
	if err != nil {
		return nil, err
	}
	for _, rel := range ptrs {
		// Pointers to senses outside data.noun are not part of the noun hierarchy.
		_ = lex.AddRelation(rel.Parent, rel.Child, rel.Kind)
	}

	index, err := os.Open(filepath.Join(dir, indexNounFile))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", indexNounFile, err)
	}
	defer index.Close()

	if err := readIndexNoun(index, lex); err != nil {
		return nil, err
	}
	return lex, nil
}

// readDataNoun adds one sense per synset line and returns the hypernym
// pointers found, to be linked once every sense exists.
func readDataNoun(r io.Reader, lex *Lexicon) ([]Relation, error) {
	var rels []Relation
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" || text[0] == ' ' {
			continue // license header
		}
		sense, parents, err := parseDataLine(text)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", dataNounFile, line, err)
		}
		// index.noun supplies the lemma order.
		lex.putSense(sense)
		rels = append(rels, parents...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", dataNounFile, err)
	}
	return rels, nil
}

// parseDataLine parses
//
//	offset lex_filenum ss_type w_cnt word lex_id [word lex_id...] p_cnt [ptr...] | gloss
//
// where w_cnt is two hex digits and each ptr is "symbol offset pos source/target".
func parseDataLine(text string) (types.Sense, []Relation, error) {
	body, gloss, _ := strings.Cut(text, "|")
	f := strings.Fields(body)
	if len(f) < 4 {
		return types.Sense{}, nil, fmt.Errorf("short synset line")
	}

	sense := types.Sense{ID: senseID(f[0])}
	wcnt, err := strconv.ParseInt(f[3], 16, 32)
	if err != nil {
		return sense, nil, fmt.Errorf("word count %q: %w", f[3], err)
	}
	pos := 4
	for i := 0; i < int(wcnt); i++ {
		if pos+1 >= len(f) {
			return sense, nil, fmt.Errorf("truncated word list")
		}
		sense.Lemmas = append(sense.Lemmas, f[pos])
		pos += 2
	}

	if pos >= len(f) {
		return sense, nil, fmt.Errorf("missing pointer count")
	}
	pcnt, err := strconv.Atoi(f[pos])
	if err != nil {
		return sense, nil, fmt.Errorf("pointer count %q: %w", f[pos], err)
	}
	pos++

	var rels []Relation
	for i := 0; i < pcnt; i++ {
		if pos+3 >= len(f) {
			return sense, nil, fmt.Errorf("truncated pointer list")
		}
		symbol, target, targetPOS := f[pos], f[pos+1], f[pos+2]
		pos += 4
		if targetPOS != "n" {
			continue
		}
		switch symbol {
		case ptrHypernym:
			rels = append(rels, Relation{Parent: senseID(target), Child: sense.ID, Kind: RelHypernym})
		case ptrInstanceHypernym:
			rels = append(rels, Relation{Parent: senseID(target), Child: sense.ID, Kind: RelInstance})
		}
	}

	sense.Gloss, sense.Examples = splitGloss(gloss)
	return sense, rels, nil
}

// splitGloss separates the definition from the quoted usage examples that
// follow it.
func splitGloss(gloss string) (string, []string) {
	gloss = strings.TrimSpace(gloss)
	i := strings.IndexByte(gloss, '"')
	if i < 0 {
		return gloss, nil
	}
	def := strings.TrimRight(strings.TrimSpace(gloss[:i]), "; ")
	var examples []string
	for _, m := range quotedExample.FindAllStringSubmatch(gloss[i:], -1) {
		if ex := strings.TrimSpace(m[1]); ex != "" {
			examples = append(examples, ex)
		}
	}
	return def, examples
}

// readIndexNoun parses
//
//	lemma pos synset_cnt p_cnt [ptr_symbol...] sense_cnt tagsense_cnt synset_offset...
//
// and indexes each lemma's senses in the listed order.
func readIndexNoun(r io.Reader, lex *Lexicon) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" || text[0] == ' ' {
			continue
		}
		f := strings.Fields(text)
		if len(f) < 6 {
			return fmt.Errorf("%s line %d: short index line", indexNounFile, line)
		}
		synsetCnt, err := strconv.Atoi(f[2])
		if err != nil {
			return fmt.Errorf("%s line %d: synset count: %w", indexNounFile, line, err)
		}
		pcnt, err := strconv.Atoi(f[3])
		if err != nil {
			return fmt.Errorf("%s line %d: pointer count: %w", indexNounFile, line, err)
		}
		start := 4 + pcnt + 2
		if start+synsetCnt > len(f) {
			return fmt.Errorf("%s line %d: truncated offsets", indexNounFile, line)
		}
		ids := make([]string, synsetCnt)
		for i, off := range f[start : start+synsetCnt] {
			ids[i] = senseID(off)
		}
		lex.SetLemmaOrder(f[0], ids)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", indexNounFile, err)
	}
	return nil
}

func senseID(offset string) string {
	return offset + "-n"
}
