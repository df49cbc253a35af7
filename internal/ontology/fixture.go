// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ontology

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mcq-engine/pkg/types"
)

// ErrNoLexicon is returned by Load when no lexicon source is configured.
var ErrNoLexicon = errors.New("no lexicon configured")

// fixtureFile is the YAML lexicon format. Senses are listed most frequent
// first for each of their lemmas.
type fixtureFile struct {
	Senses []fixtureSense `yaml:"senses"`
}

type fixtureSense struct {
	types.Sense `yaml:",inline"`
	Hypernyms   []string `yaml:"hypernyms,omitempty"`
	InstanceOf  []string `yaml:"instance_of,omitempty"`
}

// LoadYAML reads a YAML lexicon from path.
func LoadYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon %s: %w", path, err)
	}
	lex, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	return lex, nil
}

// ParseYAML decodes a YAML lexicon.
func ParseYAML(data []byte) (*Lexicon, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	lex := NewLexicon()
	for _, s := range f.Senses {
		if s.ID == "" {
			return nil, fmt.Errorf("sense without id (lemmas %v)", s.Lemmas)
		}
		lex.AddSense(s.Sense)
	}
	for _, s := range f.Senses {
		for _, p := range s.Hypernyms {
			if err := lex.AddRelation(p, s.ID, RelHypernym); err != nil {
				return nil, fmt.Errorf("hypernym %s of %s: %w", p, s.ID, err)
			}
		}
		for _, p := range s.InstanceOf {
			if err := lex.AddRelation(p, s.ID, RelInstance); err != nil {
				return nil, fmt.Errorf("instance_of %s of %s: %w", p, s.ID, err)
			}
		}
	}
	return lex, nil
}

// Load builds a Lexicon from the first configured source: the SQLite
// database at cfg.Path, the WordNet dict directory cfg.WordNetDir, or the
// YAML fixture cfg.Fixture.
func Load(ctx context.Context, cfg types.LexiconConfig) (*Lexicon, error) {
	switch {
	case cfg.Path != "":
		st, err := OpenStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		return st.Load(ctx)
	case cfg.WordNetDir != "":
		return ReadWordNet(cfg.WordNetDir)
	case cfg.Fixture != "":
		return LoadYAML(cfg.Fixture)
	}
	return nil, ErrNoLexicon
}
