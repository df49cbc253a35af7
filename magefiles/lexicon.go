//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Lexicon groups targets that build the SQLite lexicon.
type Lexicon mg.Namespace

// WordNet imports the dict directory named by $WORDNET_DIR into data/lexicon.db.
func (Lexicon) WordNet() error {
	mg.Deps(Init, Build)
	dir := os.Getenv("WORDNET_DIR")
	if dir == "" {
		return fmt.Errorf("WORDNET_DIR is not set: point it at a WordNet 3.x dict directory")
	}
	return sh.RunV("bin/mcq-engine", "lexicon", "import", "--wordnet-dir", dir, "--lexicon", "data/lexicon.db")
}

// Fixture imports the test lexicon into data/lexicon.db for demos.
func (Lexicon) Fixture() error {
	mg.Deps(Init, Build)
	return sh.RunV("bin/mcq-engine", "lexicon", "import", "--fixture", "internal/ontology/testdata/lexicon.yaml", "--lexicon", "data/lexicon.db")
}
