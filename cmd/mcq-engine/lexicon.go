// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/mcq-engine/internal/ontology"
	"github.com/pdiddy/mcq-engine/pkg/types"
)

// defaultLexiconPath is used when neither --lexicon nor the config names a database.
const defaultLexiconPath = "data/lexicon.db"

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Build and inspect the SQLite lexicon",
	Long: `Lexicon manages the SQLite database holding noun senses and their
hypernym and instance relations. Build it once from a WordNet dict directory
so later runs start without reparsing WordNet.`,
}

// --- import subcommand ---

var lexiconImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import WordNet or a YAML lexicon into the database",
	Long: `Import parses a WordNet 3.x dict directory (--wordnet-dir) or a YAML
lexicon (--fixture) and replaces the contents of the database named by
--lexicon (default data/lexicon.db).`,
	RunE: runLexiconImport,
}

func runLexiconImport(cmd *cobra.Command, args []string) error {
	wordnetDir := viper.GetString("pipeline.lexicon.wordnet_dir")
	fixture := viper.GetString("pipeline.lexicon.fixture")

	var lex *ontology.Lexicon
	var err error
	switch {
	case wordnetDir != "":
		lex, err = ontology.ReadWordNet(wordnetDir)
	case fixture != "":
		lex, err = ontology.LoadYAML(fixture)
	default:
		return fmt.Errorf("import source required: provide --wordnet-dir or --fixture")
	}
	if err != nil {
		return err
	}

	store, err := ontology.OpenStore(lexiconPath())
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Import(context.Background(), lex, cmd.OutOrStdout())
	return err
}

// --- lookup subcommand ---

var lexiconLookupCmd = &cobra.Command{
	Use:   "lookup <word>",
	Short: "Print the senses of a word, most frequent first",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLexiconLookup,
}

func runLexiconLookup(cmd *cobra.Command, args []string) error {
	store, err := ontology.OpenStore(lexiconPath())
	if err != nil {
		return err
	}
	defer store.Close()

	senses, err := store.Lookup(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatLookupOutput(cmd.OutOrStdout(), senses, jsonOutput)
}

func formatLookupOutput(w io.Writer, senses []types.Sense, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(senses)
	}

	if len(senses) == 0 {
		fmt.Fprintln(w, "No senses found.")
		return nil
	}
	for i, s := range senses {
		fmt.Fprintf(w, "%d. %s  [%s]\n", i+1, s.ID, strings.Join(s.Lemmas, ", "))
		fmt.Fprintf(w, "   %s\n", s.Gloss)
		for _, ex := range s.Examples {
			fmt.Fprintf(w, "   %q\n", ex)
		}
	}
	return nil
}

func lexiconPath() string {
	if p := viper.GetString("pipeline.lexicon.path"); p != "" {
		return p
	}
	return defaultLexiconPath
}

func init() {
	lexiconLookupCmd.Flags().Bool("json", false, "output senses as JSON")

	lexiconCmd.AddCommand(lexiconImportCmd)
	lexiconCmd.AddCommand(lexiconLookupCmd)

	rootCmd.AddCommand(lexiconCmd)
}
