// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mcq-engine/internal/ontology"
	"github.com/pdiddy/mcq-engine/internal/pipeline"
	"github.com/pdiddy/mcq-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate questions for one document",
	Long: `Generate reads a plain-text document from --file (or stdin), extracts its
key terms, and prints one multiple-choice question per term that could be
resolved, in term rank order.

Use --report to include what happened to every candidate term.`,
	RunE: runGenerate,
}

// generateOutput is the document written by --format json and yaml.
type generateOutput struct {
	MCQs   []types.MCQ      `json:"mcqs" yaml:"mcqs"`
	Report *pipeline.Report `json:"report,omitempty" yaml:"report,omitempty"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	format, _ := cmd.Flags().GetString("format")
	withReport, _ := cmd.Flags().GetBool("report")

	switch format {
	case "json", "yaml", "table":
	default:
		return fmt.Errorf("unsupported format %q: use json, yaml, or table", format)
	}

	text, err := readDocument(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	mcqs, report, err := p.GenerateWithReport(ctx, text)
	if err != nil {
		if len(mcqs) == 0 {
			return err
		}
		logger.Warn("returning partial results", zap.Int("questions", len(mcqs)), zap.Error(err))
	}
	if mcqs == nil {
		mcqs = []types.MCQ{}
	}

	out := generateOutput{MCQs: mcqs}
	if withReport {
		out.Report = &report
	}
	return writeGenerateOutput(cmd.OutOrStdout(), out, format)
}

// readDocument reads path, or r when path is empty or "-".
func readDocument(path string, r io.Reader) (string, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return string(data), nil
}

// buildPipeline loads the configured lexicon and wires the default stages.
// Without a lexicon every term goes to ConceptNet.
func buildPipeline(ctx context.Context, cfg types.PipelineConfig) (*pipeline.Pipeline, error) {
	deps := pipeline.Deps{}
	lex, err := ontology.Load(ctx, cfg.Lexicon)
	switch {
	case errors.Is(err, ontology.ErrNoLexicon):
		logger.Warn("no lexicon configured; distractors come from ConceptNet only")
	case err != nil:
		return nil, fmt.Errorf("loading lexicon: %w", err)
	default:
		logger.Info("lexicon loaded", zap.Int("senses", lex.Len()))
		deps.Ontology = lex
	}
	if deps.Ontology == nil && !cfg.ConceptNet.Enabled {
		return nil, errors.New("no distractor source: configure a lexicon or enable ConceptNet")
	}
	return pipeline.New(deps, cfg, logger.Named("pipeline")), nil
}

func writeGenerateOutput(w io.Writer, out generateOutput, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(out.MCQs) == 0 {
		fmt.Fprintln(w, "No questions generated.")
	}
	for i, q := range out.MCQs {
		fmt.Fprintf(w, "%d. %s\n", i+1, q.Question)
		for _, l := range types.OptionLabels {
			opt, ok := q.Options[l]
			if !ok {
				continue
			}
			mark := ""
			if l == q.Answer {
				mark = "  *"
			}
			fmt.Fprintf(w, "   %s) %s%s\n", l, opt, mark)
		}
		fmt.Fprintln(w)
	}
	if out.Report != nil {
		writeReportTable(w, *out.Report)
	}
	return nil
}

func writeReportTable(w io.Writer, r pipeline.Report) {
	fmt.Fprintf(w, "%-4s  %-24s  %-14s  %-10s  %s\n", "Rank", "Term", "Sense", "Strategy", "Outcome")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, t := range r.Terms {
		term := t.Term
		if len(term) > 24 {
			term = term[:21] + "..."
		}
		sense := t.Sense
		if sense == "" {
			sense = "-"
		}
		fmt.Fprintf(w, "%-4d  %-24s  %-14s  %-10s  %s\n", t.Rank+1, term, sense, t.Strategy, t.Outcome)
	}
	fmt.Fprintf(w, "\n%d sentences, %d candidates, %d questions\n",
		r.Sentences, len(r.Candidates), r.Count(pipeline.OutcomeGenerated))
}

func init() {
	generateCmd.Flags().StringP("file", "f", "", "plain-text document to read (default: stdin)")
	generateCmd.Flags().String("format", "json", "output format: json, yaml, or table")
	generateCmd.Flags().Bool("report", false, "include a per-term report")

	rootCmd.AddCommand(generateCmd)
}
