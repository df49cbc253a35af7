// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline turns a document into multiple-choice questions: it
// segments the text, extracts and ranks key terms, maps terms to sentences,
// and then resolves, finds distractors for, and assembles each term
// concurrently.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/mcq-engine/internal/distractor"
	"github.com/pdiddy/mcq-engine/internal/keyphrase"
	"github.com/pdiddy/mcq-engine/internal/mapper"
	"github.com/pdiddy/mcq-engine/internal/ontology"
	"github.com/pdiddy/mcq-engine/internal/quiz"
	"github.com/pdiddy/mcq-engine/internal/segment"
	"github.com/pdiddy/mcq-engine/internal/wsd"
	"github.com/pdiddy/mcq-engine/pkg/types"
)

// Extractor returns the ranked candidate terms of a document.
type Extractor interface {
	Extract(text string) []string
}

// Disambiguator resolves the sense of a term in a sentence.
type Disambiguator interface {
	Disambiguate(term, sentence string) (types.Sense, bool)
}

// Resolver produces the distractor set of a term.
type Resolver interface {
	Resolve(ctx context.Context, term string, sense *types.Sense) (distractor.Result, error)
}

// Assembler builds one question.
type Assembler interface {
	Assemble(term, sentence string, distractors []string) (types.MCQ, error)
}

// Deps are the stage implementations. Nil fields get the standard
// implementation; Disambiguator and Distractors need Ontology for that.
type Deps struct {
	Ontology      ontology.Ontology
	Segment       func(text string) []string
	Extractor     Extractor
	Disambiguator Disambiguator
	Distractors   Resolver
	Assembler     Assembler
}

// Pipeline generates questions. It is safe for concurrent use.
type Pipeline struct {
	cfg           types.PipelineConfig
	log           *zap.Logger
	segment       func(string) []string
	extractor     Extractor
	disambiguator Disambiguator
	distractors   Resolver
	assembler     Assembler
}

// New creates a Pipeline. Zero-valued settings in cfg take their defaults.
// A nil logger discards output.
func New(deps Deps, cfg types.PipelineConfig, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := types.DefaultPipelineConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.MaxOptions <= 0 {
		cfg.MaxOptions = def.MaxOptions
	}

	p := &Pipeline{
		cfg:           cfg,
		log:           logger,
		segment:       deps.Segment,
		extractor:     deps.Extractor,
		disambiguator: deps.Disambiguator,
		distractors:   deps.Distractors,
		assembler:     deps.Assembler,
	}
	if p.segment == nil {
		p.segment = segment.Split
	}
	if p.extractor == nil {
		p.extractor = keyphrase.New(cfg.Keyphrase)
	}
	if p.disambiguator == nil && deps.Ontology != nil {
		p.disambiguator = wsd.New(deps.Ontology)
	}
	if p.distractors == nil {
		var strategies []distractor.Strategy
		if deps.Ontology != nil {
			strategies = append(strategies, distractor.NewHierarchy(deps.Ontology))
		}
		if cfg.ConceptNet.Enabled {
			strategies = append(strategies, distractor.NewConceptNet(cfg.ConceptNet, logger.Named("conceptnet")))
		}
		p.distractors = distractor.NewChain(strategies...)
	}
	if p.assembler == nil {
		p.assembler = quiz.NewAssembler(quiz.WithMaxOptions(cfg.MaxOptions))
	}
	return p
}

// Generate returns the questions for text in term rank order. Terms that
// fail at any stage are logged and skipped. A blank document yields no
// questions and no error. When the request timeout expires the questions
// finished so far are returned with the context error.
func (p *Pipeline) Generate(ctx context.Context, text string) ([]types.MCQ, error) {
	mcqs, _, err := p.GenerateWithReport(ctx, text)
	return mcqs, err
}

// GenerateWithReport is Generate plus a per-term account of what happened.
func (p *Pipeline) GenerateWithReport(ctx context.Context, text string) ([]types.MCQ, Report, error) {
	var report Report
	if strings.TrimSpace(text) == "" {
		return nil, report, nil
	}

	if p.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.RequestTimeout)
		defer cancel()
	}
	start := time.Now()

	// Segmentation and extraction read the same text independently.
	var sentences, terms []string
	var prep errgroup.Group
	prep.Go(func() error {
		sentences = p.segment(text)
		return nil
	})
	prep.Go(func() error {
		terms = p.extractor.Extract(text)
		return nil
	})
	prep.Wait()

	report.Sentences = len(sentences)
	report.Candidates = terms
	if len(terms) == 0 {
		p.log.Info("no candidate terms", zap.Int("sentences", len(sentences)))
		return nil, report, nil
	}

	sentMap := mapper.Map(terms, sentences)

	results := make([]*types.MCQ, len(terms))
	report.Terms = make([]TermReport, len(terms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i, term := range terms {
		i, term := i, term
		g.Go(func() error {
			results[i], report.Terms[i] = p.processTerm(gctx, i, term, sentMap)
			return nil
		})
	}
	g.Wait()

	var mcqs []types.MCQ
	for _, q := range results {
		if q != nil {
			mcqs = append(mcqs, *q)
		}
	}

	p.log.Info("generated questions",
		zap.Int("sentences", len(sentences)),
		zap.Int("candidates", len(terms)),
		zap.Int("mapped", sentMap.Len()),
		zap.Int("questions", len(mcqs)),
		zap.Duration("elapsed", time.Since(start)))

	if err := ctx.Err(); err != nil {
		return mcqs, report, fmt.Errorf("generating questions: %w", err)
	}
	return mcqs, report, nil
}

// processTerm runs one term through disambiguation, distractor generation,
// and assembly.
func (p *Pipeline) processTerm(ctx context.Context, rank int, term string, sentMap types.SentenceMap) (*types.MCQ, TermReport) {
	tr := TermReport{Term: term, Rank: rank}
	log := p.log.With(zap.String("term", term), zap.Int("rank", rank))

	sentence, ok := sentMap.Best(term)
	if !ok {
		tr.Outcome = OutcomeUnmapped
		log.Debug("term not found in any sentence")
		return nil, tr
	}
	tr.Sentence = sentence

	var sense *types.Sense
	if p.disambiguator != nil {
		if s, ok := p.disambiguator.Disambiguate(term, sentence); ok {
			sense = &s
			tr.Sense = s.ID
		}
	}
	if sense == nil {
		log.Debug("sense unresolved")
	}

	res, err := p.distractors.Resolve(ctx, term, sense)
	if err != nil {
		tr.Outcome = OutcomeServiceFailure
		tr.Error = err.Error()
		log.Warn("distractor lookup failed", zap.Error(err))
		return nil, tr
	}
	tr.Strategy = res.Strategy

	q, err := p.assembler.Assemble(term, sentence, res.Distractors)
	if err != nil {
		tr.Outcome = OutcomeNoDistractors
		if !errors.Is(err, quiz.ErrNoDistractors) {
			tr.Outcome = OutcomeAssemblyFailure
			tr.Error = err.Error()
		}
		log.Debug("question dropped", zap.Error(err))
		return nil, tr
	}

	tr.Outcome = OutcomeGenerated
	log.Debug("question assembled", zap.String("strategy", res.Strategy), zap.Int("options", len(q.Options)))
	return &q, tr
}
