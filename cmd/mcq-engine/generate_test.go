// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mcq-engine/internal/pipeline"
	"github.com/pdiddy/mcq-engine/pkg/types"
)

var sampleOutput = generateOutput{
	MCQs: []types.MCQ{{
		Question: "The Eiffel Tower is located in ________.",
		Options:  map[string]string{"a": "Berlin", "b": "Paris", "c": "Rome"},
		Answer:   "b",
		Term:     "paris",
	}},
	Report: &pipeline.Report{
		Sentences:  2,
		Candidates: []string{"paris", "atlantis"},
		Terms: []pipeline.TermReport{
			{Term: "paris", Rank: 0, Sense: "paris.n.01", Strategy: "hierarchy", Outcome: pipeline.OutcomeGenerated},
			{Term: "atlantis", Rank: 1, Outcome: pipeline.OutcomeUnmapped},
		},
	},
}

func TestWriteGenerateOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeGenerateOutput(&buf, generateOutput{MCQs: sampleOutput.MCQs}, "json"))

	var got generateOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleOutput.MCQs, got.MCQs)
	assert.Nil(t, got.Report)
	assert.NotContains(t, buf.String(), "report")
}

func TestWriteGenerateOutput_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeGenerateOutput(&buf, sampleOutput, "yaml"))

	var got generateOutput
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "b", got.MCQs[0].Answer)
	require.NotNil(t, got.Report)
	assert.Equal(t, pipeline.OutcomeUnmapped, got.Report.Terms[1].Outcome)
}

func TestWriteGenerateOutput_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeGenerateOutput(&buf, sampleOutput, "table"))
	out := buf.String()

	assert.Contains(t, out, "1. The Eiffel Tower is located in ________.")
	assert.Contains(t, out, "   a) Berlin\n")
	assert.Contains(t, out, "   b) Paris  *\n")
	assert.Contains(t, out, "unmapped-term")
	assert.Contains(t, out, "2 sentences, 2 candidates, 1 questions")
}

func TestWriteGenerateOutput_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeGenerateOutput(&buf, generateOutput{}, "table"))
	assert.Equal(t, "No questions generated.\n", buf.String())
}

func TestReadDocument(t *testing.T) {
	text, err := readDocument("-", strings.NewReader("Paris is the capital of France."))
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", text)

	_, err = readDocument("does/not/exist.txt", nil)
	assert.ErrorContains(t, err, "reading document")
}

func TestFormatLookupOutput(t *testing.T) {
	senses := []types.Sense{{
		ID:       "paris.n.01",
		Lemmas:   []string{"paris", "french_capital"},
		Gloss:    "the capital and largest city of France",
		Examples: []string{"Paris is lovely in spring"},
	}}

	var buf bytes.Buffer
	require.NoError(t, formatLookupOutput(&buf, senses, false))
	assert.Equal(t, "1. paris.n.01  [paris, french_capital]\n"+
		"   the capital and largest city of France\n"+
		"   \"Paris is lovely in spring\"\n", buf.String())

	buf.Reset()
	require.NoError(t, formatLookupOutput(&buf, nil, false))
	assert.Equal(t, "No senses found.\n", buf.String())
}
