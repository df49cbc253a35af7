// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits a document into trimmed sentences suitable as
// question contexts.
package segment

import (
	"strings"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
)

// MinLength is the exclusive lower bound, in characters, on kept sentences.
// Shorter fragments ("See above.", headings) make poor question stems.
const MinLength = 15

// Split returns the sentences of text in appearance order, each trimmed of
// surrounding whitespace. Sentences of MinLength characters or fewer are
// dropped. An empty or unparseable document yields no sentences.
func Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil
	}

	var out []string
	for _, s := range doc.Sentences() {
		sent := strings.TrimSpace(s.Text)
		if utf8.RuneCountInString(sent) > MinLength {
			out = append(out, sent)
		}
	}
	return out
}
