// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package agent

import (
	_ "embed"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Embedded Lexicon Configuration
// =============================================================================

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// =============================================================================
// Lexicon Types and Loading
// =============================================================================

// LexiconEntry maps one canonical filter value to the surface forms users
// type for it, including diacritic and diacritic-free spellings.
type LexiconEntry struct {
	Key      string   `yaml:"key"`
	Keywords []string `yaml:"keywords"`
}

// Lexicon holds the static keyword tables for the four extraction
// dimensions. Entries are ordered: substring matching is first-hit-wins in
// table order, which is the documented tie-break when several keywords match
// one message.
//
// # Thread Safety
//
// Safe for concurrent use after loading (immutable after load).
type Lexicon struct {
	Categories []LexiconEntry `yaml:"categories"`
	Colors     []LexiconEntry `yaml:"colors"`
	Sizes      []string       `yaml:"sizes"`
	Cities     []LexiconEntry `yaml:"cities"`

	// sizePatterns holds one word-boundary regex per size token, in the
	// same order as Sizes. Compiled once at load.
	sizePatterns []*regexp.Regexp
}

var (
	cachedLexicon *Lexicon
	lexiconOnce   sync.Once
	lexiconErr    error
)

// LoadLexicon loads and caches the keyword tables from the embedded YAML
// configuration. Returns the cached result on subsequent calls.
//
// # Outputs
//
//   - *Lexicon: The loaded tables. Never nil on success.
//   - error: Non-nil if YAML parsing or size pattern compilation fails.
//
// # Thread Safety
//
// Safe for concurrent use (uses sync.Once internally).
func LoadLexicon() (*Lexicon, error) {
	lexiconOnce.Do(func() {
		var lex Lexicon
		if err := yaml.Unmarshal(defaultLexiconYAML, &lex); err != nil {
			lexiconErr = fmt.Errorf("parsing lexicon.yaml: %w", err)
			return
		}
		lex.sizePatterns = make([]*regexp.Regexp, 0, len(lex.Sizes))
		for _, size := range lex.Sizes {
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(size) + `\b`)
			if err != nil {
				lexiconErr = fmt.Errorf("compiling size pattern %q: %w", size, err)
				return
			}
			lex.sizePatterns = append(lex.sizePatterns, re)
		}
		cachedLexicon = &lex
		slog.Info("agent lexicon loaded",
			slog.Int("categories", len(lex.Categories)),
			slog.Int("colors", len(lex.Colors)),
			slog.Int("sizes", len(lex.Sizes)),
			slog.Int("cities", len(lex.Cities)),
		)
	})
	return cachedLexicon, lexiconErr
}

// MustLoadLexicon loads the lexicon or panics. The tables are embedded in
// the binary, so a failure here is a build defect, not a runtime condition.
func MustLoadLexicon() *Lexicon {
	lex, err := LoadLexicon()
	if err != nil {
		panic(err)
	}
	return lex
}

// IsSizeToken reports whether s is one of the canonical size tokens
// (XS through XXL), case-insensitively.
func IsSizeToken(s string) bool {
	lex, err := LoadLexicon()
	if err != nil {
		return false
	}
	upper := strings.ToUpper(s)
	for _, size := range lex.Sizes {
		if upper == size {
			return true
		}
	}
	return false
}

// matchEntry returns the canonical key of the first entry whose keyword set
// contains a substring match of the folded message, or "" when none match.
func matchEntry(entries []LexiconEntry, folded string) string {
	for _, entry := range entries {
		for _, kw := range entry.Keywords {
			if containsFolded(folded, kw) {
				return entry.Key
			}
		}
	}
	return ""
}
