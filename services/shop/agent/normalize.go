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
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// Text Normalization
// =============================================================================

// foldTransformer strips combining marks after canonical decomposition, so
// both precomposed diacritics (ă, î, ș) and combining-sequence spellings
// fold to their base letters.
var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// commaBelowReplacer handles the Romanian comma-below letters explicitly.
// They decompose cleanly under NFD, but messages occasionally arrive with
// the legacy cedilla forms, which some fonts render identically.
var commaBelowReplacer = strings.NewReplacer(
	"ș", "s", "Ș", "S", "ş", "s", "Ş", "S",
	"ț", "t", "Ț", "T", "ţ", "t", "Ţ", "T",
)

// Fold lowercases and strips Romanian diacritics, returning the canonical
// comparison form used by all substring matching and by catalog filtering.
func Fold(s string) string {
	s = commaBelowReplacer.Replace(s)
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		// Transformation only fails on malformed UTF-8; fall back to the
		// replacer output so matching still sees the ASCII-ish text.
		folded = s
	}
	return strings.ToLower(folded)
}

// containsFolded reports whether the already-folded haystack contains the
// folded form of the keyword.
func containsFolded(foldedHaystack, keyword string) bool {
	return strings.Contains(foldedHaystack, Fold(keyword))
}
