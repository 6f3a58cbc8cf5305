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

import "testing"

func TestLoadLexicon(t *testing.T) {
	lex, err := LoadLexicon()
	if err != nil {
		t.Fatalf("LoadLexicon: %v", err)
	}

	if len(lex.Categories) < 30 {
		t.Errorf("got %d categories, want at least 30", len(lex.Categories))
	}
	if len(lex.Colors) < 20 {
		t.Errorf("got %d colors, want at least 20", len(lex.Colors))
	}
	if len(lex.Cities) < 40 {
		t.Errorf("got %d cities, want at least 40", len(lex.Cities))
	}

	wantSizes := []string{"XS", "S", "M", "L", "XL", "XXL"}
	if len(lex.Sizes) != len(wantSizes) {
		t.Fatalf("got %d sizes, want %d", len(lex.Sizes), len(wantSizes))
	}
	for i, want := range wantSizes {
		if lex.Sizes[i] != want {
			t.Errorf("sizes[%d] = %q, want %q", i, lex.Sizes[i], want)
		}
	}
	if len(lex.sizePatterns) != len(lex.Sizes) {
		t.Errorf("got %d size patterns for %d sizes", len(lex.sizePatterns), len(lex.Sizes))
	}
}

// Every entry needs at least one keyword, and the canonical key should be
// among its own keywords so exact input always matches.
func TestLexiconEntriesSelfMatch(t *testing.T) {
	lex := MustLoadLexicon()

	for _, table := range [][]LexiconEntry{lex.Categories, lex.Colors, lex.Cities} {
		for _, entry := range table {
			if len(entry.Keywords) == 0 {
				t.Errorf("entry %q has no keywords", entry.Key)
				continue
			}
			if got := matchEntry(table, Fold(entry.Key)); got != entry.Key {
				// Overlapping keywords may legitimately shadow an entry
				// (e.g. "alb" inside "albastru"), but the match must never
				// be empty.
				if got == "" {
					t.Errorf("key %q does not match its own table", entry.Key)
				}
			}
		}
	}
}

func TestIsSizeToken(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"M", true},
		{"m", true},
		{"XXL", true},
		{"xs", true},
		{"XXXL", false},
		{"42", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSizeToken(tt.in); got != tt.want {
			t.Errorf("IsSizeToken(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
