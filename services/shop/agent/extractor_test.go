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
	"testing"
)

func TestExtractCategoryAndColor(t *testing.T) {
	lex := MustLoadLexicon()

	ex := lex.Extract("vreau un tricou portocaliu", Filters{SmallBusinessOnly: true})

	if !ex.FoundCategory || ex.Filters.Category != "tricou" {
		t.Errorf("category = %q (found=%v), want tricou", ex.Filters.Category, ex.FoundCategory)
	}
	if !ex.FoundColor || ex.Filters.Color != "portocaliu" {
		t.Errorf("color = %q (found=%v), want portocaliu", ex.Filters.Color, ex.FoundColor)
	}
	if ex.FoundSize || ex.FoundCity || ex.FoundBudget {
		t.Errorf("unexpected extra dimensions: size=%v city=%v budget=%v",
			ex.FoundSize, ex.FoundCity, ex.FoundBudget)
	}
}

func TestExtractDiacriticVariants(t *testing.T) {
	lex := MustLoadLexicon()

	tests := []struct {
		message  string
		category string
		color    string
		city     string
	}{
		{"vreau o rochie roșie din Brașov", "rochie", "rosu", "brasov"},
		{"vreau o rochie rosie din Brasov", "rochie", "rosu", "brasov"},
		{"caut o cămașă din București", "camasa", "", "bucuresti"},
		{"caut o camasa din bucuresti", "camasa", "", "bucuresti"},
	}
	for _, tt := range tests {
		ex := lex.Extract(tt.message, Filters{})
		if ex.Filters.Category != tt.category {
			t.Errorf("%q: category = %q, want %q", tt.message, ex.Filters.Category, tt.category)
		}
		if ex.Filters.Color != tt.color {
			t.Errorf("%q: color = %q, want %q", tt.message, ex.Filters.Color, tt.color)
		}
		if ex.Filters.City != tt.city {
			t.Errorf("%q: city = %q, want %q", tt.message, ex.Filters.City, tt.city)
		}
	}
}

// Table order must break keyword overlaps: "albastru" contains "alb",
// "negri" must not fall through to "gri".
func TestExtractColorOrdering(t *testing.T) {
	lex := MustLoadLexicon()

	tests := []struct {
		message string
		want    string
	}{
		{"o bluza albastra", "albastru"},
		{"un hanorac bleumarin", "bleumarin"},
		{"pantaloni negri", "negru"},
		{"un tricou alb simplu", "alb"},
		{"o geaca gri", "gri"},
	}
	for _, tt := range tests {
		ex := lex.Extract(tt.message, Filters{})
		if ex.Filters.Color != tt.want {
			t.Errorf("%q: color = %q, want %q", tt.message, ex.Filters.Color, tt.want)
		}
	}
}

func TestExtractSizeWordBoundary(t *testing.T) {
	lex := MustLoadLexicon()

	tests := []struct {
		message string
		want    string
	}{
		{"port mărimea M", "M"},
		{"marimea xl te rog", "XL"},
		{"port XXL", "XXL"},
		{"mărimea xs", "XS"},
		// "L" must not fire inside "lei", nor "M" inside "maxim".
		{"maxim 80 lei", ""},
		{"vreau ceva elegant", ""},
	}
	for _, tt := range tests {
		ex := lex.Extract(tt.message, Filters{})
		if ex.Filters.Size != tt.want {
			t.Errorf("%q: size = %q, want %q", tt.message, ex.Filters.Size, tt.want)
		}
	}
}

func TestExtractBudgetCascade(t *testing.T) {
	lex := MustLoadLexicon()

	tests := []struct {
		message string
		want    int // minor units; 0 means no budget
	}{
		// Stage 1: explicit currency.
		{"maxim 80 lei", 8000},
		{"100 RON", 10000},
		{"250lei", 25000},
		// Stage 2: budget prepositions without currency.
		{"maxim 80", 8000},
		{"pana in 100", 10000},
		{"până la 150", 15000},
		{"sub 50", 5000},
		{"cel mult 300", 30000},
		{"bugetul de 200", 20000},
		// Stage 3: number near a context word.
		{"am un buget cam 150", 15000},
		{"cost 90 ar fi ok", 9000},
		// Loose matches outside the sane range are rejected.
		{"buget cam 5", 0},
		{"cost 99999", 0},
		// Bare numbers with no context never count.
		{"vreau 3 bucati", 0},
	}
	for _, tt := range tests {
		ex := lex.Extract(tt.message, Filters{})
		if ex.Filters.MaxPrice != tt.want {
			t.Errorf("%q: maxPrice = %d, want %d", tt.message, ex.Filters.MaxPrice, tt.want)
		}
		if (tt.want != 0) != ex.FoundBudget {
			t.Errorf("%q: FoundBudget = %v, want %v", tt.message, ex.FoundBudget, tt.want != 0)
		}
	}
}

func TestExtractCombinedMessage(t *testing.T) {
	lex := MustLoadLexicon()

	ex := lex.Extract("vreau un tricou portocaliu mărimea M maxim 80 lei din cluj", Filters{})

	want := Filters{
		Category: "tricou",
		Color:    "portocaliu",
		Size:     "M",
		MaxPrice: 8000,
		City:     "cluj",
	}
	if ex.Filters != want {
		t.Errorf("filters = %+v, want %+v", ex.Filters, want)
	}
}

// Extraction is copy-on-write: dimensions absent from the message keep
// their current values, and the input filters are never cleared.
func TestExtractPreservesExistingFilters(t *testing.T) {
	lex := MustLoadLexicon()

	current := Filters{
		Category:          "tricou",
		Color:             "portocaliu",
		MaxPrice:          8000,
		SmallBusinessOnly: true,
	}
	ex := lex.Extract("din cluj", current)

	if ex.Filters.Category != "tricou" || ex.Filters.Color != "portocaliu" || ex.Filters.MaxPrice != 8000 {
		t.Errorf("existing filters were modified: %+v", ex.Filters)
	}
	if ex.Filters.City != "cluj" {
		t.Errorf("city = %q, want cluj", ex.Filters.City)
	}
	if ex.FoundCategory || ex.FoundColor || ex.FoundBudget {
		t.Error("Found flags must reflect only this message's matches")
	}
}

func TestExtractOverwritesOnNewMatch(t *testing.T) {
	lex := MustLoadLexicon()

	current := Filters{Category: "tricou", Color: "portocaliu"}
	ex := lex.Extract("de fapt vreau o bluza verde", current)

	if ex.Filters.Category != "bluza" {
		t.Errorf("category = %q, want bluza", ex.Filters.Category)
	}
	if ex.Filters.Color != "verde" {
		t.Errorf("color = %q, want verde", ex.Filters.Color)
	}
}
