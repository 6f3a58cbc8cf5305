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
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// Filter Extraction
// =============================================================================

// Extraction is the result of one extraction pass: the updated filter set
// plus per-dimension flags for what was newly detected in THIS message.
// The incoming filters are never mutated; a dimension with no match keeps
// exactly the value it came in with (extraction never clears a filter).
type Extraction struct {
	Filters Filters

	FoundCategory bool
	FoundColor    bool
	FoundSize     bool
	FoundCity     bool
	FoundBudget   bool
}

// Extract scans a raw user message against the lexicon tables and the
// budget patterns, producing a copy-on-write filter update.
//
// The five dimensions run independently; a single message may set category,
// color, size, city and budget all at once. When several keywords of one
// dimension match, table iteration order wins, not message order — a known
// accuracy limitation, kept deliberately.
func (lex *Lexicon) Extract(message string, current Filters) Extraction {
	folded := Fold(message)
	out := Extraction{Filters: current}

	if category := matchEntry(lex.Categories, folded); category != "" {
		out.Filters.Category = category
		out.FoundCategory = true
	}
	if color := matchEntry(lex.Colors, folded); color != "" {
		out.Filters.Color = color
		out.FoundColor = true
	}
	if size := lex.matchSize(message); size != "" {
		out.Filters.Size = size
		out.FoundSize = true
	}
	if city := matchEntry(lex.Cities, folded); city != "" {
		out.Filters.City = city
		out.FoundCity = true
	}
	if price, ok := extractBudget(folded); ok {
		out.Filters.MaxPrice = price
		out.FoundBudget = true
	}

	return out
}

// matchSize tests each size token as a case-insensitive whole word against
// the raw message. Word boundaries keep the single-letter sizes from firing
// inside unrelated words — "L" must not match inside "lei".
func (lex *Lexicon) matchSize(message string) string {
	for i, re := range lex.sizePatterns {
		if re.MatchString(message) {
			return strings.ToUpper(lex.Sizes[i])
		}
	}
	return ""
}

// =============================================================================
// Budget Matchers
// =============================================================================

// budgetMatcher attempts one budget pattern against the folded message.
// It returns the price in minor units (bani) and whether it matched.
type budgetMatcher func(folded string) (int, bool)

// budgetMatchers is the ordered pattern cascade. The first matcher to
// succeed wins; later, looser patterns never see a message an earlier
// pattern handled.
var budgetMatchers = []budgetMatcher{
	matchExplicitCurrency,
	matchBudgetPreposition,
	matchBudgetProximity,
}

func extractBudget(folded string) (int, bool) {
	for _, match := range budgetMatchers {
		if price, ok := match(folded); ok {
			return price, ok
		}
	}
	return 0, false
}

var (
	explicitCurrencyRE = regexp.MustCompile(`(\d+)\s*(?:lei|ron)\b`)

	// Preposition-led amounts: "maxim 80", "pana in 100", "sub 50",
	// "buget de 200". Runs on folded text, so "până în" arrives as
	// "pana in".
	budgetPrepositionRE = regexp.MustCompile(`(?:maxim|max\.?|pana (?:in|la)|sub|cel mult|buget(?:ul)?(?: de)?)\s*(\d+)\b`)

	numberRE = regexp.MustCompile(`\d+`)
)

// budgetContextWords anchor the loose proximity pattern: a bare number only
// counts as a budget when one of these sits within contextWindow bytes.
var budgetContextWords = []string{"buget", "pret", "cost", "maxim", "lei", "ron", "ban"}

const (
	contextWindow = 10

	// Sanity range for the loose pattern. Numbers outside it are more
	// likely sizes, years or phone digits than a price in RON.
	looseBudgetMin = 10
	looseBudgetMax = 10000
)

func matchExplicitCurrency(folded string) (int, bool) {
	return matchFirstGroup(explicitCurrencyRE, folded)
}

func matchBudgetPreposition(folded string) (int, bool) {
	return matchFirstGroup(budgetPrepositionRE, folded)
}

// matchBudgetProximity accepts a number that appears within contextWindow
// bytes of a budget-context word, but only when the value is in the sane
// [looseBudgetMin, looseBudgetMax] range.
func matchBudgetProximity(folded string) (int, bool) {
	for _, loc := range numberRE.FindAllStringIndex(folded, -1) {
		start := loc[0] - contextWindow
		if start < 0 {
			start = 0
		}
		end := loc[1] + contextWindow
		if end > len(folded) {
			end = len(folded)
		}
		window := folded[start:end]

		inContext := false
		for _, word := range budgetContextWords {
			if strings.Contains(window, word) {
				inContext = true
				break
			}
		}
		if !inContext {
			continue
		}

		value, err := strconv.Atoi(folded[loc[0]:loc[1]])
		if err != nil || value < looseBudgetMin || value > looseBudgetMax {
			continue
		}
		return value * 100, true
	}
	return 0, false
}

func matchFirstGroup(re *regexp.Regexp, folded string) (int, bool) {
	groups := re.FindStringSubmatch(folded)
	if groups == nil {
		return 0, false
	}
	value, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, false
	}
	return value * 100, true
}
