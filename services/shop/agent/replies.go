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
	"fmt"
	"strings"
)

// =============================================================================
// Canned Replies (Romanian)
// =============================================================================

const (
	replyGreeting = "Salut! 👋 Sunt asistentul tău de cumpărături de la producători " +
		"locali. Spune-mi ce cauți — de exemplu «vreau un tricou portocaliu»."

	replySearching = "Perfect, am tot ce îmi trebuie! Caut produse... 🔍"

	replyRefining = "Am actualizat căutarea! 🔍"

	replyFallback = "Nu am înțeles exact ce cauți. 🤔 Încearcă ceva de genul: " +
		"«vreau un tricou portocaliu», «caut o bluză din Cluj» sau «maxim 100 lei»."

	replySatisfied = "Mă bucur că ai găsit ce căutai! 🎉 Produsele te așteaptă în coș. " +
		"Spor la cumpărături de la producători locali!"

	replyShowAll = "Am păstrat doar categoria — îți arăt toate produsele din ea. 🛍️"

	replyRelaxGeneric = "Relaxez căutarea și îți arăt mai multe opțiuni. 🛍️"

	replyRefinePrompt = "Sigur! Spune-mi ce culoare, mărime, buget sau oraș preferi " +
		"și restrâng căutarea. 🎯"

	replyResetSearch = "Am luat-o de la capăt! Spune-mi ce produs cauți. 🔄"

	replyFeedbackFallback = "Nu am înțeles opțiunea. Poți alege una dintre variantele " +
		"de mai sus sau îmi poți scrie direct ce cauți."
)

// detail questions appended after a category announcement, one per
// applicable-and-missing dimension.
const (
	questionColor  = "Ce culoare preferi?"
	questionSize   = "Ce mărime porți? (XS, S, M, L, XL, XXL)"
	questionBudget = "Care este bugetul tău? (ex: maxim 100 lei)"
	questionCity   = "Din ce oraș vrei produse?"
)

func categoryAnnouncement(category string) string {
	return fmt.Sprintf("Super! Cauți %s. 👕", category)
}

func updateAcknowledgment(deltas []string) string {
	return fmt.Sprintf("Am actualizat căutarea: %s. Caut produse... 🔍",
		strings.Join(deltas, ", "))
}

// deltaPhrase renders one newly-supplied dimension for the update
// acknowledgment, e.g. "buget până în 80 RON".
func deltaPhrase(dimension, value string) string {
	switch dimension {
	case "color":
		return "culoare " + value
	case "size":
		return "mărimea " + value
	case "budget":
		return "buget până în " + value + " RON"
	case "city":
		return "din " + value
	}
	return value
}

// filterSummary renders the active filters for feedback messages, e.g.
// "tricou, culoare portocaliu, sub 80 RON, din cluj".
func filterSummary(filters Filters) string {
	var parts []string
	if filters.Category != "" {
		parts = append(parts, filters.Category)
	}
	if filters.Color != "" {
		parts = append(parts, "culoare "+filters.Color)
	}
	if filters.MaxPrice > 0 {
		parts = append(parts, fmt.Sprintf("sub %d RON", filters.MaxPrice/100))
	}
	if filters.City != "" {
		parts = append(parts, "din "+filters.City)
	}
	if len(parts) == 0 {
		return "căutarea ta"
	}
	return strings.Join(parts, ", ")
}
