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
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("aleutian.shop.agent")

// =============================================================================
// Engine
// =============================================================================

// Engine is the conversational shopping agent. It holds only immutable
// lexicon tables and a logger; all conversation state is supplied by the
// caller per call and a derived state is returned.
//
// # Thread Safety
//
// Safe for concurrent use (no mutable state).
type Engine struct {
	lexicon *Lexicon
	logger  *slog.Logger
}

// NewEngine creates the agent engine with the embedded lexicon tables.
//
// # Inputs
//
//   - logger: Logger for structured output. May be nil (slog.Default()).
//
// # Outputs
//
//   - *Engine: The constructed engine.
//   - error: Non-nil if the embedded lexicon fails to load.
func NewEngine(logger *slog.Logger) (*Engine, error) {
	lex, err := LoadLexicon()
	if err != nil {
		return nil, fmt.Errorf("agent: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{lexicon: lex, logger: logger}, nil
}

// MessageResult is the outcome of one ProcessMessage call.
type MessageResult struct {
	Reply    string  `json:"reply"`
	Filters  Filters `json:"filters"`
	NewState State   `json:"newState"`
}

// =============================================================================
// Category Applicability
// =============================================================================

// colorCategories lists the category keys for which a missing color is
// worth asking about. Non-apparel categories skip the question.
var colorCategories = keySet(
	"tricou", "bluza", "hanorac", "camasa", "rochie", "fusta", "pantaloni",
	"blugi", "pulover", "jacheta", "geaca", "palton", "sacou", "trening",
	"pijama", "sosete", "esarfa", "fular", "caciula", "sapca", "palarie",
	"manusi", "curea", "geanta", "rucsac", "portofel", "pantofi", "adidasi",
	"sandale", "cizme", "papuci", "vesta",
)

// sizeCategories lists the category keys that come in the S–XXL size run:
// clothing, footwear and sized accessories. Bags and wallets are not sized.
var sizeCategories = keySet(
	"tricou", "bluza", "hanorac", "camasa", "rochie", "fusta", "pantaloni",
	"blugi", "pulover", "jacheta", "geaca", "palton", "sacou", "trening",
	"pijama", "sosete", "caciula", "sapca", "manusi", "pantofi", "adidasi",
	"sandale", "cizme", "papuci", "vesta",
)

func keySet(keys ...string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// greetingKeywords trigger the salutation branch when no category context
// applies. Matched against the folded message.
var greetingKeywords = []string{"salut", "buna", "neata", "hey", "hello", "hei"}

func isGreeting(folded string) bool {
	for _, kw := range greetingKeywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// =============================================================================
// ProcessMessage
// =============================================================================

// ProcessMessage runs one dialogue turn: extracts filters from the message,
// advances the conversation step by at most one state, and produces a reply.
//
// # Description
//
//	Branches are evaluated in priority order:
//	 1. category known, details not yet asked → announce + clarifying
//	    questions (or go straight to searching when nothing is missing)
//	 2. details already asked → acknowledge this turn's filter deltas and
//	    advance to showing_results
//	 3. pure greeting → greet
//	 4. already showing results → treat as refinement
//	 5. fallback → example inputs
//
//	Every input produces a reply; unrecognized input lands in the fallback
//	branch, never in an error.
//
// # Inputs
//
//   - ctx: Context for tracing. Must not be nil.
//   - message: Raw user message. The transport layer rejects empty messages.
//   - state: Caller-supplied conversation state; not mutated.
//
// # Outputs
//
//   - MessageResult: Reply, updated filters, and the derived new state.
//
// # Thread Safety
//
// Safe for concurrent use.
func (e *Engine) ProcessMessage(ctx context.Context, message string, state State) MessageResult {
	_, span := tracer.Start(ctx, "Engine.ProcessMessage")
	defer span.End()

	state = state.withDefaults()
	previous := state.Filters
	folded := Fold(message)

	ex := e.lexicon.Extract(message, state.Filters)
	next := state
	next.Filters = ex.Filters
	applyExtractionFlags(&next, ex)

	// Category detection advances a pre-category conversation. A greeted
	// conversation counts as pre-category: the salutation did no filter work.
	if ex.FoundCategory && (state.Step == StepInitial || state.Step == StepGreeted) {
		next.Step = StepAskedCategory
	}
	recordExtraction(ex)

	var reply string
	var branch string

	switch {
	case next.Step == StepAskedCategory && !next.HasAskedDetails:
		branch = "ask_details"
		questions := e.missingDetailQuestions(next.Filters)
		if len(questions) > 0 {
			reply = categoryAnnouncement(next.Filters.Category) + " " + strings.Join(questions, " ")
			next.HasAskedDetails = true
		} else {
			reply = replySearching
			next.Step = StepShowingResults
		}

	case next.HasAskedDetails:
		branch = "acknowledge_details"
		deltas := filterDeltas(previous, next.Filters, ex)
		if len(deltas) > 0 {
			reply = updateAcknowledgment(deltas)
		} else {
			reply = replySearching
		}
		next.Step = StepShowingResults

	case !ex.FoundCategory && state.Step == StepInitial && isGreeting(folded):
		branch = "greeting"
		reply = replyGreeting
		next.Step = StepGreeted

	case state.Step == StepShowingResults:
		branch = "refine"
		reply = replyRefining

	default:
		branch = "fallback"
		reply = replyFallback
	}

	recordMessage(branch)
	span.SetAttributes(
		attribute.String("agent.branch", branch),
		attribute.String("agent.step", string(next.Step)),
	)
	e.logger.Debug("agent message processed",
		slog.String("branch", branch),
		slog.String("step", string(next.Step)),
	)

	return MessageResult{Reply: reply, Filters: next.Filters, NewState: next}
}

// applyExtractionFlags records which dimensions have ever been supplied.
// Flags only ever turn on; feedback handling may later remove the filter
// value but never the flag.
func applyExtractionFlags(s *State, ex Extraction) {
	s.HasColor = s.HasColor || ex.FoundColor
	s.HasSize = s.HasSize || ex.FoundSize
	s.HasCity = s.HasCity || ex.FoundCity
	s.HasBudget = s.HasBudget || ex.FoundBudget
}

// missingDetailQuestions builds the clarifying questions for every
// applicable-and-missing dimension. Applicability is category-dependent for
// color and size; budget and city are always asked when missing. "Missing"
// means the filter is currently unset, not that its flag is unset.
func (e *Engine) missingDetailQuestions(filters Filters) []string {
	var questions []string
	if filters.Color == "" && colorCategories[filters.Category] {
		questions = append(questions, questionColor)
	}
	if filters.Size == "" && sizeCategories[filters.Category] {
		questions = append(questions, questionSize)
	}
	if filters.MaxPrice == 0 {
		questions = append(questions, questionBudget)
	}
	if filters.City == "" {
		questions = append(questions, questionCity)
	}
	return questions
}

// filterDeltas lists the dimensions newly supplied this turn, in a fixed
// human-readable order, by comparing against the filters that existed
// before the call.
func filterDeltas(previous, current Filters, ex Extraction) []string {
	var deltas []string
	if ex.FoundColor && current.Color != previous.Color {
		deltas = append(deltas, deltaPhrase("color", current.Color))
	}
	if ex.FoundSize && current.Size != previous.Size {
		deltas = append(deltas, deltaPhrase("size", current.Size))
	}
	if ex.FoundBudget && current.MaxPrice != previous.MaxPrice {
		deltas = append(deltas, deltaPhrase("budget", fmt.Sprintf("%d", current.MaxPrice/100)))
	}
	if ex.FoundCity && current.City != previous.City {
		deltas = append(deltas, deltaPhrase("city", current.City))
	}
	return deltas
}
