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

	"go.opentelemetry.io/otel/attribute"
)

// =============================================================================
// Feedback Options and Actions
// =============================================================================

// Feedback option tokens: the fixed vocabulary of post-results user choices.
const (
	OptionSatisfied = "satisfied"
	OptionShowMore  = "show_more"
	OptionShowAll   = "show_all"
	OptionRefine    = "refine"
	OptionSearchNew = "search_new"
)

// Action tells the caller what to do after a feedback response was handled.
type Action string

const (
	ActionCloseConversation Action = "close_conversation"
	ActionRemoveFilters     Action = "remove_filters"
	ActionClearFilters      Action = "clear_filters"
	ActionAskDetails        Action = "ask_details"
	ActionReset             Action = "reset"
	ActionContinue          Action = "continue"
)

// Option is one actionable choice presented alongside a feedback message.
type Option struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

var (
	optSatisfied = Option{Text: "Da, am găsit ce căutam! ✅", Value: OptionSatisfied}
	optShowMore  = Option{Text: "Arată-mi mai multe opțiuni", Value: OptionShowMore}
	optSearchNew = Option{Text: "Caută altceva", Value: OptionSearchNew}
	optRefine    = Option{Text: "Vreau să restrâng căutarea", Value: OptionRefine}
)

// =============================================================================
// Feedback Generator
// =============================================================================

// FeedbackResult is the outcome of one GenerateFeedback call.
type FeedbackResult struct {
	FeedbackMessage string   `json:"feedbackMessage"`
	Options         []Option `json:"options"`
	NewState        State    `json:"newState"`
}

// GenerateFeedback maps a result count to a canned follow-up message plus
// the option set valid for that bucket, and flags the state as awaiting a
// feedback response.
//
// # Description
//
//	Buckets and boundaries are fixed: 0, 1, 2–4, 5–10, >10. Each bucket
//	interpolates a human-readable summary of the active filters.
//
// # Inputs
//
//   - ctx: Context for tracing. Must not be nil.
//   - resultsCount: Non-negative catalog hit count for the current filters.
//   - filters: The filters the caller searched with.
//   - state: Caller-supplied conversation state; not mutated.
//
// # Outputs
//
//   - FeedbackResult: Message, options, and the derived new state.
//
// # Thread Safety
//
// Safe for concurrent use.
func (e *Engine) GenerateFeedback(ctx context.Context, resultsCount int, filters Filters, state State) FeedbackResult {
	_, span := tracer.Start(ctx, "Engine.GenerateFeedback")
	defer span.End()

	state = state.withDefaults()
	state.Filters = filters
	state.AwaitingFeedback = true
	summary := filterSummary(filters)

	var message string
	var options []Option
	var bucket string

	switch {
	case resultsCount == 0:
		bucket = "zero"
		message = fmt.Sprintf("Îmi pare rău, nu am găsit produse pentru %s. 😕 Ce ai vrea să fac?", summary)
		options = []Option{optShowMore, optSearchNew}

	case resultsCount == 1:
		bucket = "single"
		message = fmt.Sprintf("Am găsit un singur produs pentru %s. Este ce căutai?", summary)
		options = []Option{optSatisfied, optShowMore, optSearchNew}

	case resultsCount < 5:
		bucket = "few"
		message = fmt.Sprintf("Am găsit %d produse pentru %s. Ai găsit ceva interesant?", resultsCount, summary)
		options = []Option{optSatisfied, optShowMore, optSearchNew}

	case resultsCount <= 10:
		bucket = "moderate"
		message = fmt.Sprintf("Am găsit %d produse pentru %s. Vrei să restrângem căutarea?", resultsCount, summary)
		options = []Option{optSatisfied, optRefine}

	default:
		bucket = "many"
		message = fmt.Sprintf("Am găsit %d produse! 🎉 Dacă sunt prea multe, putem restrânge căutarea.", resultsCount)
		options = []Option{optSatisfied, optRefine}
	}

	recordFeedback(bucket)
	span.SetAttributes(
		attribute.Int("feedback.results_count", resultsCount),
		attribute.String("feedback.bucket", bucket),
	)

	return FeedbackResult{FeedbackMessage: message, Options: options, NewState: state}
}

// =============================================================================
// Feedback-Response Handler
// =============================================================================

// ResponseResult is the outcome of one ProcessFeedbackResponse call.
type ResponseResult struct {
	Reply    string `json:"reply"`
	Action   Action `json:"action"`
	NewState State  `json:"newState"`
}

// relaxOrder is the strict strip order for show_more: the most restrictive
// dimension goes first. Once all four are absent, show_more is a no-op.
var relaxOrder = []struct {
	name   string
	label  string
	isSet  func(Filters) bool
	remove func(*Filters)
}{
	{"color", "culoarea", func(f Filters) bool { return f.Color != "" }, func(f *Filters) { f.Color = "" }},
	{"size", "mărimea", func(f Filters) bool { return f.Size != "" }, func(f *Filters) { f.Size = "" }},
	{"price", "limita de preț", func(f Filters) bool { return f.MaxPrice > 0 }, func(f *Filters) { f.MaxPrice = 0 }},
	{"city", "orașul", func(f Filters) bool { return f.City != "" }, func(f *Filters) { f.City = "" }},
}

// ProcessFeedbackResponse interprets the option the user picked and mutates
// filters and step accordingly. Always clears AwaitingFeedback; an unknown
// token falls back to a generic continue, never an error.
//
// # Thread Safety
//
// Safe for concurrent use.
func (e *Engine) ProcessFeedbackResponse(ctx context.Context, optionValue string, state State) ResponseResult {
	_, span := tracer.Start(ctx, "Engine.ProcessFeedbackResponse")
	defer span.End()
	span.SetAttributes(attribute.String("feedback.option", optionValue))
	recordFeedbackResponse(optionValue)

	state = state.withDefaults()
	state.AwaitingFeedback = false

	switch optionValue {
	case OptionSatisfied:
		state.Step = StepCompleted
		return ResponseResult{Reply: replySatisfied, Action: ActionCloseConversation, NewState: state}

	case OptionShowMore:
		state.Step = StepShowingResults
		for _, dim := range relaxOrder {
			if dim.isSet(state.Filters) {
				dim.remove(&state.Filters)
				reply := fmt.Sprintf("Am scos %s din filtre ca să vezi mai multe opțiuni. 🛍️", dim.label)
				return ResponseResult{Reply: reply, Action: ActionRemoveFilters, NewState: state}
			}
		}
		return ResponseResult{Reply: replyRelaxGeneric, Action: ActionRemoveFilters, NewState: state}

	case OptionShowAll:
		state.Filters = Filters{
			Category:          state.Filters.Category,
			SmallBusinessOnly: state.Filters.SmallBusinessOnly,
		}
		state.Step = StepShowingResults
		return ResponseResult{Reply: replyShowAll, Action: ActionClearFilters, NewState: state}

	case OptionRefine:
		state.Step = StepRefining
		state.HasAskedDetails = true
		return ResponseResult{Reply: replyRefinePrompt, Action: ActionAskDetails, NewState: state}

	case OptionSearchNew:
		fresh := NewState()
		fresh.AwaitingFeedback = false
		return ResponseResult{Reply: replyResetSearch, Action: ActionReset, NewState: fresh}

	default:
		return ResponseResult{Reply: replyFeedbackFallback, Action: ActionContinue, NewState: state}
	}
}
