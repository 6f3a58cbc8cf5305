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
	"strings"
	"testing"
)

func TestGenerateFeedbackZeroResults(t *testing.T) {
	engine := makeTestEngine(t)

	filters := Filters{
		Category:          "tricou",
		Color:             "portocaliu",
		MaxPrice:          8000,
		City:              "cluj",
		SmallBusinessOnly: true,
	}
	result := engine.GenerateFeedback(context.Background(), 0, filters, NewState())

	want := "Îmi pare rău, nu am găsit produse pentru tricou, culoare portocaliu, sub 80 RON, din cluj. 😕 Ce ai vrea să fac?"
	if result.FeedbackMessage != want {
		t.Errorf("message = %q, want %q", result.FeedbackMessage, want)
	}
	if len(result.Options) != 2 ||
		result.Options[0].Value != OptionShowMore ||
		result.Options[1].Value != OptionSearchNew {
		t.Errorf("options = %+v, want [show_more, search_new]", result.Options)
	}
	if !result.NewState.AwaitingFeedback {
		t.Error("AwaitingFeedback should be set")
	}
	if result.NewState.Filters != filters {
		t.Errorf("state filters = %+v, want the searched filters", result.NewState.Filters)
	}
}

func TestGenerateFeedbackBuckets(t *testing.T) {
	engine := makeTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		count       int
		wantOptions []string
		wantPart    string
	}{
		{0, []string{OptionShowMore, OptionSearchNew}, "nu am găsit"},
		{1, []string{OptionSatisfied, OptionShowMore, OptionSearchNew}, "un singur produs"},
		{2, []string{OptionSatisfied, OptionShowMore, OptionSearchNew}, "2 produse"},
		{4, []string{OptionSatisfied, OptionShowMore, OptionSearchNew}, "4 produse"},
		{5, []string{OptionSatisfied, OptionRefine}, "5 produse"},
		{10, []string{OptionSatisfied, OptionRefine}, "10 produse"},
		{11, []string{OptionSatisfied, OptionRefine}, "11 produse"},
		{42, []string{OptionSatisfied, OptionRefine}, "42 produse"},
	}
	for _, tt := range tests {
		result := engine.GenerateFeedback(ctx, tt.count, Filters{Category: "tricou"}, NewState())

		if !strings.Contains(result.FeedbackMessage, tt.wantPart) {
			t.Errorf("count=%d: message %q missing %q", tt.count, result.FeedbackMessage, tt.wantPart)
		}
		if len(result.Options) != len(tt.wantOptions) {
			t.Errorf("count=%d: got %d options, want %d", tt.count, len(result.Options), len(tt.wantOptions))
			continue
		}
		for i, want := range tt.wantOptions {
			if result.Options[i].Value != want {
				t.Errorf("count=%d: option[%d] = %q, want %q", tt.count, i, result.Options[i].Value, want)
			}
		}
	}
}

func TestGenerateFeedbackEmptyFilterSummary(t *testing.T) {
	engine := makeTestEngine(t)

	result := engine.GenerateFeedback(context.Background(), 0, Filters{SmallBusinessOnly: true}, NewState())

	if !strings.Contains(result.FeedbackMessage, "căutarea ta") {
		t.Errorf("empty filters should fall back to a generic summary, got %q", result.FeedbackMessage)
	}
}

func TestProcessFeedbackResponseSatisfied(t *testing.T) {
	engine := makeTestEngine(t)

	state := NewState()
	state.AwaitingFeedback = true
	result := engine.ProcessFeedbackResponse(context.Background(), OptionSatisfied, state)

	if result.Action != ActionCloseConversation {
		t.Errorf("action = %q, want %q", result.Action, ActionCloseConversation)
	}
	if result.NewState.Step != StepCompleted {
		t.Errorf("step = %q, want %q", result.NewState.Step, StepCompleted)
	}
	if result.NewState.AwaitingFeedback {
		t.Error("AwaitingFeedback should be cleared")
	}
}

// show_more strips exactly one filter per call, in the fixed order
// color, size, price, city. With nothing left to strip it is a no-op.
func TestProcessFeedbackResponseShowMoreOrder(t *testing.T) {
	engine := makeTestEngine(t)
	ctx := context.Background()

	state := NewState()
	state.Filters = Filters{
		Category:          "tricou",
		Color:             "portocaliu",
		Size:              "M",
		MaxPrice:          8000,
		City:              "cluj",
		SmallBusinessOnly: true,
	}

	steps := []struct {
		wantCleared string
		check       func(Filters) bool
	}{
		{"color", func(f Filters) bool { return f.Color == "" && f.Size == "M" }},
		{"size", func(f Filters) bool { return f.Size == "" && f.MaxPrice == 8000 }},
		{"price", func(f Filters) bool { return f.MaxPrice == 0 && f.City == "cluj" }},
		{"city", func(f Filters) bool { return f.City == "" }},
	}
	for _, step := range steps {
		result := engine.ProcessFeedbackResponse(ctx, OptionShowMore, state)
		if result.Action != ActionRemoveFilters {
			t.Fatalf("action = %q, want %q", result.Action, ActionRemoveFilters)
		}
		if !step.check(result.NewState.Filters) {
			t.Errorf("after clearing %s: filters = %+v", step.wantCleared, result.NewState.Filters)
		}
		state = result.NewState
	}

	// All relaxable filters are gone; category must survive and the reply
	// degrades to the generic one.
	if state.Filters.Category != "tricou" || !state.Filters.SmallBusinessOnly {
		t.Errorf("category or small-business flag lost: %+v", state.Filters)
	}
	result := engine.ProcessFeedbackResponse(ctx, OptionShowMore, state)
	if result.Reply != replyRelaxGeneric {
		t.Errorf("exhausted show_more reply = %q, want generic", result.Reply)
	}
	if result.NewState.Filters != state.Filters {
		t.Errorf("exhausted show_more changed filters: %+v", result.NewState.Filters)
	}
}

func TestProcessFeedbackResponseShowAll(t *testing.T) {
	engine := makeTestEngine(t)

	state := NewState()
	state.Filters = Filters{
		Category:          "bluza",
		Color:             "verde",
		MaxPrice:          12000,
		City:              "sibiu",
		SmallBusinessOnly: true,
	}
	result := engine.ProcessFeedbackResponse(context.Background(), OptionShowAll, state)

	want := Filters{Category: "bluza", SmallBusinessOnly: true}
	if result.NewState.Filters != want {
		t.Errorf("filters = %+v, want %+v", result.NewState.Filters, want)
	}
	if result.Action != ActionClearFilters {
		t.Errorf("action = %q, want %q", result.Action, ActionClearFilters)
	}
}

func TestProcessFeedbackResponseRefine(t *testing.T) {
	engine := makeTestEngine(t)

	result := engine.ProcessFeedbackResponse(context.Background(), OptionRefine, NewState())

	if result.Action != ActionAskDetails {
		t.Errorf("action = %q, want %q", result.Action, ActionAskDetails)
	}
	if result.NewState.Step != StepRefining {
		t.Errorf("step = %q, want %q", result.NewState.Step, StepRefining)
	}
	if !result.NewState.HasAskedDetails {
		t.Error("refine must mark details as asked so the next message is acknowledged")
	}
}

func TestProcessFeedbackResponseSearchNew(t *testing.T) {
	engine := makeTestEngine(t)

	state := NewState()
	state.Step = StepShowingResults
	state.Filters = Filters{Category: "tricou", Color: "alb", SmallBusinessOnly: false}
	state.HasColor = true
	state.AwaitingFeedback = true

	result := engine.ProcessFeedbackResponse(context.Background(), OptionSearchNew, state)

	if result.Action != ActionReset {
		t.Errorf("action = %q, want %q", result.Action, ActionReset)
	}
	want := NewState()
	if result.NewState != want {
		t.Errorf("state = %+v, want a fresh state", result.NewState)
	}
}

func TestProcessFeedbackResponseUnknownOption(t *testing.T) {
	engine := makeTestEngine(t)

	state := NewState()
	state.Step = StepShowingResults
	state.Filters.Category = "rochie"
	state.AwaitingFeedback = true

	result := engine.ProcessFeedbackResponse(context.Background(), "whatever", state)

	if result.Action != ActionContinue {
		t.Errorf("action = %q, want %q", result.Action, ActionContinue)
	}
	if result.NewState.Filters.Category != "rochie" {
		t.Errorf("filters must be untouched, got %+v", result.NewState.Filters)
	}
	if result.NewState.AwaitingFeedback {
		t.Error("AwaitingFeedback should be cleared even for unknown options")
	}
}
