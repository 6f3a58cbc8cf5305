// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package agent implements the conversational shopping engine: keyword and
// regex extraction of product filters from free-text Romanian messages, a
// turn-by-turn dialogue state machine, and feedback-driven filter relaxation.
//
// The engine is a pure request/response transformer. Conversation state is
// supplied by the caller on every call and a new state is returned; nothing
// is retained between calls, so a single Engine is safe to share across any
// number of concurrent conversations.
package agent

import "encoding/json"

// =============================================================================
// Conversation Steps
// =============================================================================

// Step identifies the dialogue phase a conversation is in. The step gates
// which reply branch fires on the next message.
type Step string

const (
	// StepInitial is a fresh conversation with no category detected yet.
	StepInitial Step = "initial"

	// StepAskedCategory means a category was detected and the engine is
	// collecting (or about to ask for) the remaining details.
	StepAskedCategory Step = "asked_category"

	// StepGreeted means the user opened with a pure salutation.
	StepGreeted Step = "greeted"

	// StepShowingResults means filters were handed to the caller for a
	// catalog search and results are on screen.
	StepShowingResults Step = "showing_results"

	// StepRefining is entered when the user picked the "refine" feedback
	// option and was prompted for narrower criteria.
	StepRefining Step = "refining"

	// StepCompleted means the user declared themselves satisfied.
	StepCompleted Step = "completed"
)

// =============================================================================
// Filters
// =============================================================================

// Filters is the structured catalog query accumulated over a conversation.
// Unset string fields are empty; an unset MaxPrice is zero. MaxPrice is
// always in minor currency units (bani), even though it is parsed from a
// major-unit numeral in text.
type Filters struct {
	Category          string `json:"category,omitempty"`
	Color             string `json:"color,omitempty"`
	Size              string `json:"size,omitempty"`
	MaxPrice          int    `json:"maxPrice,omitempty"`
	City              string `json:"city,omitempty"`
	SmallBusinessOnly bool   `json:"smallBusinessOnly"`
}

// UnmarshalJSON defaults SmallBusinessOnly to true when the field is absent,
// while preserving an explicit false from an upstream caller.
func (f *Filters) UnmarshalJSON(data []byte) error {
	type plain Filters
	p := plain{SmallBusinessOnly: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = Filters(p)
	return nil
}

// =============================================================================
// Conversation State
// =============================================================================

// State is the conversation bag round-tripped between caller and engine on
// every call. The Has* flags record which dimensions have EVER been supplied,
// independent of whether the filter was later removed by feedback handling,
// so a flag is not a proxy for "filter currently set".
type State struct {
	Filters          Filters `json:"filters"`
	Step             Step    `json:"conversationStep"`
	HasColor         bool    `json:"hasColor"`
	HasSize          bool    `json:"hasSize"`
	HasCity          bool    `json:"hasCity"`
	HasBudget        bool    `json:"hasBudget"`
	HasAskedDetails  bool    `json:"hasAskedDetails"`
	AwaitingFeedback bool    `json:"awaitingFeedback"`
}

// UnmarshalJSON seeds the small-business default before decoding, so a
// present-but-empty state object ({} or one without a "filters" key) still
// comes out with SmallBusinessOnly on. Without this the Filters decoder never
// runs for an absent key and the zero value false would stick for the whole
// conversation, since extraction never touches that field.
func (s *State) UnmarshalJSON(data []byte) error {
	type plain State
	p := plain{Filters: Filters{SmallBusinessOnly: true}}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = State(p)
	return nil
}

// NewState returns the canonical first-contact state: step initial and the
// small-business filter on. Callers constructing states in Go code should
// start here rather than from the zero value.
func NewState() State {
	return State{
		Filters: Filters{SmallBusinessOnly: true},
		Step:    StepInitial,
	}
}

// withDefaults normalizes a caller-supplied state. An empty step means the
// caller sent a fresh (or JSON-decoded zero) state and is treated as initial.
func (s State) withDefaults() State {
	if s.Step == "" {
		s.Step = StepInitial
	}
	return s
}
