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

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Brașov", "brasov"},
		{"BUCUREȘTI", "bucuresti"},
		{"țară", "tara"},
		// Legacy cedilla forms (U+015F, U+0163) fold the same as the
		// comma-below letters.
		{"şi ţie", "si tie"},
		{"Timișoara", "timisoara"},
		{"portocaliu", "portocaliu"},
		{"ROȘU aprins", "rosu aprins"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContainsFolded(t *testing.T) {
	folded := Fold("vreau o rochie roșie din Brașov")

	if !containsFolded(folded, "rosie") {
		t.Error("expected folded keyword match for rosie")
	}
	if !containsFolded(folded, "brasov") {
		t.Error("expected folded keyword match for brasov")
	}
	if containsFolded(folded, "verde") {
		t.Error("verde should not match")
	}
}
