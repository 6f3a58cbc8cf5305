// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package catalog

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/AleutianAI/AleutianCommerce/services/shop/agent"
)

// testProducts uses real vendor IDs so small-business classification is
// exercised: urbanfit and travelgo score small, blackline scores large.
var testProducts = []Product{
	{
		ID: "p1", Name: "Tricou Portocaliu", Category: "tricou", Color: "portocaliu",
		Sizes: []string{"S", "M", "L"}, Price: 7900, Currency: "RON", City: "cluj",
		VendorID: "vendor_urbanfit_cluj", VendorName: "UrbanFit Cluj",
	},
	{
		ID: "p2", Name: "Tricou Negru", Category: "tricou", Color: "negru",
		Sizes: []string{"M", "L"}, Price: 8900, Currency: "RON", City: "bucuresti",
		VendorID: "vendor_blackline_bucuresti", VendorName: "BlackLine București",
	},
	{
		ID: "p3", Name: "Bluză Roșie", Category: "bluza", Color: "roșu",
		Sizes: []string{"XS", "S"}, Price: 12000, Currency: "RON", City: "Brașov",
		VendorID: "vendor_travelgo_iasi", VendorName: "TravelGo Iași",
	},
}

func makeTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	writeTestProducts(t, path, testProducts)

	store, err := NewStore(path, slog.Default())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, path
}

func writeTestProducts(t *testing.T, path string, products []Product) {
	t.Helper()
	data, err := json.Marshal(products)
	if err != nil {
		t.Fatalf("marshal products: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write products: %v", err)
	}
}

func TestStoreLoadClassifiesVendors(t *testing.T) {
	store, _ := makeTestStore(t)

	if store.Len() != len(testProducts) {
		t.Fatalf("Len = %d, want %d", store.Len(), len(testProducts))
	}

	p1, _ := store.GetProduct("p1")
	if !p1.IsSmallBusiness {
		t.Error("urbanfit should classify as a small business")
	}
	p2, _ := store.GetProduct("p2")
	if p2.IsSmallBusiness {
		t.Error("blackline should not classify as a small business")
	}
}

func TestStoreSearchSmallBusinessDefault(t *testing.T) {
	store, _ := makeTestStore(t)

	got := store.Search(agent.Filters{Category: "tricou", SmallBusinessOnly: true})
	if len(got) != 1 || got[0].ID != "p1" {
		t.Errorf("small-business search = %v, want only p1", ids(got))
	}

	all := store.Search(agent.Filters{Category: "tricou"})
	if len(all) != 2 {
		t.Errorf("unrestricted search = %v, want p1 and p2", ids(all))
	}
}

func TestStoreSearchFilters(t *testing.T) {
	store, _ := makeTestStore(t)

	tests := []struct {
		name    string
		filters agent.Filters
		wantIDs []string
	}{
		{"by color", agent.Filters{Color: "negru"}, []string{"p2"}},
		// Diacritic folding on both sides: query "rosu" matches stored "roșu".
		{"color folded", agent.Filters{Color: "rosu"}, []string{"p3"}},
		{"by city folded", agent.Filters{City: "brasov"}, []string{"p3"}},
		{"by size", agent.Filters{Size: "XS"}, []string{"p3"}},
		{"size lowercased", agent.Filters{Size: "m"}, []string{"p1", "p2"}},
		{"by max price", agent.Filters{MaxPrice: 8000}, []string{"p1"}},
		{"no hits", agent.Filters{Category: "rochie"}, nil},
		{"combined", agent.Filters{Category: "tricou", Color: "portocaliu", City: "cluj"}, []string{"p1"}},
	}
	for _, tt := range tests {
		got := store.Search(tt.filters)
		if !equalIDs(got, tt.wantIDs) {
			t.Errorf("%s: got %v, want %v", tt.name, ids(got), tt.wantIDs)
		}
	}
}

func TestStoreGetProduct(t *testing.T) {
	store, _ := makeTestStore(t)

	if _, ok := store.GetProduct("p1"); !ok {
		t.Error("p1 should exist")
	}
	if _, ok := store.GetProduct("nope"); ok {
		t.Error("unknown ID should report not found")
	}
}

func TestStoreReload(t *testing.T) {
	store, path := makeTestStore(t)

	writeTestProducts(t, path, testProducts[:1])
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("Len after reload = %d, want 1", store.Len())
	}
}

// A bad file on reload keeps the previous catalog.
func TestStoreReloadKeepsCatalogOnError(t *testing.T) {
	store, path := makeTestStore(t)

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Reload(); err == nil {
		t.Fatal("Reload should fail on malformed JSON")
	}
	if store.Len() != len(testProducts) {
		t.Errorf("Len = %d, want the previous catalog intact", store.Len())
	}
}

func ids(products []Product) []string {
	var out []string
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func equalIDs(products []Product, want []string) bool {
	if len(products) != len(want) {
		return false
	}
	for i, p := range products {
		if p.ID != want[i] {
			return false
		}
	}
	return true
}
