// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package catalog serves the product inventory: a JSON-backed store with
// filter search, plus the vendor business-size classifier that powers the
// small-business-only default.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/AleutianAI/AleutianCommerce/services/shop/agent"
)

// =============================================================================
// Product Model
// =============================================================================

// Product is one catalog entry. Price is in minor currency units
// (8900 = 89.00 RON).
type Product struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Category        string   `json:"category"`
	Color           string   `json:"color"`
	Sizes           []string `json:"sizes"`
	Price           int      `json:"price"`
	Currency        string   `json:"currency"`
	City            string   `json:"city"`
	Image           string   `json:"image,omitempty"`
	VendorID        string   `json:"vendorId"`
	VendorName      string   `json:"vendorName"`
	IsSmallBusiness bool     `json:"isSmallBusiness"`
}

// =============================================================================
// Store
// =============================================================================

// Store holds the product catalog in memory and answers filter queries.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Reload swaps the cached slice
// under a write lock; readers never see a partially loaded catalog.
type Store struct {
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	products []Product
}

// NewStore loads the catalog from the JSON file at path.
//
// # Inputs
//
//   - path: products JSON file (an array of Product objects)
//   - logger: structured logger; must not be nil
//
// # Outputs
//
//   - *Store: ready-to-query store
//   - error: non-nil if the file cannot be read or parsed
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	s := &Store{path: path, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return s, nil
}

// Reload re-reads the products file and replaces the cached catalog.
// The small-business flag on each product is recomputed from the vendor
// classifier so the JSON never goes stale against the vendor table.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.path, err)
	}
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}
	for i := range products {
		products[i].IsSmallBusiness = IsSmallBusiness(products[i].VendorID)
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()

	s.logger.Info("catalog loaded",
		slog.String("path", s.path),
		slog.Int("product_count", len(products)))
	return nil
}

// Search returns the products matching every set filter. Color and city
// compare diacritic-folded so "brașov" and "brasov" are the same place;
// category compares lowercased, size by exact token membership.
func (s *Store) Search(f agent.Filters) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if f.SmallBusinessOnly && !p.IsSmallBusiness {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.Color != "" && agent.Fold(p.Color) != agent.Fold(f.Color) {
			continue
		}
		if f.Size != "" && !slices.Contains(p.Sizes, strings.ToUpper(f.Size)) {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		if f.City != "" && agent.Fold(p.City) != agent.Fold(f.City) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

// GetProduct returns the product with the given ID, or false when no
// such product exists.
func (s *Store) GetProduct(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Len returns the number of products currently loaded.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// =============================================================================
// File Watching
// =============================================================================

// Watch reloads the catalog whenever the products file changes on disk.
// It blocks until ctx is cancelled; run it on its own goroutine. Editors
// that replace the file (rename + create) are handled by watching the
// parent directory.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("catalog: watching %s: %w", filepath.Dir(s.path), err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Warn("catalog reload failed, keeping previous catalog",
					slog.String("error", err.Error()))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("catalog watcher error", slog.String("error", err.Error()))
		}
	}
}
