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
	_ "embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Embedded Vendor Characteristics
// =============================================================================

//go:embed vendors.yaml
var defaultVendorsYAML []byte

// VendorCharacteristics describes one vendor for business-size scoring.
type VendorCharacteristics struct {
	Employees      int  `yaml:"employees"`
	YearFounded    int  `yaml:"year_founded"`
	AnnualRevenue  int  `yaml:"annual_revenue"`
	Locations      int  `yaml:"locations"`
	OnlineStore    bool `yaml:"online_store"`
	PhysicalStores bool `yaml:"physical_stores"`
	MonthlyOrders  int  `yaml:"monthly_orders"`
}

type vendorsFile struct {
	Vendors map[string]VendorCharacteristics `yaml:"vendors"`
}

var (
	cachedVendors map[string]VendorCharacteristics
	vendorsOnce   sync.Once
	vendorsErr    error
)

// LoadVendorCharacteristics loads and caches the embedded vendor table.
//
// # Thread Safety
//
// Safe for concurrent use (uses sync.Once internally).
func LoadVendorCharacteristics() (map[string]VendorCharacteristics, error) {
	vendorsOnce.Do(func() {
		var file vendorsFile
		if err := yaml.Unmarshal(defaultVendorsYAML, &file); err != nil {
			vendorsErr = fmt.Errorf("parsing vendors.yaml: %w", err)
			return
		}
		cachedVendors = file.Vendors
		slog.Info("vendor characteristics loaded", slog.Int("vendor_count", len(file.Vendors)))
	})
	return cachedVendors, vendorsErr
}

// =============================================================================
// Business Size Classifier
// =============================================================================

// BusinessCategory buckets a small-business score.
type BusinessCategory string

const (
	BusinessMicro  BusinessCategory = "micro"
	BusinessSmall  BusinessCategory = "small"
	BusinessMedium BusinessCategory = "medium"
	BusinessLarge  BusinessCategory = "large"
)

// unknownVendorScore is assumed for vendors with no characteristics on
// file: mid-size, neither boosted nor excluded.
const unknownVendorScore = 50

// smallBusinessThreshold is the minimum score (micro or small bucket) for
// a vendor to pass the small-business filter.
const smallBusinessThreshold = 60

// SmallBusinessScore rates how small a vendor's business is on a 0–100
// scale (100 = smallest), following the EU SME criteria bands: employee
// count (30), annual revenue (25), company age (15), location count (10),
// monthly order volume (10), and channel mix (10).
func SmallBusinessScore(vendorID string) int {
	vendors, err := LoadVendorCharacteristics()
	if err != nil {
		return unknownVendorScore
	}
	c, ok := vendors[vendorID]
	if !ok {
		return unknownVendorScore
	}
	return scoreCharacteristics(c, time.Now().Year())
}

// scoreCharacteristics computes the score for a known vendor at the given
// reference year. Split out so tests can pin the year.
func scoreCharacteristics(c VendorCharacteristics, nowYear int) int {
	score := 0

	// Employees, 30 points max.
	switch {
	case c.Employees < 5:
		score += 30
	case c.Employees < 10:
		score += 25
	case c.Employees < 25:
		score += 20
	case c.Employees < 50:
		score += 15
	case c.Employees < 100:
		score += 10
	case c.Employees < 250:
		score += 5
	}

	// Annual revenue, 25 points max.
	switch {
	case c.AnnualRevenue < 100_000:
		score += 25
	case c.AnnualRevenue < 500_000:
		score += 20
	case c.AnnualRevenue < 1_000_000:
		score += 15
	case c.AnnualRevenue < 5_000_000:
		score += 10
	case c.AnnualRevenue < 10_000_000:
		score += 5
	}

	// Company age, 15 points max. Younger reads smaller.
	age := nowYear - c.YearFounded
	switch {
	case age < 3:
		score += 15
	case age < 5:
		score += 12
	case age < 10:
		score += 8
	case age < 20:
		score += 5
	default:
		score += 2
	}

	// Locations, 10 points max.
	switch {
	case c.Locations == 1:
		score += 10
	case c.Locations <= 3:
		score += 7
	case c.Locations <= 6:
		score += 4
	}

	// Monthly orders, 10 points max.
	switch {
	case c.MonthlyOrders < 50:
		score += 10
	case c.MonthlyOrders < 100:
		score += 8
	case c.MonthlyOrders < 300:
		score += 6
	case c.MonthlyOrders < 1000:
		score += 4
	}

	// Channel mix, 10 points max. Very small shops tend to be single
	// channel; a mixed presence reads larger.
	switch {
	case c.OnlineStore != c.PhysicalStores:
		score += 10
	case c.OnlineStore && c.PhysicalStores:
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}

// CategoryForScore maps a score to its business-size bucket.
func CategoryForScore(score int) BusinessCategory {
	switch {
	case score >= 80:
		return BusinessMicro
	case score >= smallBusinessThreshold:
		return BusinessSmall
	case score >= 30:
		return BusinessMedium
	default:
		return BusinessLarge
	}
}

// IsSmallBusiness reports whether a vendor lands in the micro or small
// bucket, which is what the catalog's small-business filter keys on.
func IsSmallBusiness(vendorID string) bool {
	return SmallBusinessScore(vendorID) >= smallBusinessThreshold
}
