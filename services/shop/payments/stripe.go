// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package payments integrates Stripe Checkout for the shop's cart flow.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AleutianAI/AleutianCommerce/services/shop/catalog"
)

// =============================================================================
// Stripe Wire Types
// =============================================================================

const defaultStripeBaseURL = "https://api.stripe.com"

type stripeSessionResponse struct {
	ID    string       `json:"id"`
	URL   string       `json:"url"`
	Error *stripeError `json:"error,omitempty"`
}

type stripeError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// =============================================================================
// Client Implementation
// =============================================================================

// CartItem is one entry of the user's cart as submitted by the frontend.
type CartItem struct {
	ProductID    string `json:"productId" binding:"required"`
	Quantity     int    `json:"quantity"`
	SelectedSize string `json:"selectedSize"`
}

// ProductLookup resolves a product ID to its catalog entry.
type ProductLookup interface {
	GetProduct(id string) (catalog.Product, bool)
}

// StripeClient creates Checkout Sessions using the Stripe REST API
// directly over raw net/http.
//
// Description:
//
//	Line items are built on the fly with price_data so no prices need to
//	be pre-registered in the Stripe dashboard. Each line item carries the
//	vendor and product IDs in its metadata for later order attribution.
//
// Thread Safety: StripeClient is safe for concurrent use.
type StripeClient struct {
	httpClient     *http.Client
	secretKey      string
	publishableKey string
	baseURL        string
	successURL     string
	cancelURL      string
}

// NewStripeClient creates a StripeClient from environment variables.
//
// Description:
//
//	Reads STRIPE_SECRET_KEY, STRIPE_PUBLISHABLE_KEY, and FRONTEND_URL
//	from the environment. The success and cancel URLs are derived from
//	FRONTEND_URL the same way the storefront links back to itself.
//
// Outputs:
//   - *StripeClient: The configured client.
//   - error: Non-nil if STRIPE_SECRET_KEY is missing.
func NewStripeClient() (*StripeClient, error) {
	secretKey := os.Getenv("STRIPE_SECRET_KEY")
	if secretKey == "" {
		slog.Warn("Stripe secret key is empty. Checkout will not function.")
		return nil, fmt.Errorf("stripe: secret key is missing (STRIPE_SECRET_KEY)")
	}
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
		slog.Warn("FRONTEND_URL not set, defaulting to http://localhost:3000")
	}
	frontendURL = strings.TrimSuffix(frontendURL, "/")
	return &StripeClient{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		secretKey:      secretKey,
		publishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		baseURL:        defaultStripeBaseURL,
		successURL:     frontendURL + "/success.html?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:      frontendURL + "/",
	}, nil
}

// NewStripeClientWithConfig creates a StripeClient with explicit configuration.
//
// Description:
//
//	Creates a StripeClient without reading environment variables. Useful
//	for testing against an httptest server.
func NewStripeClientWithConfig(secretKey, baseURL, successURL, cancelURL string) *StripeClient {
	return &StripeClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		secretKey:  secretKey,
		baseURL:    baseURL,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// PublishableKey returns the client-side key the frontend needs to start
// the Stripe redirect. May be empty when not configured.
func (s *StripeClient) PublishableKey() string {
	return s.publishableKey
}

// CreateCheckoutSession creates a Stripe Checkout Session for the cart.
//
// Description:
//
//	Validates every cart item against the catalog, builds form-encoded
//	line items with on-the-fly price_data, and POSTs to
//	/v1/checkout/sessions. Quantity defaults to 1 and selected size to
//	"M" when the frontend omits them.
//
// Inputs:
//   - ctx: Context for cancellation and timeout.
//   - items: Cart entries; must be non-empty.
//   - products: Catalog lookup used to validate and price each item.
//
// Outputs:
//   - string: The session ID for the Stripe redirect.
//   - error: Non-nil on empty carts, unknown products, or API failures.
//
// Thread Safety: This method is safe for concurrent use.
func (s *StripeClient) CreateCheckoutSession(ctx context.Context, items []CartItem, products ProductLookup) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("stripe: cart is empty")
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", s.successURL)
	form.Set("cancel_url", s.cancelURL)
	form.Set("metadata[order_type]", "multi_vendor")

	vendors := make(map[string]struct{})
	for i, item := range items {
		product, ok := products.GetProduct(item.ProductID)
		if !ok {
			return "", fmt.Errorf("stripe: product %s does not exist", item.ProductID)
		}
		vendors[product.VendorID] = struct{}{}

		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		size := item.SelectedSize
		if size == "" {
			size = "M"
		}

		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.Itoa(quantity))
		form.Set(prefix+"[price_data][currency]", strings.ToLower(product.Currency))
		form.Set(prefix+"[price_data][unit_amount]", strconv.Itoa(product.Price))
		form.Set(prefix+"[price_data][product_data][name]", product.Name)
		form.Set(prefix+"[price_data][product_data][description]",
			fmt.Sprintf("%s - %s", product.VendorName, product.City))
		if product.Image != "" {
			form.Set(prefix+"[price_data][product_data][images][0]", product.Image)
		}
		form.Set(prefix+"[price_data][product_data][metadata][vendor_id]", product.VendorID)
		form.Set(prefix+"[price_data][product_data][metadata][product_id]", product.ID)
		form.Set(prefix+"[price_data][product_data][metadata][selected_size]", size)
	}
	form.Set("metadata[total_vendors]", strconv.Itoa(len(vendors)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("stripe: creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("stripe: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("stripe: reading response: %w", err)
	}

	var session stripeSessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return "", fmt.Errorf("stripe: parsing response (status %d): %w", resp.StatusCode, err)
	}
	if session.Error != nil {
		return "", fmt.Errorf("stripe: API error (%s): %s", session.Error.Type, session.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stripe: unexpected status %d", resp.StatusCode)
	}
	if session.ID == "" {
		return "", fmt.Errorf("stripe: response missing session id")
	}

	slog.Debug("Created checkout session",
		"session_id", session.ID,
		"line_items", len(items),
		"vendors", len(vendors))
	return session.ID, nil
}
