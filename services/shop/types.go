// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package shop wires the conversational agent, catalog, and payments
// into the HTTP API served under /api.
package shop

import (
	"github.com/AleutianAI/AleutianCommerce/services/shop/agent"
	"github.com/AleutianAI/AleutianCommerce/services/shop/catalog"
	"github.com/AleutianAI/AleutianCommerce/services/shop/payments"
)

// =============================================================================
// Wire Types
// =============================================================================

// ErrorResponse is the standard error envelope for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Reply string `json:"reply,omitempty"`
}

// MessageRequest is the body of POST /api/agent/message.
type MessageRequest struct {
	Message string       `json:"message" binding:"required"`
	State   *agent.State `json:"state"`
}

// MessageResponse mirrors agent.MessageResult plus a success flag for
// the frontend.
type MessageResponse struct {
	Success  bool          `json:"success"`
	Reply    string        `json:"reply"`
	Filters  agent.Filters `json:"filters"`
	NewState agent.State   `json:"newState"`
}

// FeedbackRequest is the body of POST /api/agent/feedback. ResultsCount
// is a pointer so a missing field can be told apart from zero results.
type FeedbackRequest struct {
	ResultsCount *int           `json:"resultsCount"`
	Filters      *agent.Filters `json:"filters"`
	State        *agent.State   `json:"state"`
}

// FeedbackResponse is the reply to POST /api/agent/feedback.
type FeedbackResponse struct {
	Success         bool           `json:"success"`
	FeedbackMessage string         `json:"feedbackMessage"`
	Options         []agent.Option `json:"options"`
	NewState        agent.State    `json:"newState"`
}

// FeedbackResponseRequest is the body of POST /api/agent/feedback-response.
type FeedbackResponseRequest struct {
	FeedbackResponse string       `json:"feedbackResponse" binding:"required"`
	State            *agent.State `json:"state"`
}

// FeedbackResponseResponse is the reply to POST /api/agent/feedback-response.
type FeedbackResponseResponse struct {
	Success  bool         `json:"success"`
	Reply    string       `json:"reply"`
	Action   agent.Action `json:"action"`
	NewState agent.State  `json:"newState"`
}

// SearchRequest is the body of POST /api/products/search. Size uses the
// custom "sizetoken" validator so junk like "XXXL" is rejected before it
// reaches the store.
type SearchRequest struct {
	Category          string `json:"category"`
	Color             string `json:"color"`
	Size              string `json:"size" binding:"omitempty,sizetoken"`
	MaxPrice          int    `json:"maxPrice" binding:"omitempty,gte=0"`
	City              string `json:"city"`
	SmallBusinessOnly *bool  `json:"smallBusinessOnly"`
}

// SearchResponse is the reply to POST /api/products/search.
type SearchResponse struct {
	Success  bool              `json:"success"`
	Count    int               `json:"count"`
	Products []catalog.Product `json:"products"`
}

// ProductResponse is the reply to GET /api/products/:id.
type ProductResponse struct {
	Success bool            `json:"success"`
	Product catalog.Product `json:"product"`
}

// CheckoutRequest is the body of POST /api/checkout/session.
type CheckoutRequest struct {
	Items []payments.CartItem `json:"items" binding:"required,min=1,dive"`
}

// CheckoutResponse is the reply to POST /api/checkout/session.
type CheckoutResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId"`
}

// ConfigResponse is the reply to GET /api/checkout/config.
type ConfigResponse struct {
	Success        bool   `json:"success"`
	PublishableKey string `json:"publishableKey"`
}

// filters converts the validated search request into agent filters,
// defaulting the small-business flag to on when the field is absent.
func (r SearchRequest) filters() agent.Filters {
	smallOnly := true
	if r.SmallBusinessOnly != nil {
		smallOnly = *r.SmallBusinessOnly
	}
	return agent.Filters{
		Category:          r.Category,
		Color:             r.Color,
		Size:              r.Size,
		MaxPrice:          r.MaxPrice,
		City:              r.City,
		SmallBusinessOnly: smallOnly,
	}
}
