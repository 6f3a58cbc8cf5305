// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package shop

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianCommerce/services/shop/agent"
	"github.com/AleutianAI/AleutianCommerce/services/shop/catalog"
	"github.com/AleutianAI/AleutianCommerce/services/shop/payments"
)

// =============================================================================
// Handlers
// =============================================================================

// Handlers holds the dependencies for all /api endpoints.
type Handlers struct {
	engine    *agent.Engine
	store     *catalog.Store
	stripe    *payments.StripeClient
	startedAt time.Time
}

// NewHandlers creates the handler set and registers the custom request
// validators with Gin's binding engine.
//
// # Inputs
//
//   - engine: The dialogue engine. Must not be nil.
//   - store: The product store. Must not be nil.
//   - stripe: The Stripe client; may be nil, in which case checkout
//     endpoints return 503.
func NewHandlers(engine *agent.Engine, store *catalog.Store, stripe *payments.StripeClient) *Handlers {
	registerValidators()
	return &Handlers{
		engine:    engine,
		store:     store,
		stripe:    stripe,
		startedAt: time.Now(),
	}
}

// registerValidators installs the "sizetoken" rule: a size must be one of
// the lexicon's canonical tokens (XS..XXL), case-insensitively.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("sizetoken", func(fl validator.FieldLevel) bool {
		return agent.IsSizeToken(fl.Field().String())
	})
}

// getOrCreateRequestID returns the inbound X-Request-ID or mints one.
func getOrCreateRequestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

// =============================================================================
// Agent Endpoints
// =============================================================================

// HandleMessage handles POST /api/agent/message.
//
// # Description
//
//	Runs one turn of the dialogue engine: extracts filters from the
//	user's message, advances the conversation step, and returns the
//	reply plus the updated state for the client to thread back.
//
// Response:
//
//	200 OK: MessageResponse
//	400 Bad Request: Missing or non-string message
//
// Thread Safety: This method is safe for concurrent use.
func (h *Handlers) HandleMessage(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleMessage")

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Mesajul este obligatoriu",
			Code:  "MISSING_MESSAGE",
		})
		return
	}

	state := agent.NewState()
	if req.State != nil {
		state = *req.State
	}

	result := h.engine.ProcessMessage(c.Request.Context(), req.Message, state)

	logger.Info("agent message processed",
		slog.String("step", string(result.NewState.Step)))

	c.JSON(http.StatusOK, MessageResponse{
		Success:  true,
		Reply:    result.Reply,
		Filters:  result.Filters,
		NewState: result.NewState,
	})
}

// HandleFeedback handles POST /api/agent/feedback.
//
// # Description
//
//	Given the result count of the search the client just ran, returns
//	the follow-up message and the option set valid for that count.
//
// Response:
//
//	200 OK: FeedbackResponse
//	400 Bad Request: resultsCount missing or negative
//
// Thread Safety: This method is safe for concurrent use.
func (h *Handlers) HandleFeedback(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleFeedback")

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ResultsCount == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "resultsCount este obligatoriu",
			Code:  "MISSING_RESULTS_COUNT",
		})
		return
	}
	if *req.ResultsCount < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "resultsCount trebuie să fie pozitiv",
			Code:  "INVALID_RESULTS_COUNT",
		})
		return
	}

	state := agent.NewState()
	if req.State != nil {
		state = *req.State
	}
	filters := state.Filters
	if req.Filters != nil {
		filters = *req.Filters
	}

	result := h.engine.GenerateFeedback(c.Request.Context(), *req.ResultsCount, filters, state)

	logger.Info("feedback generated", slog.Int("results_count", *req.ResultsCount))

	c.JSON(http.StatusOK, FeedbackResponse{
		Success:         true,
		FeedbackMessage: result.FeedbackMessage,
		Options:         result.Options,
		NewState:        result.NewState,
	})
}

// HandleFeedbackResponse handles POST /api/agent/feedback-response.
//
// Response:
//
//	200 OK: FeedbackResponseResponse
//	400 Bad Request: Missing feedbackResponse
//
// Thread Safety: This method is safe for concurrent use.
func (h *Handlers) HandleFeedbackResponse(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleFeedbackResponse")

	var req FeedbackResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "feedbackResponse este obligatoriu",
			Code:  "MISSING_FEEDBACK_RESPONSE",
		})
		return
	}

	state := agent.NewState()
	if req.State != nil {
		state = *req.State
	}

	result := h.engine.ProcessFeedbackResponse(c.Request.Context(), req.FeedbackResponse, state)

	logger.Info("feedback response processed",
		slog.String("option", req.FeedbackResponse),
		slog.String("action", string(result.Action)))

	c.JSON(http.StatusOK, FeedbackResponseResponse{
		Success:  true,
		Reply:    result.Reply,
		Action:   result.Action,
		NewState: result.NewState,
	})
}

// =============================================================================
// Product Endpoints
// =============================================================================

// HandleSearch handles POST /api/products/search.
//
// Response:
//
//	200 OK: SearchResponse
//	400 Bad Request: Invalid size token or negative maxPrice
//
// Thread Safety: This method is safe for concurrent use.
func (h *Handlers) HandleSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Filtre invalide",
			Code:  "INVALID_FILTERS",
		})
		return
	}

	products := h.store.Search(req.filters())

	c.JSON(http.StatusOK, SearchResponse{
		Success:  true,
		Count:    len(products),
		Products: products,
	})
}

// HandleProduct handles GET /api/products/:id.
//
// Response:
//
//	200 OK: ProductResponse
//	404 Not Found: Unknown product ID
//
// Thread Safety: This method is safe for concurrent use.
func (h *Handlers) HandleProduct(c *gin.Context) {
	product, ok := h.store.GetProduct(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Produsul nu a fost găsit",
			Code:  "PRODUCT_NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, ProductResponse{Success: true, Product: product})
}

// =============================================================================
// Checkout Endpoints
// =============================================================================

// HandleCheckoutSession handles POST /api/checkout/session.
//
// Response:
//
//	200 OK: CheckoutResponse
//	400 Bad Request: Empty cart
//	502 Bad Gateway: Stripe API failure
//	503 Service Unavailable: Stripe not configured
//
// Thread Safety: This method is safe for concurrent use.
func (h *Handlers) HandleCheckoutSession(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleCheckoutSession")

	if h.stripe == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "Stripe nu este configurat",
			Code:  "STRIPE_NOT_CONFIGURED",
		})
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Coșul este gol",
			Code:  "EMPTY_CART",
		})
		return
	}

	sessionID, err := h.stripe.CreateCheckoutSession(c.Request.Context(), req.Items, h.store)
	if err != nil {
		logger.Error("checkout session failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error: "Eroare la procesarea plății",
			Code:  "CHECKOUT_FAILED",
		})
		return
	}

	logger.Info("checkout session created", slog.Int("items", len(req.Items)))
	c.JSON(http.StatusOK, CheckoutResponse{Success: true, SessionID: sessionID})
}

// HandleConfig handles GET /api/checkout/config.
//
// Thread Safety: This method is safe for concurrent use.
func (h *Handlers) HandleConfig(c *gin.Context) {
	if h.stripe == nil || h.stripe.PublishableKey() == "" {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Stripe nu este configurat",
			Code:  "STRIPE_NOT_CONFIGURED",
		})
		return
	}
	c.JSON(http.StatusOK, ConfigResponse{
		Success:        true,
		PublishableKey: h.stripe.PublishableKey(),
	})
}

// =============================================================================
// Health Endpoints
// =============================================================================

// HandleHealth handles GET /api/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReady handles GET /api/ready. Ready means the catalog is loaded.
func (h *Handlers) HandleReady(c *gin.Context) {
	if h.store.Len() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "catalog empty"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
