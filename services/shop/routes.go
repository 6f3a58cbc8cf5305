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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all shop routes with the router.
//
// Description:
//
//	Registers all /api/* endpoints with the given Gin router group.
//	The router group should already have any required middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /api)
//	handlers - The handlers instance
//
// Agent Endpoints:
//
//	POST /api/agent/message - Run one dialogue turn
//	POST /api/agent/feedback - Generate a post-search follow-up
//	POST /api/agent/feedback-response - Apply the user's chosen option
//	GET  /api/agent/ws - Bidirectional chat over WebSocket
//
// Product Endpoints:
//
//	POST /api/products/search - Filter search over the catalog
//	GET  /api/products/:id - Get one product
//
// Checkout Endpoints:
//
//	POST /api/checkout/session - Create a Stripe Checkout Session
//	GET  /api/checkout/config - Stripe publishable key for the frontend
//
// Health Endpoints:
//
//	GET  /api/health - Health check
//	GET  /api/ready - Readiness check
//
// Example:
//
//	handlers := shop.NewHandlers(engine, store, stripe)
//
//	api := router.Group("/api")
//	shop.RegisterRoutes(api, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	agentGroup := rg.Group("/agent")
	{
		agentGroup.POST("/message", handlers.HandleMessage)
		agentGroup.POST("/feedback", handlers.HandleFeedback)
		agentGroup.POST("/feedback-response", handlers.HandleFeedbackResponse)
		agentGroup.GET("/ws", handlers.HandleChatSocket)
	}

	products := rg.Group("/products")
	{
		products.POST("/search", handlers.HandleSearch)
		products.GET("/:id", handlers.HandleProduct)
	}

	checkout := rg.Group("/checkout")
	{
		checkout.POST("/session", handlers.HandleCheckoutSession)
		checkout.GET("/config", handlers.HandleConfig)
	}

	rg.GET("/health", handlers.HandleHealth)
	rg.GET("/ready", handlers.HandleReady)
}
