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
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/AleutianCommerce/services/shop/agent"
)

// =============================================================================
// WebSocket Chat
// =============================================================================

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API and frontend are served from the same origin in this
	// deployment, so the default same-origin check would also work; this
	// keeps local dev setups with a separate frontend port functional.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// socketInbound is one client frame: either a chat message or a feedback
// option pick.
type socketInbound struct {
	Type             string       `json:"type"`
	Message          string       `json:"message,omitempty"`
	FeedbackResponse string       `json:"feedbackResponse,omitempty"`
	ResultsCount     *int         `json:"resultsCount,omitempty"`
	State            *agent.State `json:"state,omitempty"`
}

// socketOutbound is one server frame.
type socketOutbound struct {
	Type     string         `json:"type"`
	Reply    string         `json:"reply,omitempty"`
	Filters  *agent.Filters `json:"filters,omitempty"`
	Options  []agent.Option `json:"options,omitempty"`
	Action   agent.Action   `json:"action,omitempty"`
	NewState agent.State    `json:"newState"`
	Error    string         `json:"error,omitempty"`
}

const (
	socketWriteTimeout = 10 * time.Second
	socketReadLimit    = 4 * 1024
)

// HandleChatSocket handles GET /api/agent/ws.
//
// # Description
//
//	Upgrades to a WebSocket and runs the same dialogue turns as the REST
//	endpoints, one frame per turn. The server threads state internally
//	for the lifetime of the connection, so socket clients do not need to
//	echo state back the way REST clients do. Frame types:
//
//	  {"type": "message", "message": "..."}            -> dialogue turn
//	  {"type": "feedback", "resultsCount": N}          -> follow-up options
//	  {"type": "feedback_response", "feedbackResponse": "..."}
//
// Thread Safety: Each connection is served by its own goroutine; the
// underlying engine is safe for concurrent use.
func (h *Handlers) HandleChatSocket(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleChatSocket")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(socketReadLimit)

	logger.Info("chat socket opened")
	state := agent.NewState()

	for {
		var in socketInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("chat socket read error", slog.String("error", err.Error()))
			}
			return
		}
		if in.State != nil {
			state = *in.State
		}

		var out socketOutbound
		switch in.Type {
		case "message":
			result := h.engine.ProcessMessage(c.Request.Context(), in.Message, state)
			state = result.NewState
			out = socketOutbound{
				Type:     "reply",
				Reply:    result.Reply,
				Filters:  &result.Filters,
				NewState: state,
			}

		case "feedback":
			if in.ResultsCount == nil || *in.ResultsCount < 0 {
				out = socketOutbound{Type: "error", Error: "resultsCount este obligatoriu", NewState: state}
				break
			}
			result := h.engine.GenerateFeedback(c.Request.Context(), *in.ResultsCount, state.Filters, state)
			state = result.NewState
			out = socketOutbound{
				Type:     "feedback",
				Reply:    result.FeedbackMessage,
				Options:  result.Options,
				NewState: state,
			}

		case "feedback_response":
			result := h.engine.ProcessFeedbackResponse(c.Request.Context(), in.FeedbackResponse, state)
			state = result.NewState
			out = socketOutbound{
				Type:     "reply",
				Reply:    result.Reply,
				Action:   result.Action,
				NewState: state,
			}

		default:
			out = socketOutbound{Type: "error", Error: "tip de mesaj necunoscut", NewState: state}
		}

		conn.SetWriteDeadline(time.Now().Add(socketWriteTimeout))
		if err := conn.WriteJSON(out); err != nil {
			logger.Warn("chat socket write error", slog.String("error", err.Error()))
			return
		}
	}
}
