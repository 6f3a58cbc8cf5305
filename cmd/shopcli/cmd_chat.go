// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AleutianAI/AleutianCommerce/services/shop/agent"
	"github.com/AleutianAI/AleutianCommerce/services/shop/catalog"
	"github.com/spf13/cobra"
)

// =============================================================================
// Wire Types
// =============================================================================

type messageRequest struct {
	Message string       `json:"message"`
	State   *agent.State `json:"state,omitempty"`
}

type messageResponse struct {
	Success  bool          `json:"success"`
	Reply    string        `json:"reply"`
	Filters  agent.Filters `json:"filters"`
	NewState agent.State   `json:"newState"`
	Error    string        `json:"error,omitempty"`
}

type searchRequest struct {
	Category          string `json:"category,omitempty"`
	Color             string `json:"color,omitempty"`
	Size              string `json:"size,omitempty"`
	MaxPrice          int    `json:"maxPrice,omitempty"`
	City              string `json:"city,omitempty"`
	SmallBusinessOnly bool   `json:"smallBusinessOnly"`
}

type searchResponse struct {
	Success  bool              `json:"success"`
	Count    int               `json:"count"`
	Products []catalog.Product `json:"products"`
	Error    string            `json:"error,omitempty"`
}

type feedbackRequest struct {
	ResultsCount int            `json:"resultsCount"`
	Filters      *agent.Filters `json:"filters,omitempty"`
	State        *agent.State   `json:"state,omitempty"`
}

type feedbackResponse struct {
	Success         bool           `json:"success"`
	FeedbackMessage string         `json:"feedbackMessage"`
	Options         []agent.Option `json:"options"`
	NewState        agent.State    `json:"newState"`
	Error           string         `json:"error,omitempty"`
}

type feedbackResponseRequest struct {
	FeedbackResponse string       `json:"feedbackResponse"`
	State            *agent.State `json:"state,omitempty"`
}

type feedbackResponseResponse struct {
	Success  bool         `json:"success"`
	Reply    string       `json:"reply"`
	Action   agent.Action `json:"action"`
	NewState agent.State  `json:"newState"`
	Error    string       `json:"error,omitempty"`
}

// =============================================================================
// Commands
// =============================================================================

func runAskCommand(_ *cobra.Command, args []string) {
	message := strings.Join(args, " ")
	fmt.Printf("You: %s\n---\n", message)

	state := agent.NewState()
	resp, err := sendMessage(getShopBaseURL(), message, &state)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Printf("Agent: %s\n", resp.Reply)
	if summary := describeFilters(resp.Filters); summary != "" {
		fmt.Printf("\nFilters: %s\n", summary)
	}
}

func runChatCommand(_ *cobra.Command, args []string) {
	if len(args) > 0 {
		fmt.Printf("Warning: Unexpected arguments ignored: %v\n", args)
	}

	baseURL := getShopBaseURL()
	fmt.Printf("Connected to %s. Type 'exit' to quit.\n\n", baseURL)

	state := agent.NewState()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" || input == "q" {
			fmt.Println("La revedere!")
			break
		}

		resp, err := sendMessage(baseURL, input, &state)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		state = resp.NewState
		fmt.Printf("Agent: %s\n", resp.Reply)

		// Once the agent starts searching, run the search and feedback
		// round-trip the web frontend would do.
		if state.Step == agent.StepShowingResults && !state.AwaitingFeedback {
			if err := runSearchRound(baseURL, &state); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
		}
		fmt.Println()
	}
}

// runSearchRound performs a search, prints the hits, then drives the
// feedback loop until the user is out of it. Filter-changing feedback
// actions start the round over with the new filters.
func runSearchRound(baseURL string, state *agent.State) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		products, err := sendSearch(baseURL, state.Filters)
		if err != nil {
			return err
		}
		printProducts(products)

		fb, err := sendFeedback(baseURL, len(products), state)
		if err != nil {
			return err
		}
		*state = fb.NewState
		fmt.Printf("Agent: %s\n", fb.FeedbackMessage)
		if len(fb.Options) == 0 {
			return nil
		}

		for i, opt := range fb.Options {
			fmt.Printf("  %d. %s\n", i+1, opt.Text)
		}

		fmt.Print("Choose an option (or press Enter to skip): ")
		if !scanner.Scan() {
			return nil
		}
		choice := strings.TrimSpace(scanner.Text())
		if choice == "" {
			return nil
		}
		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(fb.Options) {
			fmt.Println("Skipping feedback.")
			return nil
		}

		fr, err := sendFeedbackResponse(baseURL, fb.Options[idx-1].Value, state)
		if err != nil {
			return err
		}
		*state = fr.NewState
		fmt.Printf("Agent: %s\n", fr.Reply)

		switch fr.Action {
		case agent.ActionRemoveFilters, agent.ActionClearFilters:
			continue
		}
		return nil
	}
}

func printProducts(products []catalog.Product) {
	if len(products) == 0 {
		return
	}
	fmt.Printf("\nFound %d product(s):\n", len(products))
	for _, p := range products {
		fmt.Printf("  - %s (%s, %s) — %.2f %s — %s, %s\n",
			p.Name, p.Color, strings.Join(p.Sizes, "/"),
			float64(p.Price)/100, p.Currency, p.VendorName, p.City)
	}
	fmt.Println()
}

// describeFilters renders the set filters for terminal display.
func describeFilters(f agent.Filters) string {
	var parts []string
	if f.Category != "" {
		parts = append(parts, "category="+f.Category)
	}
	if f.Color != "" {
		parts = append(parts, "color="+f.Color)
	}
	if f.Size != "" {
		parts = append(parts, "size="+f.Size)
	}
	if f.MaxPrice > 0 {
		parts = append(parts, fmt.Sprintf("maxPrice=%d", f.MaxPrice))
	}
	if f.City != "" {
		parts = append(parts, "city="+f.City)
	}
	return strings.Join(parts, ", ")
}

// =============================================================================
// HTTP Helpers
// =============================================================================

var httpClient = &http.Client{Timeout: 30 * time.Second}

func postJSON(url string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	resp, err := httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("shop server unavailable at %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(data))
	}
	return json.Unmarshal(data, result)
}

func sendMessage(baseURL, message string, state *agent.State) (*messageResponse, error) {
	var resp messageResponse
	err := postJSON(baseURL+"/api/agent/message", messageRequest{Message: message, State: state}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func sendSearch(baseURL string, f agent.Filters) ([]catalog.Product, error) {
	var resp searchResponse
	req := searchRequest{
		Category:          f.Category,
		Color:             f.Color,
		Size:              f.Size,
		MaxPrice:          f.MaxPrice,
		City:              f.City,
		SmallBusinessOnly: f.SmallBusinessOnly,
	}
	if err := postJSON(baseURL+"/api/products/search", req, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func sendFeedback(baseURL string, resultsCount int, state *agent.State) (*feedbackResponse, error) {
	var resp feedbackResponse
	req := feedbackRequest{ResultsCount: resultsCount, Filters: &state.Filters, State: state}
	if err := postJSON(baseURL+"/api/agent/feedback", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func sendFeedbackResponse(baseURL, option string, state *agent.State) (*feedbackResponseResponse, error) {
	var resp feedbackResponseResponse
	req := feedbackResponseRequest{FeedbackResponse: option, State: state}
	if err := postJSON(baseURL+"/api/agent/feedback-response", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
