// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command shopcli talks to a running shop server from the terminal.
//
// Usage:
//
//	shopcli ask "vreau un tricou portocaliu"
//	shopcli chat
//	SHOP_URL=http://localhost:9090 shopcli chat
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// serverURL holds the --server flag value.
var serverURL string

func main() {
	rootCmd := &cobra.Command{
		Use:   "shopcli",
		Short: "Terminal client for the Aleutian Commerce shopping agent",
		Long: `shopcli runs the conversational shopping flow against a running
shop server: send a single message, or hold a full conversation with
filter extraction, result feedback, and refinement.`,
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"Base URL of the shop server (default $SHOP_URL or http://localhost:3000)")

	askCmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Send one message to the shopping agent",
		Args:  cobra.MinimumNArgs(1),
		Run:   runAskCommand,
	}

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation with the shopping agent",
		Run:   runChatCommand,
	}

	rootCmd.AddCommand(askCmd, chatCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getShopBaseURL resolves the server address from the --server flag, the
// SHOP_URL environment variable, or the default local port, in that order.
func getShopBaseURL() string {
	if serverURL != "" {
		return serverURL
	}
	if url := os.Getenv("SHOP_URL"); url != "" {
		return url
	}
	return "http://localhost:3000"
}
