// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package agent

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: "agent",
		Name:      "messages_total",
		Help:      "Processed chat messages by dialogue branch",
	}, []string{"branch"})

	extractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: "agent",
		Name:      "extractions_total",
		Help:      "Filter dimensions detected in messages",
	}, []string{"dimension"})

	feedbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: "agent",
		Name:      "feedback_total",
		Help:      "Feedback prompts generated by result bucket",
	}, []string{"bucket"})

	feedbackResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: "agent",
		Name:      "feedback_responses_total",
		Help:      "Feedback option responses by option token",
	}, []string{"option"})
)

func recordMessage(branch string) {
	messagesTotal.WithLabelValues(branch).Inc()
}

func recordExtraction(ex Extraction) {
	if ex.FoundCategory {
		extractionsTotal.WithLabelValues("category").Inc()
	}
	if ex.FoundColor {
		extractionsTotal.WithLabelValues("color").Inc()
	}
	if ex.FoundSize {
		extractionsTotal.WithLabelValues("size").Inc()
	}
	if ex.FoundCity {
		extractionsTotal.WithLabelValues("city").Inc()
	}
	if ex.FoundBudget {
		extractionsTotal.WithLabelValues("budget").Inc()
	}
}

func recordFeedback(bucket string) {
	feedbackTotal.WithLabelValues(bucket).Inc()
}

func recordFeedbackResponse(option string) {
	feedbackResponsesTotal.WithLabelValues(option).Inc()
}
