// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

// Package metrics provides Prometheus instrumentation for Raclette:
// suggestion computations, lunch decisions, vote activity, and API traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SuggestionsTotal counts suggestion computations.
	SuggestionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raclette_suggestions_total",
			Help: "Total number of lunch suggestion computations",
		},
	)

	// SuggestionDuration observes how long a suggestion computation takes.
	SuggestionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "raclette_suggestion_duration_seconds",
			Help:    "Duration of lunch suggestion computations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
	)

	// SuggestionCandidates observes how many venues survive the
	// eligibility filter per computation.
	SuggestionCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "raclette_suggestion_candidates",
			Help:    "Number of eligible venues per suggestion computation",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	// DecisionsTotal counts committed lunch decisions by path.
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raclette_decisions_total",
			Help: "Total number of committed lunch decisions",
		},
		[]string{"path"}, // "suggested" or "specific"
	)

	// VotesTotal counts recorded votes by ledger and kind.
	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raclette_votes_total",
			Help: "Total number of recorded votes",
		},
		[]string{"ledger", "kind"}, // ledger: "general" or "occasion"
	)

	// APIRequestsTotal counts API requests.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raclette_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	// APIRequestDuration observes API request latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "raclette_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "route"},
	)
)
