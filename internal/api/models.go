// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

// Package api exposes the lunch workflow over HTTP: venue and person
// management, lunch occasions, voting, suggestions, and decisions.
package api

import "time"

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response bookkeeping.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError is the error payload inside an APIResponse.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes returned by the API.
const (
	codeValidation = "VALIDATION_ERROR"
	codeBadRequest = "BAD_REQUEST"
	codeRejected   = "REQUEST_REJECTED"
	codeInternal   = "INTERNAL_ERROR"
)

// addPlaceRequest creates a venue.
type addPlaceRequest struct {
	Name string `json:"name" validate:"required"`
}

// addPersonRequest creates a person.
type addPersonRequest struct {
	Name string `json:"name" validate:"required"`
}

// tagRequest adds a tag to a venue or person. Type is only meaningful for
// persons.
type tagRequest struct {
	Tag  string `json:"tag" validate:"required"`
	Type string `json:"type,omitempty" validate:"omitempty,oneof=required preferred"`
}

// participantRequest enrolls or withdraws a lunch participant.
type participantRequest struct {
	Name string `json:"name" validate:"required"`
}

// voteRequest records a vote in either ledger.
type voteRequest struct {
	Person string `json:"person" validate:"required"`
	Place  string `json:"place" validate:"required"`
	Kind   string `json:"kind" validate:"required,oneof=up down"`
}

// decisionRequest commits a lunch decision. An empty Place takes the top of
// the latest suggestion.
type decisionRequest struct {
	Place string `json:"place,omitempty"`
}
