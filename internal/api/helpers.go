// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/racasse/raclette/internal/logging"
	"github.com/racasse/raclette/internal/service"
	"github.com/racasse/raclette/internal/validation"
)

// maxRequestBody bounds JSON request bodies.
const maxRequestBody = 1 << 20

// sanitizeLogValue strips control characters so request-derived strings
// cannot forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *APIResponse) {
	response.Metadata.Timestamp = time.Now()
	response.Metadata.RequestID = requestIDFrom(r.Context())

	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondData sends a successful response wrapping the payload.
func respondData(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respondJSON(w, r, status, &APIResponse{Status: "ok", Data: data})
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}

	respondJSON(w, r, status, &APIResponse{
		Status: "error",
		Error:  &APIError{Code: code, Message: message},
	})
}

// respondServiceError translates an actions-layer failure: user-facing
// messages become 4xx responses with the message verbatim, anything else is
// an opaque 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var userErr *service.UserError
	if errors.As(err, &userErr) {
		respondError(w, r, http.StatusUnprocessableEntity, codeRejected, userErr.Message, nil)
		return
	}
	respondError(w, r, http.StatusInternalServerError, codeInternal, "internal error", err)
}

// decodeRequest parses and validates a JSON request body. Writes the error
// response itself and reports whether decoding succeeded.
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, r, http.StatusBadRequest, codeBadRequest, "malformed JSON body", nil)
		return false
	}

	if verr := validation.ValidateStruct(v); verr != nil {
		apiErr := verr.ToAPIError()
		respondJSON(w, r, http.StatusBadRequest, &APIResponse{
			Status: "error",
			Error: &APIError{
				Code:    codeValidation,
				Message: apiErr.Message,
				Details: apiErr.Details,
			},
		})
		return false
	}
	return true
}
