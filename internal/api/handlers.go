// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/racasse/raclette/internal/lunch"
	"github.com/racasse/raclette/internal/service"
)

// Handler holds the HTTP handlers for the lunch API.
type Handler struct {
	svc    *service.Service
	logger zerolog.Logger
}

// NewHandler creates the API handlers.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(svc *service.Service, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

// ListPlaces returns the venue catalog.
func (h *Handler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := h.svc.GetAllPlaces(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, places)
}

// AddPlace creates a venue.
func (h *Handler) AddPlace(w http.ResponseWriter, r *http.Request) {
	var req addPlaceRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	place, err := h.svc.AddPlace(r.Context(), req.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusCreated, place)
}

// GetPlace returns a venue by name.
func (h *Handler) GetPlace(w http.ResponseWriter, r *http.Request) {
	place, err := h.svc.GetPlace(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, place)
}

// AddPlaceTag tags a venue.
func (h *Handler) AddPlaceTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	place, err := h.svc.AddPlaceTag(r.Context(), chi.URLParam(r, "name"), req.Tag)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, place)
}

// RemovePlaceTag removes a tag from a venue.
func (h *Handler) RemovePlaceTag(w http.ResponseWriter, r *http.Request) {
	place, err := h.svc.RemovePlaceTag(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "tag"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, place)
}

// ListPersons returns everyone known to the catalog.
func (h *Handler) ListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.svc.GetAllPersons(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, persons)
}

// AddPerson creates a person.
func (h *Handler) AddPerson(w http.ResponseWriter, r *http.Request) {
	var req addPersonRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	person, err := h.svc.AddPerson(r.Context(), req.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusCreated, person)
}

// GetPerson returns a person by name.
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	person, err := h.svc.GetPerson(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, person)
}

// AddPersonTag adds a required or preferred tag to a person.
func (h *Handler) AddPersonTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	tagType, err := lunch.ParseTagType(req.Type)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, codeValidation, "type must be one of: required preferred", nil)
		return
	}

	person, err := h.svc.AddPersonTag(r.Context(), chi.URLParam(r, "name"), req.Tag, tagType)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, person)
}

// RemovePersonTag removes a required or preferred tag from a person. The tag
// type is passed as a query parameter.
func (h *Handler) RemovePersonTag(w http.ResponseWriter, r *http.Request) {
	tagType, err := lunch.ParseTagType(r.URL.Query().Get("type"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, codeValidation, "type must be one of: required preferred", nil)
		return
	}

	person, err := h.svc.RemovePersonTag(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "tag"), tagType)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, person)
}

// CreateLunchTime opens today's lunch occasion.
func (h *Handler) CreateLunchTime(w http.ResponseWriter, r *http.Request) {
	lunchTime, err := h.svc.CreateLunchTimeForToday(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusCreated, map[string]string{
		"lunch_time": lunchTime.Format("2006-01-02"),
	})
}

// AddParticipant enrolls a person in the current occasion.
func (h *Handler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	person, err := h.svc.AddLunchParticipant(r.Context(), req.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, person)
}

// RemoveParticipant withdraws a person from the current occasion.
func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	person, err := h.svc.RemoveLunchParticipant(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, person)
}

// AddVote records a general-ledger vote.
func (h *Handler) AddVote(w http.ResponseWriter, r *http.Request) {
	h.handleVote(w, r, h.svc.AddVote)
}

// AddLunchVote records an occasion-ledger vote for the current occasion.
func (h *Handler) AddLunchVote(w http.ResponseWriter, r *http.Request) {
	h.handleVote(w, r, h.svc.AddLunchVote)
}

// handleVote decodes and dispatches a vote request to either ledger.
func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request,
	record func(ctx context.Context, person, place string, kind lunch.VoteKind) error,
) {
	var req voteRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	kind, err := lunch.ParseVoteKind(req.Kind)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, codeValidation, "kind must be one of: up down", nil)
		return
	}

	if err := record(r.Context(), req.Person, req.Place, kind); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, map[string]string{
		"person": req.Person,
		"place":  req.Place,
		"kind":   kind.String(),
	})
}

// Suggest computes a fresh ranking for the current occasion.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.SuggestLunchPlace(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, result)
}

// LatestSuggestion returns the last computed ranking without recomputing.
func (h *Handler) LatestSuggestion(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.LatestSuggestion()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, result)
}

// Status reports the current occasion: participants, catalog, a fresh
// suggestion, and the decided venue if any.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.GetLunchStatus(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, status)
}

// Decide commits a lunch decision: the named venue, or the top of the latest
// suggestion when no name is given.
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	var (
		venue lunch.Venue
		err   error
	)
	if req.Place == "" {
		venue, err = h.svc.DecideSuggestedLunchPlace(r.Context())
	} else {
		venue, err = h.svc.DecideSpecificLunchPlace(r.Context(), req.Place)
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, venue)
}
