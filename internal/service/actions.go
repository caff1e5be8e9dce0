// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

// Package service orchestrates the lunch workflow: it resolves names against
// the store, drives the decision engine, and translates failures into the
// user-facing messages the API returns verbatim.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/racasse/raclette/internal/lunch"
	"github.com/racasse/raclette/internal/metrics"
	"github.com/racasse/raclette/internal/store"
)

// UserError is a failure whose message is meant for the end user, verbatim.
// The API layer maps these to 4xx responses; everything else is a 500.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// userErrorf builds a UserError from a format string.
func userErrorf(format string, args ...any) *UserError {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// Service is the actions layer between the API and the store/engine pair.
type Service struct {
	store  *store.Store
	engine *lunch.Engine
	logger zerolog.Logger

	// now is the clock used to resolve "today". Replaceable in tests.
	now func() time.Time
}

// New creates the actions layer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(st *store.Store, engine *lunch.Engine, logger zerolog.Logger) *Service {
	return &Service{
		store:  st,
		engine: engine,
		logger: logger.With().Str("component", "service").Logger(),
		now:    time.Now,
	}
}

// Status is a one-call snapshot of the current lunch occasion.
type Status struct {
	LunchTime    time.Time            `json:"lunch_time"`
	Participants []lunch.Participant  `json:"participants"`
	Places       []lunch.Venue        `json:"places"`
	Suggestion   *lunch.SuggestResult `json:"suggestion"`
	DecidedPlace *lunch.Venue         `json:"decided_place,omitempty"`

	// VotesByPlace groups today's occasion votes by venue ID.
	VotesByPlace map[int][]lunch.Vote `json:"votes_by_place"`
}

// GetPlace returns a venue by name.
func (s *Service) GetPlace(ctx context.Context, name string) (lunch.Venue, error) {
	venue, err := s.store.GetPlaceByName(ctx, name)
	if errors.Is(err, store.ErrPlaceNotFound) {
		return lunch.Venue{}, userErrorf("I know no place called '%s'", name)
	}
	return venue, err
}

// GetAllPlaces returns the whole venue catalog.
func (s *Service) GetAllPlaces(ctx context.Context) ([]lunch.Venue, error) {
	return s.store.ListPlaces(ctx)
}

// AddPlace creates a venue.
func (s *Service) AddPlace(ctx context.Context, name string) (lunch.Venue, error) {
	venue, err := s.store.AddPlace(ctx, name)
	if errors.Is(err, store.ErrPlaceExists) {
		return lunch.Venue{}, userErrorf("There is already a place called '%s'", name)
	}
	return venue, err
}

// GetPerson returns a person by name.
func (s *Service) GetPerson(ctx context.Context, name string) (lunch.Participant, error) {
	person, err := s.store.GetPersonByName(ctx, name)
	if errors.Is(err, store.ErrPersonNotFound) {
		return lunch.Participant{}, userErrorf("I know no person called '%s'", name)
	}
	return person, err
}

// GetAllPersons returns everyone known to the catalog.
func (s *Service) GetAllPersons(ctx context.Context) ([]lunch.Participant, error) {
	return s.store.ListPersons(ctx)
}

// AddPerson creates a person.
func (s *Service) AddPerson(ctx context.Context, name string) (lunch.Participant, error) {
	person, err := s.store.AddPerson(ctx, name)
	if errors.Is(err, store.ErrPersonExists) {
		return lunch.Participant{}, userErrorf("'%s' is already added", name)
	}
	return person, err
}

// CreateLunchTimeForToday opens today's lunch occasion.
func (s *Service) CreateLunchTimeForToday(ctx context.Context) (time.Time, error) {
	today := s.today()
	err := s.store.CreateLunchTime(ctx, today)
	if errors.Is(err, store.ErrLunchTimeExists) {
		return time.Time{}, userErrorf("There is already a lunch time for today (%s)", today.Format("2006-01-02"))
	}
	if err != nil {
		return time.Time{}, err
	}
	return today, nil
}

// AddLunchParticipant enrolls a person in the current occasion.
func (s *Service) AddLunchParticipant(ctx context.Context, name string) (lunch.Participant, error) {
	person, err := s.GetPerson(ctx, name)
	if err != nil {
		return lunch.Participant{}, err
	}
	lunchTime, err := s.currentLunchTime(ctx)
	if err != nil {
		return lunch.Participant{}, err
	}
	if err := s.store.AddParticipant(ctx, lunchTime, person.ID); err != nil {
		return lunch.Participant{}, err
	}
	return person, nil
}

// RemoveLunchParticipant withdraws a person from the current occasion,
// discarding their occasion votes.
func (s *Service) RemoveLunchParticipant(ctx context.Context, name string) (lunch.Participant, error) {
	person, err := s.GetPerson(ctx, name)
	if err != nil {
		return lunch.Participant{}, err
	}
	lunchTime, err := s.currentLunchTime(ctx)
	if err != nil {
		return lunch.Participant{}, err
	}
	if err := s.store.RemoveParticipant(ctx, lunchTime, person.ID); err != nil {
		return lunch.Participant{}, err
	}
	return person, nil
}

// GetLunchStatus reports the current occasion: participants, catalog,
// occasion votes grouped by venue, a fresh suggestion, and the decided venue
// if one is set.
func (s *Service) GetLunchStatus(ctx context.Context) (*Status, error) {
	lunchTime, err := s.currentLunchTime(ctx)
	if err != nil {
		return nil, err
	}

	participants, err := s.store.GetParticipants(ctx, lunchTime)
	if err != nil {
		return nil, err
	}
	places, err := s.store.ListPlaces(ctx)
	if err != nil {
		return nil, err
	}

	voterIDs := make([]int, len(participants))
	for i := range participants {
		voterIDs[i] = participants[i].ID
	}
	votes, err := s.store.GetOccasionVotes(ctx, lunchTime, voterIDs)
	if err != nil {
		return nil, err
	}
	votesByPlace := make(map[int][]lunch.Vote, len(votes))
	for _, vote := range votes {
		votesByPlace[vote.VenueID] = append(votesByPlace[vote.VenueID], vote)
	}

	suggestion, err := s.suggest(ctx, lunchTime)
	if err != nil {
		return nil, err
	}

	status := &Status{
		LunchTime:    lunchTime,
		Participants: participants,
		Places:       places,
		Suggestion:   suggestion,
		VotesByPlace: votesByPlace,
	}

	decided, err := s.store.GetDecision(ctx, lunchTime)
	switch {
	case err == nil:
		status.DecidedPlace = &decided
	case errors.Is(err, store.ErrNoDecision):
		// nothing decided yet
	default:
		return nil, err
	}
	return status, nil
}

// SuggestLunchPlace computes a fresh ranking for the current occasion.
func (s *Service) SuggestLunchPlace(ctx context.Context) (*lunch.SuggestResult, error) {
	lunchTime, err := s.currentLunchTime(ctx)
	if err != nil {
		return nil, err
	}
	return s.suggest(ctx, lunchTime)
}

// LatestSuggestion returns the last computed ranking without recomputing.
func (s *Service) LatestSuggestion() (*lunch.SuggestResult, error) {
	result, ok := s.engine.LatestSuggestion()
	if !ok {
		return nil, userErrorf("No place is suggested")
	}
	return result, nil
}

// suggest runs the engine and records instrumentation.
func (s *Service) suggest(ctx context.Context, lunchTime time.Time) (*lunch.SuggestResult, error) {
	start := time.Now()
	result, err := s.engine.Suggest(ctx, lunchTime)
	if err != nil {
		return nil, err
	}

	metrics.SuggestionsTotal.Inc()
	metrics.SuggestionDuration.Observe(time.Since(start).Seconds())
	metrics.SuggestionCandidates.Observe(float64(len(result.Scores)))
	return result, nil
}

// DecideSuggestedLunchPlace commits the top of the latest suggestion for the
// current occasion.
func (s *Service) DecideSuggestedLunchPlace(ctx context.Context) (lunch.Venue, error) {
	lunchTime, err := s.currentLunchTime(ctx)
	if err != nil {
		return lunch.Venue{}, err
	}

	venue, err := s.engine.DecideSuggested(ctx, lunchTime)
	if errors.Is(err, lunch.ErrNoSuggestion) {
		return lunch.Venue{}, userErrorf("No place is suggested")
	}
	if err != nil {
		return lunch.Venue{}, err
	}

	metrics.DecisionsTotal.WithLabelValues("suggested").Inc()
	return venue, nil
}

// DecideSpecificLunchPlace commits an explicitly named venue for the current
// occasion, bypassing the ranking.
func (s *Service) DecideSpecificLunchPlace(ctx context.Context, name string) (lunch.Venue, error) {
	place, err := s.GetPlace(ctx, name)
	if err != nil {
		return lunch.Venue{}, err
	}
	lunchTime, err := s.currentLunchTime(ctx)
	if err != nil {
		return lunch.Venue{}, err
	}

	venue, err := s.engine.DecideSpecific(ctx, lunchTime, place.ID)
	if err != nil {
		return lunch.Venue{}, err
	}

	metrics.DecisionsTotal.WithLabelValues("specific").Inc()
	return venue, nil
}

// AddVote records a general-ledger vote: a standing opinion on a venue,
// unscoped to any particular day.
func (s *Service) AddVote(ctx context.Context, personName, placeName string, kind lunch.VoteKind) error {
	person, err := s.GetPerson(ctx, personName)
	if err != nil {
		return err
	}
	place, err := s.GetPlace(ctx, placeName)
	if err != nil {
		return err
	}

	vote := lunch.Vote{VoterID: person.ID, VenueID: place.ID, Kind: kind}
	if err := s.store.SetGeneralVote(ctx, vote); err != nil {
		return err
	}

	metrics.VotesTotal.WithLabelValues("general", kind.String()).Inc()
	return nil
}

// AddLunchVote records an occasion-ledger vote for the current occasion. The
// voter must be enrolled as a participant.
func (s *Service) AddLunchVote(ctx context.Context, personName, placeName string, kind lunch.VoteKind) error {
	person, err := s.GetPerson(ctx, personName)
	if err != nil {
		return err
	}
	lunchTime, err := s.currentLunchTime(ctx)
	if err != nil {
		return err
	}

	enrolled, err := s.store.IsParticipant(ctx, lunchTime, person.ID)
	if err != nil {
		return err
	}
	if !enrolled {
		return userErrorf("%s must be a lunch participant to do lunch voting", personName)
	}

	place, err := s.GetPlace(ctx, placeName)
	if err != nil {
		return err
	}

	vote := lunch.Vote{VoterID: person.ID, VenueID: place.ID, Kind: kind, Occasion: lunchTime}
	if err := s.store.SetOccasionVote(ctx, vote); err != nil {
		return err
	}

	metrics.VotesTotal.WithLabelValues("occasion", kind.String()).Inc()
	return nil
}

// AddPlaceTag tags a venue.
func (s *Service) AddPlaceTag(ctx context.Context, name, tag string) (lunch.Venue, error) {
	place, err := s.GetPlace(ctx, name)
	if err != nil {
		return lunch.Venue{}, err
	}
	if err := s.store.AddPlaceTag(ctx, place.ID, tag); err != nil {
		return lunch.Venue{}, err
	}
	return s.store.GetPlace(ctx, place.ID)
}

// RemovePlaceTag removes a tag from a venue.
func (s *Service) RemovePlaceTag(ctx context.Context, name, tag string) (lunch.Venue, error) {
	place, err := s.GetPlace(ctx, name)
	if err != nil {
		return lunch.Venue{}, err
	}
	if err := s.store.RemovePlaceTag(ctx, place.ID, tag); err != nil {
		return lunch.Venue{}, err
	}
	return s.store.GetPlace(ctx, place.ID)
}

// AddPersonTag adds a required or preferred tag to a person.
func (s *Service) AddPersonTag(ctx context.Context, name, tag string, tagType lunch.TagType) (lunch.Participant, error) {
	person, err := s.GetPerson(ctx, name)
	if err != nil {
		return lunch.Participant{}, err
	}
	if err := s.store.AddPersonTag(ctx, person.ID, tag, tagType); err != nil {
		return lunch.Participant{}, err
	}
	return s.store.GetPerson(ctx, person.ID)
}

// RemovePersonTag removes a required or preferred tag from a person.
func (s *Service) RemovePersonTag(ctx context.Context, name, tag string, tagType lunch.TagType) (lunch.Participant, error) {
	person, err := s.GetPerson(ctx, name)
	if err != nil {
		return lunch.Participant{}, err
	}
	if err := s.store.RemovePersonTag(ctx, person.ID, tag, tagType); err != nil {
		return lunch.Participant{}, err
	}
	return s.store.GetPerson(ctx, person.ID)
}

// currentLunchTime resolves the occasion operations act on.
func (s *Service) currentLunchTime(ctx context.Context) (time.Time, error) {
	lunchTime, err := s.store.LatestLunchTime(ctx)
	if errors.Is(err, store.ErrNoLunchTime) {
		return time.Time{}, userErrorf("There is no lunch time yet")
	}
	return lunchTime, err
}

// today returns the current date truncated to day granularity, in UTC.
func (s *Service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
