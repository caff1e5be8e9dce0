// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package lunch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Note: this package has no dependencies on other internal packages. The
// DataProvider interface lets the store integrate without circular imports.

// DataProvider supplies fully hydrated snapshots to the engine and persists
// decisions. Typically implemented by the store package.
type DataProvider interface {
	// GetVenues returns the whole venue catalog with general vote
	// ledgers attached.
	GetVenues(ctx context.Context) ([]Venue, error)

	// GetVenue returns a venue by ID. Returns an error wrapping
	// ErrUnknownVenue if the ID does not resolve.
	GetVenue(ctx context.Context, id int) (Venue, error)

	// GetParticipants returns the participants of the given occasion,
	// hydrated with general votes and visit history.
	GetParticipants(ctx context.Context, date time.Time) ([]Participant, error)

	// GetOccasionVotes returns the occasion-scoped votes for the given
	// date, limited to the given voters.
	GetOccasionVotes(ctx context.Context, date time.Time, voterIDs []int) ([]Vote, error)

	// SetDecision records the chosen venue for the occasion. Idempotent
	// upsert keyed by date.
	SetDecision(ctx context.Context, date time.Time, venueID int) error
}

// Engine computes ranked lunch suggestions and commits decisions. It is safe
// for concurrent use: the latest-suggestion slot is guarded by a lock so
// readers always observe a fully formed result.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	provider DataProvider

	// latest is the most recently computed suggestion, overwritten
	// wholesale on every Suggest. It has no expiry: it is "the last
	// suggestion anyone asked for", whatever day it was computed for.
	latestMu sync.RWMutex
	latest   *SuggestResult
}

// NewEngine creates a decision engine with the given scoring weights.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "lunch").Logger(),
	}, nil
}

// SetDataProvider sets the provider used for snapshots and decisions.
func (e *Engine) SetDataProvider(p DataProvider) {
	e.provider = p
}

// Config returns a copy of the engine's scoring configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Rank filters, scores, and orders the snapshot's venues. Pure: identical
// snapshots produce identical results, and the latest-suggestion slot is
// untouched.
//
//nolint:gocritic // hugeParam: snap passed by value for immutability
func (e *Engine) Rank(snap Snapshot) *SuggestResult {
	occasionUp, occasionDown := groupOccasionVotes(snap.OccasionVotes)

	scores := make([]PlaceScore, 0, len(snap.Venues))
	for i := range snap.Venues {
		venue := snap.Venues[i]
		if !venue.Accepted(snap.Participants) {
			continue
		}
		sc := buildScoringContext(snap, venue.ID, occasionUp, occasionDown)
		scores = append(scores, PlaceScore{
			Venue: venue,
			Score: venue.Score(sc, e.config),
		})
	}

	// Descending by score; exact ties break ascending by name so the
	// ranking is a strict total order (names are unique).
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Venue.Name < scores[j].Venue.Name
	})

	return &SuggestResult{Date: snap.Date, Scores: scores}
}

// buildScoringContext assembles the venue-scoped scoring input: this
// occasion's votes for the venue and each participant's most recent visit to
// it. Rebuilt per venue, never shared.
//
//nolint:gocritic // hugeParam: snap passed by value for immutability
func buildScoringContext(snap Snapshot, venueID int, occasionUp, occasionDown map[int][]Vote) ScoringContext {
	visits := make(map[int]time.Time, len(snap.Participants))
	for i := range snap.Participants {
		p := &snap.Participants[i]
		if last, ok := p.Visits[venueID]; ok {
			visits[p.ID] = last
		}
	}

	return ScoringContext{
		Date:               snap.Date,
		Participants:       snap.Participants,
		OccasionUpVotes:    occasionUp[venueID],
		OccasionDownVotes:  occasionDown[venueID],
		VisitByParticipant: visits,
	}
}

// groupOccasionVotes indexes occasion votes by venue and kind.
func groupOccasionVotes(votes []Vote) (up, down map[int][]Vote) {
	up = make(map[int][]Vote)
	down = make(map[int][]Vote)
	for _, v := range votes {
		switch v.Kind {
		case VoteUp:
			up[v.VenueID] = append(up[v.VenueID], v)
		case VoteDown:
			down[v.VenueID] = append(down[v.VenueID], v)
		}
	}
	return up, down
}

// Suggest loads the occasion's snapshot, ranks it, and stores the result as
// the latest suggestion.
func (e *Engine) Suggest(ctx context.Context, date time.Time) (*SuggestResult, error) {
	snap, err := e.loadSnapshot(ctx, date)
	if err != nil {
		return nil, err
	}

	result := e.Rank(snap)
	e.storeLatest(result)

	e.logger.Debug().
		Time("date", date).
		Int("venues", len(snap.Venues)).
		Int("participants", len(snap.Participants)).
		Int("ranked", len(result.Scores)).
		Msg("suggestion computed")

	return result, nil
}

// loadSnapshot hydrates the inputs for one suggestion computation.
func (e *Engine) loadSnapshot(ctx context.Context, date time.Time) (Snapshot, error) {
	if e.provider == nil {
		return Snapshot{}, fmt.Errorf("data provider not set")
	}

	venues, err := e.provider.GetVenues(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get venues: %w", err)
	}

	participants, err := e.provider.GetParticipants(ctx, date)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get participants: %w", err)
	}

	var occasionVotes []Vote
	if len(participants) > 0 {
		ids := make([]int, len(participants))
		for i := range participants {
			ids[i] = participants[i].ID
		}
		occasionVotes, err = e.provider.GetOccasionVotes(ctx, date, ids)
		if err != nil {
			return Snapshot{}, fmt.Errorf("get occasion votes: %w", err)
		}
	}

	return Snapshot{
		Date:          date,
		Venues:        venues,
		Participants:  participants,
		OccasionVotes: occasionVotes,
	}, nil
}

// storeLatest overwrites the latest-suggestion slot.
func (e *Engine) storeLatest(result *SuggestResult) {
	e.latestMu.Lock()
	e.latest = result
	e.latestMu.Unlock()
}

// LatestSuggestion returns the most recently computed suggestion, or false
// if none has been computed yet.
func (e *Engine) LatestSuggestion() (*SuggestResult, bool) {
	e.latestMu.RLock()
	defer e.latestMu.RUnlock()
	if e.latest == nil {
		return nil, false
	}
	return e.latest, true
}

// DecideSuggested commits the top of the latest suggestion as the occasion's
// decided venue. Fails with ErrNoSuggestion if no suggestion has been
// computed or the latest ranking is empty.
func (e *Engine) DecideSuggested(ctx context.Context, date time.Time) (Venue, error) {
	latest, ok := e.LatestSuggestion()
	if !ok {
		return Venue{}, ErrNoSuggestion
	}
	top, ok := latest.Top()
	if !ok {
		return Venue{}, ErrNoSuggestion
	}

	if err := e.commitDecision(ctx, date, top.Venue); err != nil {
		return Venue{}, err
	}
	return top.Venue, nil
}

// DecideSpecific commits an explicitly named venue, bypassing scoring
// entirely: an explicit human choice always overrides the ranking. Fails
// with ErrUnknownVenue if the ID does not resolve.
func (e *Engine) DecideSpecific(ctx context.Context, date time.Time, venueID int) (Venue, error) {
	if e.provider == nil {
		return Venue{}, fmt.Errorf("data provider not set")
	}

	venue, err := e.provider.GetVenue(ctx, venueID)
	if err != nil {
		return Venue{}, err
	}

	if err := e.commitDecision(ctx, date, venue); err != nil {
		return Venue{}, err
	}
	return venue, nil
}

// commitDecision hands the chosen venue to the persistence collaborator.
//
//nolint:gocritic // hugeParam: venue passed by value for immutability
func (e *Engine) commitDecision(ctx context.Context, date time.Time, venue Venue) error {
	if e.provider == nil {
		return fmt.Errorf("data provider not set")
	}
	if err := e.provider.SetDecision(ctx, date, venue.ID); err != nil {
		return fmt.Errorf("set decision: %w", err)
	}

	e.logger.Info().
		Time("date", date).
		Int("venue_id", venue.ID).
		Str("venue", venue.Name).
		Msg("lunch place decided")

	return nil
}
