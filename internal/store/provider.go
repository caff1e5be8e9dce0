// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/racasse/raclette/internal/lunch"
)

// The engine-facing side of the store. Store satisfies lunch.DataProvider so
// the engine can hydrate snapshots and persist decisions without importing
// this package.

var _ lunch.DataProvider = (*Store)(nil)

// GetVenues returns the whole catalog with general vote ledgers attached.
func (s *Store) GetVenues(ctx context.Context) ([]lunch.Venue, error) {
	return s.ListPlaces(ctx)
}

// GetVenue returns a venue by ID. An unresolved ID yields an error wrapping
// lunch.ErrUnknownVenue.
func (s *Store) GetVenue(ctx context.Context, id int) (lunch.Venue, error) {
	venue, err := s.GetPlace(ctx, id)
	if errors.Is(err, ErrPlaceNotFound) {
		return lunch.Venue{}, fmt.Errorf("venue %d: %w", id, lunch.ErrUnknownVenue)
	}
	if err != nil {
		return lunch.Venue{}, err
	}
	return venue, nil
}

// GetParticipants returns the occasion's participants, hydrated with visit
// history.
func (s *Store) GetParticipants(ctx context.Context, date time.Time) ([]lunch.Participant, error) {
	var participants []lunch.Participant

	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := participantIDs(txn, date)
		if err != nil {
			return err
		}

		participants = make([]lunch.Participant, 0, len(ids))
		for _, id := range ids {
			record, err := getPersonRecord(txn, id)
			if err != nil {
				return err
			}
			p := record.toParticipant()
			p.Visits, err = loadVisits(txn, id)
			if err != nil {
				return err
			}
			participants = append(participants, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// GetOccasionVotes returns the occasion's votes across all venues, limited to
// the given voters.
func (s *Store) GetOccasionVotes(ctx context.Context, date time.Time, voterIDs []int) ([]lunch.Vote, error) {
	voters := make(map[int]struct{}, len(voterIDs))
	for _, id := range voterIDs {
		voters[id] = struct{}{}
	}

	var votes []lunch.Vote
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(occasionVoteKeyPrefix + dateKey(date) + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var vote lunch.Vote
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &vote)
			}); err != nil {
				return fmt.Errorf("unmarshal vote: %w", err)
			}
			if _, ok := voters[vote.VoterID]; ok {
				votes = append(votes, vote)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return votes, nil
}

// SetDecision records the chosen venue for the occasion and marks a visit for
// every participant, feeding future recency scoring. Idempotent upsert keyed
// by date.
func (s *Store) SetDecision(ctx context.Context, date time.Time, venueID int) error {
	day := dateKey(date)

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := getVenueRecord(txn, venueID); err != nil {
			return err
		}

		key := []byte(decisionKeyPrefix + day)
		if err := txn.Set(key, []byte(strconv.Itoa(venueID))); err != nil {
			return fmt.Errorf("set decision: %w", err)
		}

		ids, err := participantIDs(txn, date)
		if err != nil {
			return err
		}
		for _, personID := range ids {
			if err := txn.Set(visitKey(personID, venueID), []byte(day)); err != nil {
				return fmt.Errorf("set visit: %w", err)
			}
		}
		return nil
	})
}
