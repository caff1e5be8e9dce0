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

// dateKey renders an occasion date for use inside keys. Occasions are
// day-granular; any time-of-day component is dropped.
func dateKey(date time.Time) string {
	return date.Format(dateKeyFormat)
}

// CreateLunchTime opens a lunch occasion for the given date. At most one
// occasion exists per date.
func (s *Store) CreateLunchTime(ctx context.Context, date time.Time) error {
	day := dateKey(date)
	key := []byte(occasionKeyPrefix + day)

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("occasion %s: %w", day, ErrLunchTimeExists)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check occasion: %w", err)
		}

		if err := txn.Set(key, []byte(day)); err != nil {
			return fmt.Errorf("set occasion: %w", err)
		}
		return txn.Set([]byte(latestOccasionKey), []byte(day))
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("date", day).Msg("lunch time created")
	return nil
}

// LatestLunchTime returns the date of the most recently created occasion.
func (s *Store) LatestLunchTime(ctx context.Context) (time.Time, error) {
	var date time.Time

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(latestOccasionKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoLunchTime
		}
		if err != nil {
			return fmt.Errorf("get latest occasion: %w", err)
		}
		return item.Value(func(val []byte) error {
			parsed, err := time.Parse(dateKeyFormat, string(val))
			if err != nil {
				return fmt.Errorf("parse occasion date: %w", err)
			}
			date = parsed
			return nil
		})
	})
	if err != nil {
		return time.Time{}, err
	}
	return date, nil
}

// HasLunchTime reports whether an occasion exists for the given date.
func (s *Store) HasLunchTime(ctx context.Context, date time.Time) (bool, error) {
	exists := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(occasionKeyPrefix + dateKey(date)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})
	return exists, err
}

// participantKey addresses one person's membership in one occasion.
func participantKey(date time.Time, personID int) []byte {
	return []byte(fmt.Sprintf("%s%s:%08d", participantKeyPrefix, dateKey(date), personID))
}

// AddParticipant enrolls a person in the occasion. The person must exist.
// Enrolling twice is a no-op.
func (s *Store) AddParticipant(ctx context.Context, date time.Time, personID int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := getPersonRecord(txn, personID); err != nil {
			return err
		}
		return txn.Set(participantKey(date, personID), []byte(strconv.Itoa(personID)))
	})
}

// RemoveParticipant withdraws a person from the occasion and discards their
// occasion votes: a withdrawn voice no longer counts for that day.
func (s *Store) RemoveParticipant(ctx context.Context, date time.Time, personID int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(participantKey(date, personID)); err != nil {
			return fmt.Errorf("delete participant: %w", err)
		}

		prefix := []byte(fmt.Sprintf("%s%s:%08d:", occasionVoteKeyPrefix, dateKey(date), personID))
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		var stale [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("delete occasion vote: %w", err)
			}
		}
		return nil
	})
}

// IsParticipant reports whether the person is enrolled in the occasion.
func (s *Store) IsParticipant(ctx context.Context, date time.Time, personID int) (bool, error) {
	enrolled := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(participantKey(date, personID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		enrolled = true
		return nil
	})
	return enrolled, err
}

// participantIDs lists the IDs of everyone enrolled in the occasion.
func participantIDs(txn *badger.Txn, date time.Time) ([]int, error) {
	var ids []int

	prefix := []byte(participantKeyPrefix + dateKey(date) + ":")
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := it.Item().Value(func(val []byte) error {
			id, err := strconv.Atoi(string(val))
			if err != nil {
				return fmt.Errorf("parse participant id: %w", err)
			}
			ids = append(ids, id)
			return nil
		}); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// SetOccasionVote upserts an occasion-ledger vote keyed by
// (date, voter, venue): a participant holds at most one vote per venue per
// occasion, and the newest write wins.
func (s *Store) SetOccasionVote(ctx context.Context, vote lunch.Vote) error {
	if vote.IsGeneral() {
		return fmt.Errorf("occasion vote requires a date")
	}

	data, err := json.Marshal(&vote)
	if err != nil {
		return fmt.Errorf("marshal vote: %w", err)
	}

	key := []byte(fmt.Sprintf("%s%s:%08d:%08d",
		occasionVoteKeyPrefix, dateKey(vote.Occasion), vote.VoterID, vote.VenueID))
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// GetDecision returns the venue decided for the occasion.
func (s *Store) GetDecision(ctx context.Context, date time.Time) (lunch.Venue, error) {
	var venue lunch.Venue

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(decisionKeyPrefix + dateKey(date)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("occasion %s: %w", dateKey(date), ErrNoDecision)
		}
		if err != nil {
			return fmt.Errorf("get decision: %w", err)
		}

		var venueID int
		if err := item.Value(func(val []byte) error {
			venueID, err = strconv.Atoi(string(val))
			return err
		}); err != nil {
			return fmt.Errorf("parse decision: %w", err)
		}

		record, err := getVenueRecord(txn, venueID)
		if err != nil {
			return err
		}
		venue = record.toVenue()
		return attachGeneralVotes(txn, &venue)
	})
	if err != nil {
		return lunch.Venue{}, err
	}
	return venue, nil
}
