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

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/racasse/raclette/internal/lunch"
)

// venueRecord is the stored form of a venue. The general vote ledgers live
// under their own keys and are joined in on read.
type venueRecord struct {
	ID   int      `json:"id"`
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// toVenue converts a record to a domain venue without vote ledgers.
func (r *venueRecord) toVenue() lunch.Venue {
	return lunch.Venue{
		ID:   r.ID,
		Name: r.Name,
		Tags: lunch.NewTagSet(r.Tags...),
	}
}

// AddPlace creates a venue with a fresh ID. The name must be unique.
func (s *Store) AddPlace(ctx context.Context, name string) (lunch.Venue, error) {
	id, err := nextID(s.venueSeq)
	if err != nil {
		return lunch.Venue{}, err
	}

	record := venueRecord{ID: id, Name: name, Tags: []string{}}
	data, err := json.Marshal(&record)
	if err != nil {
		return lunch.Venue{}, fmt.Errorf("marshal venue: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		nameKey := []byte(venueNameKeyPrefix + name)
		if _, err := txn.Get(nameKey); err == nil {
			return fmt.Errorf("place %q: %w", name, ErrPlaceExists)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check name: %w", err)
		}

		if err := txn.Set(venueKey(id), data); err != nil {
			return fmt.Errorf("set venue: %w", err)
		}
		if err := txn.Set(nameKey, []byte(strconv.Itoa(id))); err != nil {
			return fmt.Errorf("set name index: %w", err)
		}
		return nil
	})
	if err != nil {
		return lunch.Venue{}, err
	}

	s.logger.Info().Int("venue_id", id).Str("name", name).Msg("place added")
	return record.toVenue(), nil
}

// GetPlace returns a venue by ID, hydrated with its general vote ledgers.
func (s *Store) GetPlace(ctx context.Context, id int) (lunch.Venue, error) {
	var venue lunch.Venue

	err := s.db.View(func(txn *badger.Txn) error {
		record, err := getVenueRecord(txn, id)
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

// GetPlaceByName returns a venue by name, hydrated with its general vote
// ledgers.
func (s *Store) GetPlaceByName(ctx context.Context, name string) (lunch.Venue, error) {
	var venue lunch.Venue

	err := s.db.View(func(txn *badger.Txn) error {
		id, err := lookupName(txn, venueNameKeyPrefix+name)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("place %q: %w", name, ErrPlaceNotFound)
			}
			return err
		}
		record, err := getVenueRecord(txn, id)
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

// ListPlaces returns the whole catalog, hydrated with general vote ledgers.
func (s *Store) ListPlaces(ctx context.Context) ([]lunch.Venue, error) {
	var venues []lunch.Venue

	err := s.db.View(func(txn *badger.Txn) error {
		records, err := scanVenueRecords(txn)
		if err != nil {
			return err
		}

		upByVenue, downByVenue, err := loadGeneralVotes(txn)
		if err != nil {
			return err
		}

		venues = make([]lunch.Venue, 0, len(records))
		for i := range records {
			venue := records[i].toVenue()
			venue.UpVotes = upByVenue[venue.ID]
			venue.DownVotes = downByVenue[venue.ID]
			venues = append(venues, venue)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return venues, nil
}

// AddPlaceTag adds a tag to a venue. Adding an existing tag is a no-op.
func (s *Store) AddPlaceTag(ctx context.Context, id int, tag string) error {
	return s.updateVenueRecord(id, func(r *venueRecord) {
		for _, t := range r.Tags {
			if t == tag {
				return
			}
		}
		r.Tags = append(r.Tags, tag)
	})
}

// RemovePlaceTag removes a tag from a venue. Removing an absent tag is a
// no-op.
func (s *Store) RemovePlaceTag(ctx context.Context, id int, tag string) error {
	return s.updateVenueRecord(id, func(r *venueRecord) {
		tags := r.Tags[:0]
		for _, t := range r.Tags {
			if t != tag {
				tags = append(tags, t)
			}
		}
		r.Tags = tags
	})
}

// SetGeneralVote upserts a general-ledger vote keyed by (voter, venue): a
// person holds at most one standing vote per venue.
func (s *Store) SetGeneralVote(ctx context.Context, vote lunch.Vote) error {
	data, err := json.Marshal(&vote)
	if err != nil {
		return fmt.Errorf("marshal vote: %w", err)
	}

	key := []byte(fmt.Sprintf("%s%08d:%08d", generalVoteKeyPrefix, vote.VoterID, vote.VenueID))
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// updateVenueRecord applies a mutation to a stored venue record.
func (s *Store) updateVenueRecord(id int, mutate func(*venueRecord)) error {
	return s.db.Update(func(txn *badger.Txn) error {
		record, err := getVenueRecord(txn, id)
		if err != nil {
			return err
		}

		mutate(record)

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal venue: %w", err)
		}
		return txn.Set(venueKey(id), data)
	})
}

// getVenueRecord loads a venue record by ID.
func getVenueRecord(txn *badger.Txn, id int) (*venueRecord, error) {
	item, err := txn.Get(venueKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("venue %d: %w", id, ErrPlaceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}

	var record venueRecord
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &record)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal venue: %w", err)
	}
	return &record, nil
}

// scanVenueRecords loads all venue records.
func scanVenueRecords(txn *badger.Txn) ([]venueRecord, error) {
	var records []venueRecord

	prefix := []byte(venueKeyPrefix)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var record venueRecord
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		}); err != nil {
			return nil, fmt.Errorf("unmarshal venue: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// loadGeneralVotes scans the general vote ledger and groups votes by venue
// and kind.
func loadGeneralVotes(txn *badger.Txn) (up, down map[int][]lunch.Vote, err error) {
	up = make(map[int][]lunch.Vote)
	down = make(map[int][]lunch.Vote)

	prefix := []byte(generalVoteKeyPrefix)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var vote lunch.Vote
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &vote)
		}); err != nil {
			return nil, nil, fmt.Errorf("unmarshal vote: %w", err)
		}
		switch vote.Kind {
		case lunch.VoteUp:
			up[vote.VenueID] = append(up[vote.VenueID], vote)
		case lunch.VoteDown:
			down[vote.VenueID] = append(down[vote.VenueID], vote)
		}
	}
	return up, down, nil
}

// attachGeneralVotes joins a single venue's general vote ledgers onto it.
func attachGeneralVotes(txn *badger.Txn, venue *lunch.Venue) error {
	up, down, err := loadGeneralVotes(txn)
	if err != nil {
		return err
	}
	venue.UpVotes = up[venue.ID]
	venue.DownVotes = down[venue.ID]
	return nil
}

// lookupName resolves a name-index key to an ID.
func lookupName(txn *badger.Txn, key string) (int, error) {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return 0, err
	}

	var id int
	err = item.Value(func(val []byte) error {
		parsed, err := strconv.Atoi(string(val))
		if err != nil {
			return fmt.Errorf("parse name index: %w", err)
		}
		id = parsed
		return nil
	})
	return id, err
}
