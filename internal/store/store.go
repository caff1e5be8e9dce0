// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

// Package store persists the lunch catalog in BadgerDB: venues, persons and
// their tags, both vote ledgers, lunch occasions with participants, decided
// venues, and visit history. It implements lunch.DataProvider.
package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Key prefixes for BadgerDB storage.
const (
	venueKeyPrefix        = "venue:"
	venueNameKeyPrefix    = "venue_name:"
	personKeyPrefix       = "person:"
	personNameKeyPrefix   = "person_name:"
	generalVoteKeyPrefix  = "vote:general:"
	occasionVoteKeyPrefix = "vote:occasion:"
	occasionKeyPrefix     = "occasion:"
	participantKeyPrefix  = "participant:"
	decisionKeyPrefix     = "decision:"
	visitKeyPrefix        = "visit:"

	latestOccasionKey = "occasion_latest"
)

// dateKeyFormat renders occasion dates inside keys.
const dateKeyFormat = "2006-01-02"

// Store errors.
var (
	// ErrPlaceNotFound indicates a venue name or ID that does not
	// resolve in the catalog.
	ErrPlaceNotFound = errors.New("place not found")

	// ErrPlaceExists indicates an attempt to create a venue whose name
	// is already taken.
	ErrPlaceExists = errors.New("place already exists")

	// ErrPersonNotFound indicates a person name or ID that does not
	// resolve.
	ErrPersonNotFound = errors.New("person not found")

	// ErrPersonExists indicates an attempt to create a person whose name
	// is already taken.
	ErrPersonExists = errors.New("person already exists")

	// ErrNoLunchTime indicates no lunch occasion has been created yet.
	ErrNoLunchTime = errors.New("no lunch time exists")

	// ErrLunchTimeExists indicates an occasion already exists for the
	// requested date.
	ErrLunchTimeExists = errors.New("lunch time already exists")

	// ErrNoDecision indicates no venue has been decided for the occasion.
	ErrNoDecision = errors.New("no lunch place decided")
)

// Options configures the store.
type Options struct {
	// Path is the directory for the Badger database files. Ignored when
	// InMemory is set.
	Path string

	// InMemory runs Badger without disk persistence. Used by tests.
	InMemory bool
}

// Store is a BadgerDB-backed repository for the lunch catalog. Safe for
// concurrent use; Badger transactions provide isolation.
type Store struct {
	db        *badger.DB
	venueSeq  *badger.Sequence
	personSeq *badger.Sequence
	logger    zerolog.Logger
}

// sequence bandwidth: IDs are handed out in small leases since churn on the
// catalog is low.
const sequenceBandwidth = 16

// Open opens or creates the store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(opts Options, logger zerolog.Logger) (*Store, error) {
	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		badgerOpts = badger.DefaultOptions(opts.Path)
	}
	badgerOpts = badgerOpts.WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	venueSeq, err := db.GetSequence([]byte("seq:venue"), sequenceBandwidth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("venue sequence: %w", err)
	}
	personSeq, err := db.GetSequence([]byte("seq:person"), sequenceBandwidth)
	if err != nil {
		_ = venueSeq.Release()
		_ = db.Close()
		return nil, fmt.Errorf("person sequence: %w", err)
	}

	return &Store{
		db:        db,
		venueSeq:  venueSeq,
		personSeq: personSeq,
		logger:    logger.With().Str("component", "store").Logger(),
	}, nil
}

// Close releases ID sequences and closes the database.
func (s *Store) Close() error {
	if err := s.venueSeq.Release(); err != nil {
		s.logger.Warn().Err(err).Msg("release venue sequence")
	}
	if err := s.personSeq.Release(); err != nil {
		s.logger.Warn().Err(err).Msg("release person sequence")
	}
	return s.db.Close()
}

// nextID draws the next identifier from a sequence. IDs start at 1.
func nextID(seq *badger.Sequence) (int, error) {
	n, err := seq.Next()
	if err != nil {
		return 0, fmt.Errorf("next sequence value: %w", err)
	}
	return int(n) + 1, nil
}

// venueKey returns the primary key for a venue ID.
func venueKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%08d", venueKeyPrefix, id))
}

// personKey returns the primary key for a person ID.
func personKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%08d", personKeyPrefix, id))
}
