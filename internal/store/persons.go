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

// personRecord is the stored form of a person. Visit history lives under its
// own keys and is joined in where needed.
type personRecord struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	RequiredTags  []string `json:"required_tags"`
	PreferredTags []string `json:"preferred_tags"`
}

// toParticipant converts a record to a domain participant without visit
// history.
func (r *personRecord) toParticipant() lunch.Participant {
	return lunch.Participant{
		ID:            r.ID,
		Name:          r.Name,
		RequiredTags:  lunch.NewTagSet(r.RequiredTags...),
		PreferredTags: lunch.NewTagSet(r.PreferredTags...),
	}
}

// AddPerson creates a person with a fresh ID. The name must be unique.
func (s *Store) AddPerson(ctx context.Context, name string) (lunch.Participant, error) {
	id, err := nextID(s.personSeq)
	if err != nil {
		return lunch.Participant{}, err
	}

	record := personRecord{ID: id, Name: name, RequiredTags: []string{}, PreferredTags: []string{}}
	data, err := json.Marshal(&record)
	if err != nil {
		return lunch.Participant{}, fmt.Errorf("marshal person: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		nameKey := []byte(personNameKeyPrefix + name)
		if _, err := txn.Get(nameKey); err == nil {
			return fmt.Errorf("person %q: %w", name, ErrPersonExists)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check name: %w", err)
		}

		if err := txn.Set(personKey(id), data); err != nil {
			return fmt.Errorf("set person: %w", err)
		}
		if err := txn.Set(nameKey, []byte(strconv.Itoa(id))); err != nil {
			return fmt.Errorf("set name index: %w", err)
		}
		return nil
	})
	if err != nil {
		return lunch.Participant{}, err
	}

	s.logger.Info().Int("person_id", id).Str("name", name).Msg("person added")
	return record.toParticipant(), nil
}

// GetPerson returns a person by ID, with visit history attached.
func (s *Store) GetPerson(ctx context.Context, id int) (lunch.Participant, error) {
	var person lunch.Participant

	err := s.db.View(func(txn *badger.Txn) error {
		record, err := getPersonRecord(txn, id)
		if err != nil {
			return err
		}
		person = record.toParticipant()
		person.Visits, err = loadVisits(txn, id)
		return err
	})
	if err != nil {
		return lunch.Participant{}, err
	}
	return person, nil
}

// GetPersonByName returns a person by name, with visit history attached.
func (s *Store) GetPersonByName(ctx context.Context, name string) (lunch.Participant, error) {
	var person lunch.Participant

	err := s.db.View(func(txn *badger.Txn) error {
		id, err := lookupName(txn, personNameKeyPrefix+name)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("person %q: %w", name, ErrPersonNotFound)
			}
			return err
		}
		record, err := getPersonRecord(txn, id)
		if err != nil {
			return err
		}
		person = record.toParticipant()
		person.Visits, err = loadVisits(txn, id)
		return err
	})
	if err != nil {
		return lunch.Participant{}, err
	}
	return person, nil
}

// ListPersons returns everyone known to the catalog, without visit history.
func (s *Store) ListPersons(ctx context.Context) ([]lunch.Participant, error) {
	var persons []lunch.Participant

	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(personKeyPrefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record personRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return fmt.Errorf("unmarshal person: %w", err)
			}
			persons = append(persons, record.toParticipant())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return persons, nil
}

// AddPersonTag adds a required or preferred tag to a person. Adding an
// existing tag is a no-op.
func (s *Store) AddPersonTag(ctx context.Context, id int, tag string, tagType lunch.TagType) error {
	return s.updatePersonRecord(id, func(r *personRecord) {
		tags := r.tagsOf(tagType)
		for _, t := range *tags {
			if t == tag {
				return
			}
		}
		*tags = append(*tags, tag)
	})
}

// RemovePersonTag removes a required or preferred tag from a person. Removing
// an absent tag is a no-op.
func (s *Store) RemovePersonTag(ctx context.Context, id int, tag string, tagType lunch.TagType) error {
	return s.updatePersonRecord(id, func(r *personRecord) {
		tags := r.tagsOf(tagType)
		kept := (*tags)[:0]
		for _, t := range *tags {
			if t != tag {
				kept = append(kept, t)
			}
		}
		*tags = kept
	})
}

// tagsOf selects the tag list for a tag type.
func (r *personRecord) tagsOf(tagType lunch.TagType) *[]string {
	if tagType == lunch.TagRequired {
		return &r.RequiredTags
	}
	return &r.PreferredTags
}

// updatePersonRecord applies a mutation to a stored person record.
func (s *Store) updatePersonRecord(id int, mutate func(*personRecord)) error {
	return s.db.Update(func(txn *badger.Txn) error {
		record, err := getPersonRecord(txn, id)
		if err != nil {
			return err
		}

		mutate(record)

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal person: %w", err)
		}
		return txn.Set(personKey(id), data)
	})
}

// getPersonRecord loads a person record by ID.
func getPersonRecord(txn *badger.Txn, id int) (*personRecord, error) {
	item, err := txn.Get(personKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("person %d: %w", id, ErrPersonNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}

	var record personRecord
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &record)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal person: %w", err)
	}
	return &record, nil
}

// visitKey addresses one person's latest visit to one venue.
func visitKey(personID, venueID int) []byte {
	return []byte(fmt.Sprintf("%s%08d:%08d", visitKeyPrefix, personID, venueID))
}

// loadVisits scans a person's visit history into a venue ID to date map.
func loadVisits(txn *badger.Txn, personID int) (map[int]time.Time, error) {
	visits := make(map[int]time.Time)

	prefix := []byte(fmt.Sprintf("%s%08d:", visitKeyPrefix, personID))
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		venueID, err := strconv.Atoi(string(item.Key()[len(prefix):]))
		if err != nil {
			return nil, fmt.Errorf("parse visit key: %w", err)
		}
		if err := item.Value(func(val []byte) error {
			visited, err := time.Parse(dateKeyFormat, string(val))
			if err != nil {
				return fmt.Errorf("parse visit date: %w", err)
			}
			visits[venueID] = visited
			return nil
		}); err != nil {
			return nil, err
		}
	}
	return visits, nil
}
