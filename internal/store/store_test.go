// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/racasse/raclette/internal/lunch"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(Options{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return s
}

func testDate() time.Time {
	return time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
}

func TestAddPlaceRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.AddPlace(ctx, "pasta palace")
	if err != nil {
		t.Fatalf("AddPlace() error = %v", err)
	}
	if created.ID == 0 {
		t.Error("expected a non-zero venue ID")
	}

	byID, err := s.GetPlace(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetPlace() error = %v", err)
	}
	if byID.Name != "pasta palace" {
		t.Errorf("GetPlace().Name = %q, want pasta palace", byID.Name)
	}

	byName, err := s.GetPlaceByName(ctx, "pasta palace")
	if err != nil {
		t.Fatalf("GetPlaceByName() error = %v", err)
	}
	if byName.ID != created.ID {
		t.Errorf("GetPlaceByName().ID = %d, want %d", byName.ID, created.ID)
	}
}

func TestAddPlaceDuplicateName(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddPlace(ctx, "pasta palace"); err != nil {
		t.Fatalf("AddPlace() error = %v", err)
	}
	if _, err := s.AddPlace(ctx, "pasta palace"); !errors.Is(err, ErrPlaceExists) {
		t.Errorf("AddPlace() duplicate error = %v, want ErrPlaceExists", err)
	}
}

func TestGetPlaceNotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetPlace(ctx, 42); !errors.Is(err, ErrPlaceNotFound) {
		t.Errorf("GetPlace() error = %v, want ErrPlaceNotFound", err)
	}
	if _, err := s.GetPlaceByName(ctx, "nowhere"); !errors.Is(err, ErrPlaceNotFound) {
		t.Errorf("GetPlaceByName() error = %v, want ErrPlaceNotFound", err)
	}
}

func TestPlaceTags(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	place, err := s.AddPlace(ctx, "pasta palace")
	if err != nil {
		t.Fatalf("AddPlace() error = %v", err)
	}

	if err := s.AddPlaceTag(ctx, place.ID, "pasta"); err != nil {
		t.Fatalf("AddPlaceTag() error = %v", err)
	}
	// Adding again is a no-op, not a duplicate.
	if err := s.AddPlaceTag(ctx, place.ID, "pasta"); err != nil {
		t.Fatalf("AddPlaceTag() repeat error = %v", err)
	}
	if err := s.AddPlaceTag(ctx, place.ID, "close"); err != nil {
		t.Fatalf("AddPlaceTag() error = %v", err)
	}

	got, err := s.GetPlace(ctx, place.ID)
	if err != nil {
		t.Fatalf("GetPlace() error = %v", err)
	}
	if len(got.Tags) != 2 || !got.Tags.Contains("pasta") || !got.Tags.Contains("close") {
		t.Errorf("tags = %v, want {pasta close}", got.Tags.Names())
	}

	if err := s.RemovePlaceTag(ctx, place.ID, "pasta"); err != nil {
		t.Fatalf("RemovePlaceTag() error = %v", err)
	}
	got, err = s.GetPlace(ctx, place.ID)
	if err != nil {
		t.Fatalf("GetPlace() error = %v", err)
	}
	if len(got.Tags) != 1 || got.Tags.Contains("pasta") {
		t.Errorf("tags after removal = %v, want {close}", got.Tags.Names())
	}
}

func TestPersonRoundTripAndTags(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	person, err := s.AddPerson(ctx, "anna")
	if err != nil {
		t.Fatalf("AddPerson() error = %v", err)
	}
	if _, err := s.AddPerson(ctx, "anna"); !errors.Is(err, ErrPersonExists) {
		t.Errorf("AddPerson() duplicate error = %v, want ErrPersonExists", err)
	}

	if err := s.AddPersonTag(ctx, person.ID, "vegetarian", lunch.TagRequired); err != nil {
		t.Fatalf("AddPersonTag() error = %v", err)
	}
	if err := s.AddPersonTag(ctx, person.ID, "pasta", lunch.TagPreferred); err != nil {
		t.Fatalf("AddPersonTag() error = %v", err)
	}

	got, err := s.GetPersonByName(ctx, "anna")
	if err != nil {
		t.Fatalf("GetPersonByName() error = %v", err)
	}
	if !got.RequiredTags.Contains("vegetarian") {
		t.Error("required tag missing")
	}
	if !got.PreferredTags.Contains("pasta") {
		t.Error("preferred tag missing")
	}

	if err := s.RemovePersonTag(ctx, person.ID, "vegetarian", lunch.TagRequired); err != nil {
		t.Fatalf("RemovePersonTag() error = %v", err)
	}
	got, err = s.GetPerson(ctx, person.ID)
	if err != nil {
		t.Fatalf("GetPerson() error = %v", err)
	}
	if len(got.RequiredTags) != 0 {
		t.Errorf("required tags after removal = %v, want empty", got.RequiredTags.Names())
	}
	if !got.PreferredTags.Contains("pasta") {
		t.Error("preferred tag should be untouched by required-tag removal")
	}
}

func TestGeneralVoteUpsert(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	place, err := s.AddPlace(ctx, "pasta palace")
	if err != nil {
		t.Fatalf("AddPlace() error = %v", err)
	}
	person, err := s.AddPerson(ctx, "anna")
	if err != nil {
		t.Fatalf("AddPerson() error = %v", err)
	}

	up := lunch.Vote{VoterID: person.ID, VenueID: place.ID, Kind: lunch.VoteUp}
	if err := s.SetGeneralVote(ctx, up); err != nil {
		t.Fatalf("SetGeneralVote() error = %v", err)
	}

	// The same voter changes their mind: one standing vote per venue.
	down := lunch.Vote{VoterID: person.ID, VenueID: place.ID, Kind: lunch.VoteDown}
	if err := s.SetGeneralVote(ctx, down); err != nil {
		t.Fatalf("SetGeneralVote() error = %v", err)
	}

	got, err := s.GetPlace(ctx, place.ID)
	if err != nil {
		t.Fatalf("GetPlace() error = %v", err)
	}
	if len(got.UpVotes) != 0 {
		t.Errorf("up votes = %d, want 0 after changing the vote", len(got.UpVotes))
	}
	if len(got.DownVotes) != 1 {
		t.Errorf("down votes = %d, want 1", len(got.DownVotes))
	}
}

func TestLunchTimes(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.LatestLunchTime(ctx); !errors.Is(err, ErrNoLunchTime) {
		t.Errorf("LatestLunchTime() error = %v, want ErrNoLunchTime", err)
	}

	date := testDate()
	if err := s.CreateLunchTime(ctx, date); err != nil {
		t.Fatalf("CreateLunchTime() error = %v", err)
	}
	if err := s.CreateLunchTime(ctx, date); !errors.Is(err, ErrLunchTimeExists) {
		t.Errorf("CreateLunchTime() duplicate error = %v, want ErrLunchTimeExists", err)
	}

	latest, err := s.LatestLunchTime(ctx)
	if err != nil {
		t.Fatalf("LatestLunchTime() error = %v", err)
	}
	if !latest.Equal(date) {
		t.Errorf("LatestLunchTime() = %v, want %v", latest, date)
	}

	exists, err := s.HasLunchTime(ctx, date)
	if err != nil {
		t.Fatalf("HasLunchTime() error = %v", err)
	}
	if !exists {
		t.Error("HasLunchTime() = false, want true")
	}
}

func TestParticipants(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	date := testDate()

	if err := s.AddParticipant(ctx, date, 42); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("AddParticipant() unknown person error = %v, want ErrPersonNotFound", err)
	}

	person, err := s.AddPerson(ctx, "anna")
	if err != nil {
		t.Fatalf("AddPerson() error = %v", err)
	}
	if err := s.AddParticipant(ctx, date, person.ID); err != nil {
		t.Fatalf("AddParticipant() error = %v", err)
	}

	enrolled, err := s.IsParticipant(ctx, date, person.ID)
	if err != nil {
		t.Fatalf("IsParticipant() error = %v", err)
	}
	if !enrolled {
		t.Error("IsParticipant() = false, want true")
	}

	participants, err := s.GetParticipants(ctx, date)
	if err != nil {
		t.Fatalf("GetParticipants() error = %v", err)
	}
	if len(participants) != 1 || participants[0].Name != "anna" {
		t.Errorf("participants = %v, want [anna]", participants)
	}
}

func TestOccasionVoteUpsert(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	date := testDate()

	place, _ := s.AddPlace(ctx, "pasta palace")
	person, _ := s.AddPerson(ctx, "anna")

	if err := s.SetOccasionVote(ctx, lunch.Vote{
		VoterID: person.ID, VenueID: place.ID, Kind: lunch.VoteUp, Occasion: date,
	}); err != nil {
		t.Fatalf("SetOccasionVote() error = %v", err)
	}
	if err := s.SetOccasionVote(ctx, lunch.Vote{
		VoterID: person.ID, VenueID: place.ID, Kind: lunch.VoteDown, Occasion: date,
	}); err != nil {
		t.Fatalf("SetOccasionVote() error = %v", err)
	}

	votes, err := s.GetOccasionVotes(ctx, date, []int{person.ID})
	if err != nil {
		t.Fatalf("GetOccasionVotes() error = %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("votes = %d, want 1 after upsert", len(votes))
	}
	if votes[0].Kind != lunch.VoteDown {
		t.Errorf("vote kind = %v, want down (newest write wins)", votes[0].Kind)
	}

	// A vote without an occasion date does not belong in this ledger.
	if err := s.SetOccasionVote(ctx, lunch.Vote{VoterID: person.ID, VenueID: place.ID}); err == nil {
		t.Error("SetOccasionVote() should reject a vote without a date")
	}
}

func TestRemoveParticipantClearsOccasionVotes(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	date := testDate()

	place, _ := s.AddPlace(ctx, "pasta palace")
	anna, _ := s.AddPerson(ctx, "anna")
	bert, _ := s.AddPerson(ctx, "bert")

	for _, p := range []lunch.Participant{anna, bert} {
		if err := s.AddParticipant(ctx, date, p.ID); err != nil {
			t.Fatalf("AddParticipant() error = %v", err)
		}
		if err := s.SetOccasionVote(ctx, lunch.Vote{
			VoterID: p.ID, VenueID: place.ID, Kind: lunch.VoteUp, Occasion: date,
		}); err != nil {
			t.Fatalf("SetOccasionVote() error = %v", err)
		}
	}

	if err := s.RemoveParticipant(ctx, date, anna.ID); err != nil {
		t.Fatalf("RemoveParticipant() error = %v", err)
	}

	votes, err := s.GetOccasionVotes(ctx, date, []int{anna.ID, bert.ID})
	if err != nil {
		t.Fatalf("GetOccasionVotes() error = %v", err)
	}
	if len(votes) != 1 || votes[0].VoterID != bert.ID {
		t.Errorf("votes after removal = %v, want only bert's", votes)
	}
}

func TestSetDecisionRecordsVisits(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	date := testDate()

	place, _ := s.AddPlace(ctx, "pasta palace")
	anna, _ := s.AddPerson(ctx, "anna")
	if err := s.AddParticipant(ctx, date, anna.ID); err != nil {
		t.Fatalf("AddParticipant() error = %v", err)
	}

	if _, err := s.GetDecision(ctx, date); !errors.Is(err, ErrNoDecision) {
		t.Errorf("GetDecision() error = %v, want ErrNoDecision", err)
	}

	if err := s.SetDecision(ctx, date, place.ID); err != nil {
		t.Fatalf("SetDecision() error = %v", err)
	}

	decided, err := s.GetDecision(ctx, date)
	if err != nil {
		t.Fatalf("GetDecision() error = %v", err)
	}
	if decided.ID != place.ID {
		t.Errorf("decided venue = %d, want %d", decided.ID, place.ID)
	}

	got, err := s.GetPerson(ctx, anna.ID)
	if err != nil {
		t.Fatalf("GetPerson() error = %v", err)
	}
	visited, ok := got.Visits[place.ID]
	if !ok {
		t.Fatal("decision should record a visit for every participant")
	}
	if !visited.Equal(date) {
		t.Errorf("visit date = %v, want %v", visited, date)
	}
}

func TestGetVenueWrapsUnknownVenue(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if _, err := s.GetVenue(context.Background(), 42); !errors.Is(err, lunch.ErrUnknownVenue) {
		t.Errorf("GetVenue() error = %v, want lunch.ErrUnknownVenue", err)
	}
}
