// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/racasse/raclette/internal/lunch"
	"github.com/racasse/raclette/internal/store"
)

// fixedToday is the date the test clock resolves "today" to.
var fixedToday = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()

	st, err := store.Open(store.Options{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("store.Close() error = %v", err)
		}
	})

	engine, err := lunch.NewEngine(lunch.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("lunch.NewEngine() error = %v", err)
	}
	engine.SetDataProvider(st)

	svc := New(st, engine, zerolog.Nop())
	svc.now = func() time.Time { return fixedToday.Add(11 * time.Hour) }
	return svc
}

func wantUserError(t *testing.T, err error, message string) {
	t.Helper()

	var userErr *UserError
	if !errors.As(err, &userErr) {
		t.Fatalf("error = %v, want a user-facing error", err)
	}
	if userErr.Message != message {
		t.Errorf("message = %q, want %q", userErr.Message, message)
	}
}

func TestGetPlaceUnknown(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	_, err := svc.GetPlace(context.Background(), "nowhere")
	wantUserError(t, err, "I know no place called 'nowhere'")
}

func TestAddPlaceDuplicate(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddPlace(ctx, "pasta palace"); err != nil {
		t.Fatalf("AddPlace() error = %v", err)
	}
	_, err := svc.AddPlace(ctx, "pasta palace")
	wantUserError(t, err, "There is already a place called 'pasta palace'")
}

func TestAddPersonDuplicate(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddPerson(ctx, "anna"); err != nil {
		t.Fatalf("AddPerson() error = %v", err)
	}
	_, err := svc.AddPerson(ctx, "anna")
	wantUserError(t, err, "'anna' is already added")

	_, err = svc.GetPerson(ctx, "bert")
	wantUserError(t, err, "I know no person called 'bert'")
}

func TestCreateLunchTimeForTodayTwice(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	lunchTime, err := svc.CreateLunchTimeForToday(ctx)
	if err != nil {
		t.Fatalf("CreateLunchTimeForToday() error = %v", err)
	}
	if !lunchTime.Equal(fixedToday) {
		t.Errorf("lunch time = %v, want %v", lunchTime, fixedToday)
	}

	_, err = svc.CreateLunchTimeForToday(ctx)
	wantUserError(t, err, "There is already a lunch time for today (2026-03-02)")
}

func TestOperationsWithoutLunchTime(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddPerson(ctx, "anna"); err != nil {
		t.Fatalf("AddPerson() error = %v", err)
	}
	_, err := svc.AddLunchParticipant(ctx, "anna")
	wantUserError(t, err, "There is no lunch time yet")
}

func TestAddLunchVoteRequiresParticipant(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddPerson(ctx, "anna"); err != nil {
		t.Fatalf("AddPerson() error = %v", err)
	}
	if _, err := svc.AddPlace(ctx, "pasta palace"); err != nil {
		t.Fatalf("AddPlace() error = %v", err)
	}
	if _, err := svc.CreateLunchTimeForToday(ctx); err != nil {
		t.Fatalf("CreateLunchTimeForToday() error = %v", err)
	}

	err := svc.AddLunchVote(ctx, "anna", "pasta palace", lunch.VoteUp)
	wantUserError(t, err, "anna must be a lunch participant to do lunch voting")

	if _, err := svc.AddLunchParticipant(ctx, "anna"); err != nil {
		t.Fatalf("AddLunchParticipant() error = %v", err)
	}
	if err := svc.AddLunchVote(ctx, "anna", "pasta palace", lunch.VoteUp); err != nil {
		t.Errorf("AddLunchVote() as participant error = %v", err)
	}
}

func TestDecideSuggestedWithoutSuggestion(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateLunchTimeForToday(ctx); err != nil {
		t.Fatalf("CreateLunchTimeForToday() error = %v", err)
	}

	_, err := svc.DecideSuggestedLunchPlace(ctx)
	wantUserError(t, err, "No place is suggested")

	_, err = svc.LatestSuggestion()
	wantUserError(t, err, "No place is suggested")
}

func TestLunchWorkflow(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"pasta palace", "burger barn"} {
		if _, err := svc.AddPlace(ctx, name); err != nil {
			t.Fatalf("AddPlace(%q) error = %v", name, err)
		}
	}
	if _, err := svc.AddPlaceTag(ctx, "burger barn", "burger"); err != nil {
		t.Fatalf("AddPlaceTag() error = %v", err)
	}

	if _, err := svc.AddPerson(ctx, "anna"); err != nil {
		t.Fatalf("AddPerson() error = %v", err)
	}
	if _, err := svc.AddPersonTag(ctx, "anna", "burger", lunch.TagPreferred); err != nil {
		t.Fatalf("AddPersonTag() error = %v", err)
	}

	if _, err := svc.CreateLunchTimeForToday(ctx); err != nil {
		t.Fatalf("CreateLunchTimeForToday() error = %v", err)
	}
	if _, err := svc.AddLunchParticipant(ctx, "anna"); err != nil {
		t.Fatalf("AddLunchParticipant() error = %v", err)
	}
	if err := svc.AddLunchVote(ctx, "anna", "burger barn", lunch.VoteUp); err != nil {
		t.Fatalf("AddLunchVote() error = %v", err)
	}

	result, err := svc.SuggestLunchPlace(ctx)
	if err != nil {
		t.Fatalf("SuggestLunchPlace() error = %v", err)
	}
	top, ok := result.Top()
	if !ok {
		t.Fatal("expected a suggestion")
	}
	if top.Venue.Name != "burger barn" {
		t.Errorf("suggested %q, want burger barn (tag preference)", top.Venue.Name)
	}

	decided, err := svc.DecideSuggestedLunchPlace(ctx)
	if err != nil {
		t.Fatalf("DecideSuggestedLunchPlace() error = %v", err)
	}
	if decided.Name != "burger barn" {
		t.Errorf("decided %q, want burger barn", decided.Name)
	}

	status, err := svc.GetLunchStatus(ctx)
	if err != nil {
		t.Fatalf("GetLunchStatus() error = %v", err)
	}
	if status.DecidedPlace == nil || status.DecidedPlace.Name != "burger barn" {
		t.Error("status should report the decided place")
	}
	if len(status.Participants) != 1 {
		t.Errorf("status participants = %d, want 1", len(status.Participants))
	}
	if len(status.Places) != 2 {
		t.Errorf("status places = %d, want 2", len(status.Places))
	}

	placeVotes := status.VotesByPlace[decided.ID]
	if len(placeVotes) != 1 {
		t.Fatalf("status votes for %q = %d, want 1", decided.Name, len(placeVotes))
	}
	if placeVotes[0].Kind != lunch.VoteUp {
		t.Errorf("status vote kind = %v, want up", placeVotes[0].Kind)
	}
	if placeVotes[0].VoterID != status.Participants[0].ID {
		t.Errorf("status vote voter = %d, want anna (%d)", placeVotes[0].VoterID, status.Participants[0].ID)
	}
}

func TestDecideSpecificOverridesSuggestion(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"pasta palace", "burger barn"} {
		if _, err := svc.AddPlace(ctx, name); err != nil {
			t.Fatalf("AddPlace(%q) error = %v", name, err)
		}
	}
	if _, err := svc.CreateLunchTimeForToday(ctx); err != nil {
		t.Fatalf("CreateLunchTimeForToday() error = %v", err)
	}

	decided, err := svc.DecideSpecificLunchPlace(ctx, "pasta palace")
	if err != nil {
		t.Fatalf("DecideSpecificLunchPlace() error = %v", err)
	}
	if decided.Name != "pasta palace" {
		t.Errorf("decided %q, want pasta palace", decided.Name)
	}

	_, err = svc.DecideSpecificLunchPlace(ctx, "nowhere")
	wantUserError(t, err, "I know no place called 'nowhere'")
}
