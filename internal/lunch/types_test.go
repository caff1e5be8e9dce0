// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package lunch

import (
	"testing"
	"time"
)

func TestTagSetOperations(t *testing.T) {
	t.Parallel()

	s := NewTagSet("a", "b", "c")

	if !s.Contains("a") || s.Contains("z") {
		t.Error("Contains() misreported membership")
	}
	if !s.ContainsAll(NewTagSet("a", "c")) {
		t.Error("ContainsAll() should hold for a subset")
	}
	if s.ContainsAll(NewTagSet("a", "z")) {
		t.Error("ContainsAll() should fail when any tag is missing")
	}
	if !s.ContainsAll(nil) {
		t.Error("every set contains the empty set")
	}
	if got := s.Intersection(NewTagSet("b", "c", "d")); got != 2 {
		t.Errorf("Intersection() = %d, want 2", got)
	}
	if got := len(s.Names()); got != 3 {
		t.Errorf("Names() length = %d, want 3", got)
	}
}

func TestParseVoteKind(t *testing.T) {
	t.Parallel()

	up, err := ParseVoteKind("up")
	if err != nil || up != VoteUp {
		t.Errorf("ParseVoteKind(up) = %v, %v", up, err)
	}
	down, err := ParseVoteKind("down")
	if err != nil || down != VoteDown {
		t.Errorf("ParseVoteKind(down) = %v, %v", down, err)
	}
	if _, err := ParseVoteKind("sideways"); err == nil {
		t.Error("ParseVoteKind should reject unknown kinds")
	}

	if VoteUp.String() != "up" || VoteDown.String() != "down" {
		t.Error("VoteKind.String() round-trip mismatch")
	}
}

func TestParseTagType(t *testing.T) {
	t.Parallel()

	required, err := ParseTagType("required")
	if err != nil || required != TagRequired {
		t.Errorf("ParseTagType(required) = %v, %v", required, err)
	}
	preferred, err := ParseTagType("preferred")
	if err != nil || preferred != TagPreferred {
		t.Errorf("ParseTagType(preferred) = %v, %v", preferred, err)
	}
	if _, err := ParseTagType("optional"); err == nil {
		t.Error("ParseTagType should reject unknown types")
	}
}

func TestVoteIsGeneral(t *testing.T) {
	t.Parallel()

	general := Vote{VoterID: 1, VenueID: 2, Kind: VoteUp}
	if !general.IsGeneral() {
		t.Error("a vote without an occasion date belongs to the general ledger")
	}

	occasion := Vote{VoterID: 1, VenueID: 2, Kind: VoteUp, Occasion: day(2026, time.March, 2)}
	if occasion.IsGeneral() {
		t.Error("a dated vote belongs to the occasion ledger")
	}
}
