// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package lunch

import (
	"math"
	"testing"
	"time"
)

const scoreEpsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < scoreEpsilon
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMatchScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		preferred []string
		venueTags []string
		want      float64
	}{
		{
			name:      "half of venue tags preferred",
			preferred: []string{"a"},
			venueTags: []string{"a", "b"},
			want:      0.5,
		},
		{
			name:      "all venue tags preferred",
			preferred: []string{"a", "b"},
			venueTags: []string{"a", "b"},
			want:      1.0,
		},
		{
			name:      "no overlap",
			preferred: []string{"c"},
			venueTags: []string{"a", "b"},
			want:      0,
		},
		{
			name:      "venue without tags scores zero regardless of preferences",
			preferred: []string{"a", "b", "c"},
			venueTags: nil,
			want:      0,
		},
		{
			name:      "fraction is of venue tags not preferences",
			preferred: []string{"a", "b", "c", "d"},
			venueTags: []string{"a"},
			want:      1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := Participant{PreferredTags: NewTagSet(tt.preferred...)}
			got := p.MatchScore(NewTagSet(tt.venueTags...))
			if !almostEqual(got, tt.want) {
				t.Errorf("MatchScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAcceptedVeto(t *testing.T) {
	t.Parallel()

	venue := Venue{Name: "close-place", Tags: NewTagSet("close")}

	demanding := Participant{ID: 1, RequiredTags: NewTagSet("far")}
	easy := Participant{ID: 2}

	if venue.Accepted([]Participant{demanding}) {
		t.Error("venue accepted despite unmet hard requirement")
	}
	if venue.Accepted([]Participant{easy, demanding}) {
		t.Error("one participant's unmet requirement must veto for the whole group")
	}
	if !venue.Accepted([]Participant{easy}) {
		t.Error("participant without requirements should accept any venue")
	}
	if !venue.Accepted(nil) {
		t.Error("empty participant set should accept every venue")
	}
}

func TestScoreTagTerm(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	venue := Venue{Tags: NewTagSet("burger", "buffe")}

	sc := ScoringContext{
		Date: day(2026, time.March, 2),
		Participants: []Participant{
			{ID: 1, PreferredTags: NewTagSet("burger")},
		},
	}

	// 1.5 * 0.5 tag term plus the default recency term for a venue never
	// visited.
	recency := 1 + 2*math.Log(float64(cfg.DefaultVisitDays))
	want := cfg.TagPreferenceWeight*0.5 + recency
	if got := venue.Score(sc, cfg); !almostEqual(got, want) {
		t.Errorf("Score() = %v, want %v", got, want)
	}
}

func TestScoreOccasionVoteTerms(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	venue := Venue{ID: 7}
	participants := []Participant{{ID: 1}, {ID: 2}}

	base := venue.Score(ScoringContext{Participants: participants}, cfg)

	up := venue.Score(ScoringContext{
		Participants:    participants,
		OccasionUpVotes: []Vote{{VoterID: 1, VenueID: 7, Kind: VoteUp}},
	}, cfg)
	if !almostEqual(up-base, cfg.OccasionVoteWeight) {
		t.Errorf("occasion up vote added %v, want %v", up-base, cfg.OccasionVoteWeight)
	}

	down := venue.Score(ScoringContext{
		Participants:      participants,
		OccasionDownVotes: []Vote{{VoterID: 2, VenueID: 7, Kind: VoteDown}},
	}, cfg)
	if !almostEqual(base-down, cfg.OccasionVoteWeight) {
		t.Errorf("occasion down vote removed %v, want %v", base-down, cfg.OccasionVoteWeight)
	}
}

func TestScoreGeneralVotesOnlyCountParticipants(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	venue := Venue{
		ID: 7,
		UpVotes: []Vote{
			{VoterID: 1, VenueID: 7, Kind: VoteUp},
			{VoterID: 99, VenueID: 7, Kind: VoteUp}, // not at this lunch
		},
		DownVotes: []Vote{
			{VoterID: 98, VenueID: 7, Kind: VoteDown}, // not at this lunch
		},
	}
	participants := []Participant{{ID: 1}}

	bare := Venue{ID: 7}
	base := bare.Score(ScoringContext{Participants: participants}, cfg)
	got := venue.Score(ScoringContext{Participants: participants}, cfg)

	// Only voter 1's up vote counts: +1 * GeneralVoteWeight.
	if !almostEqual(got-base, cfg.GeneralVoteWeight) {
		t.Errorf("general vote contribution = %v, want %v", got-base, cfg.GeneralVoteWeight)
	}
}

func TestScoreVisitRecency(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	date := day(2026, time.March, 2)

	tests := []struct {
		name   string
		visits map[int]time.Time
		want   float64
	}{
		{
			name:   "never visited uses default staleness",
			visits: nil,
			want:   1 + 2*math.Log(float64(cfg.DefaultVisitDays)),
		},
		{
			name:   "visited four days ago",
			visits: map[int]time.Time{1: date.AddDate(0, 0, -4)},
			want:   1 + 2*math.Log(4),
		},
		{
			name:   "visited today is floored to one day",
			visits: map[int]time.Time{1: date},
			want:   1, // 1 + 2*ln(1)
		},
		{
			name:   "future visit is floored to one day",
			visits: map[int]time.Time{1: date.AddDate(0, 0, 3)},
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			venue := Venue{ID: 7}
			sc := ScoringContext{
				Date:               date,
				Participants:       []Participant{{ID: 1}},
				VisitByParticipant: tt.visits,
			}
			if got := venue.Score(sc, cfg); !almostEqual(got, tt.want) {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreRecencyAveragesOverParticipants(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	date := day(2026, time.March, 2)
	venue := Venue{ID: 7}

	sc := ScoringContext{
		Date: date,
		Participants: []Participant{
			{ID: 1}, {ID: 2},
		},
		VisitByParticipant: map[int]time.Time{
			1: date.AddDate(0, 0, -2),
			2: date.AddDate(0, 0, -8),
		},
	}

	want := ((1 + 2*math.Log(2)) + (1 + 2*math.Log(8))) / 2
	if got := venue.Score(sc, cfg); !almostEqual(got, want) {
		t.Errorf("Score() = %v, want %v", got, want)
	}
}

func TestScoreZeroParticipants(t *testing.T) {
	t.Parallel()

	venue := Venue{
		ID:      7,
		Tags:    NewTagSet("burger"),
		UpVotes: []Vote{{VoterID: 1, VenueID: 7, Kind: VoteUp}},
	}

	// No participants: tag, general vote and recency terms all vanish.
	if got := venue.Score(ScoringContext{}, DefaultConfig()); !almostEqual(got, 0) {
		t.Errorf("Score() with no participants = %v, want 0", got)
	}
}

func TestVisitRecencyOrdering(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	date := day(2026, time.March, 2)

	recent := Venue{ID: 1, Name: "recent"}
	stale := Venue{ID: 2, Name: "stale"}
	participant := Participant{ID: 1, Visits: map[int]time.Time{
		1: date.AddDate(0, 0, -2),
		2: date.AddDate(0, 0, -4),
	}}

	recentScore := recent.Score(ScoringContext{
		Date:               date,
		Participants:       []Participant{participant},
		VisitByParticipant: map[int]time.Time{1: participant.Visits[1]},
	}, cfg)
	staleScore := stale.Score(ScoringContext{
		Date:               date,
		Participants:       []Participant{participant},
		VisitByParticipant: map[int]time.Time{1: participant.Visits[2]},
	}, cfg)

	if staleScore <= recentScore {
		t.Errorf("venue visited 4 days ago (%v) should outscore one visited 2 days ago (%v)",
			staleScore, recentScore)
	}
}
