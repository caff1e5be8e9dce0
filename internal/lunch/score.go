// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package lunch

import (
	"math"
	"time"
)

// Score computes the venue's desirability as the sum of five independent
// terms: tag preference, occasion votes, general votes by today's
// participants, and average visit recency. Scoring never fails; all inputs
// are assumed pre-validated by the caller.
//
//nolint:gocritic // hugeParam: sc passed by value for immutability
func (v *Venue) Score(sc ScoringContext, cfg *Config) float64 {
	return v.scoreTags(sc.Participants, cfg) +
		v.scoreOccasionUpVotes(sc.OccasionUpVotes, cfg) +
		v.scoreOccasionDownVotes(sc.OccasionDownVotes, cfg) +
		v.scoreGeneralUpVotes(sc.Participants, cfg) +
		v.scoreGeneralDownVotes(sc.Participants, cfg) +
		v.scoreVisitRecency(sc, cfg)
}

// scoreTags sums every participant's tag-match fraction for this venue.
func (v *Venue) scoreTags(participants []Participant, cfg *Config) float64 {
	sum := 0.0
	for i := range participants {
		sum += participants[i].MatchScore(v.Tags)
	}
	return cfg.TagPreferenceWeight * sum
}

func (v *Venue) scoreOccasionUpVotes(votes []Vote, cfg *Config) float64 {
	return cfg.OccasionVoteWeight * float64(len(votes))
}

func (v *Venue) scoreOccasionDownVotes(votes []Vote, cfg *Config) float64 {
	return -cfg.OccasionVoteWeight * float64(len(votes))
}

// scoreGeneralUpVotes counts general up votes cast by today's participants.
// Votes from people not at this lunch do not count.
func (v *Venue) scoreGeneralUpVotes(participants []Participant, cfg *Config) float64 {
	return cfg.GeneralVoteWeight * float64(countVotesByParticipants(v.UpVotes, participants))
}

func (v *Venue) scoreGeneralDownVotes(participants []Participant, cfg *Config) float64 {
	return -cfg.GeneralVoteWeight * float64(countVotesByParticipants(v.DownVotes, participants))
}

// countVotesByParticipants counts votes whose voter is among the given
// participants.
func countVotesByParticipants(votes []Vote, participants []Participant) int {
	if len(votes) == 0 || len(participants) == 0 {
		return 0
	}

	ids := make(map[int]struct{}, len(participants))
	for i := range participants {
		ids[participants[i].ID] = struct{}{}
	}

	n := 0
	for _, vote := range votes {
		if _, ok := ids[vote.VoterID]; ok {
			n++
		}
	}
	return n
}

// scoreVisitRecency averages 1 + 2·ln(days since last visit) over all
// participants. A participant who has never visited contributes the
// configured default staleness. Averaging keeps the term from growing with
// group size: it reflects how stale the venue is for the group, not how big
// the group is. The logarithm saturates, so a venue is boosted for being
// "a while ago" without ever being permanently banished.
//
//nolint:gocritic // hugeParam: sc passed by value for immutability
func (v *Venue) scoreVisitRecency(sc ScoringContext, cfg *Config) float64 {
	if len(sc.Participants) == 0 {
		return 0
	}

	sum := 0.0
	for i := range sc.Participants {
		days := cfg.DefaultVisitDays
		if last, ok := sc.VisitByParticipant[sc.Participants[i].ID]; ok {
			days = daysBetween(last, sc.Date)
		}
		if days < cfg.VisitFloorDays {
			days = cfg.VisitFloorDays
		}
		sum += 1 + 2*math.Log(float64(days))
	}
	return sum / float64(len(sc.Participants))
}

// daysBetween returns the number of calendar days from one date to another,
// ignoring the time of day.
func daysBetween(from, to time.Time) int {
	return int(startOfDay(to).Sub(startOfDay(from)).Hours() / 24)
}

// startOfDay truncates a time to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
