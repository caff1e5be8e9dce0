// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package lunch

import (
	"fmt"
	"time"
)

// Tag is an opaque, case-sensitive venue or preference label. Equality is
// value equality.
type Tag string

// TagSet is a set of tags.
type TagSet map[Tag]struct{}

// NewTagSet builds a TagSet from tag names.
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[Tag(t)] = struct{}{}
	}
	return s
}

// Contains reports whether the set contains the tag.
func (s TagSet) Contains(t Tag) bool {
	_, ok := s[t]
	return ok
}

// ContainsAll reports whether every tag in other is present in the set.
func (s TagSet) ContainsAll(other TagSet) bool {
	for t := range other {
		if !s.Contains(t) {
			return false
		}
	}
	return true
}

// Intersection returns the number of tags present in both sets.
func (s TagSet) Intersection(other TagSet) int {
	a, b := s, other
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for t := range a {
		if b.Contains(t) {
			n++
		}
	}
	return n
}

// Names returns the tags as a slice of strings, in no particular order.
func (s TagSet) Names() []string {
	names := make([]string, 0, len(s))
	for t := range s {
		names = append(names, string(t))
	}
	return names
}

// VoteKind classifies a vote as an endorsement or a rejection.
type VoteKind int

const (
	// VoteUp endorses a venue.
	VoteUp VoteKind = iota
	// VoteDown rejects a venue.
	VoteDown
)

// String returns a human-readable name for the vote kind.
func (k VoteKind) String() string {
	switch k {
	case VoteUp:
		return "up"
	case VoteDown:
		return "down"
	default:
		return "unknown"
	}
}

// ParseVoteKind parses "up" or "down" into a VoteKind.
func ParseVoteKind(s string) (VoteKind, error) {
	switch s {
	case "up":
		return VoteUp, nil
	case "down":
		return VoteDown, nil
	}
	return 0, fmt.Errorf("invalid vote kind %q", s)
}

// TagType classifies a person's relationship to a tag.
type TagType int

const (
	// TagRequired marks a hard constraint: venues missing the tag are
	// vetoed.
	TagRequired TagType = iota
	// TagPreferred marks a soft signal feeding the tag-preference score.
	TagPreferred
)

// String returns a human-readable name for the tag type.
func (t TagType) String() string {
	switch t {
	case TagRequired:
		return "required"
	case TagPreferred:
		return "preferred"
	default:
		return "unknown"
	}
}

// ParseTagType parses "required" or "preferred" into a TagType.
func ParseTagType(s string) (TagType, error) {
	switch s {
	case "required":
		return TagRequired, nil
	case "preferred":
		return TagPreferred, nil
	}
	return 0, fmt.Errorf("invalid tag type %q", s)
}

// Vote is a single up/down vote on a venue. A zero Occasion marks a general
// vote (unscoped to any particular day); a non-zero Occasion scopes the vote
// to that day's lunch. Both ledgers share this one shape.
type Vote struct {
	VoterID  int       `json:"voter_id"`
	VenueID  int       `json:"venue_id"`
	Kind     VoteKind  `json:"kind"`
	Occasion time.Time `json:"occasion,omitempty"`
}

// IsGeneral reports whether the vote belongs to the general ledger.
func (v Vote) IsGeneral() bool {
	return v.Occasion.IsZero()
}

// Venue is a candidate lunch location.
type Venue struct {
	// ID is assigned by the store on creation and immutable thereafter.
	ID int `json:"id"`

	// Name is unique within the catalog. The engine assumes uniqueness,
	// it does not enforce it.
	Name string `json:"name"`

	// Tags describe the venue's character.
	Tags TagSet `json:"tags"`

	// UpVotes and DownVotes are the general vote ledger for this venue,
	// one vote per person (upsert semantics, enforced by the store).
	UpVotes   []Vote `json:"up_votes"`
	DownVotes []Vote `json:"down_votes"`
}

// Accepted reports whether every participant's required tags are satisfied
// by this venue. A single participant with an unmet hard requirement vetoes
// the venue. An empty participant set accepts every venue.
func (v *Venue) Accepted(participants []Participant) bool {
	for i := range participants {
		if !participants[i].Accepts(v.Tags) {
			return false
		}
	}
	return true
}

// Participant is a person taking part in a day's lunch.
type Participant struct {
	ID   int    `json:"id"`
	Name string `json:"name"`

	// RequiredTags are hard constraints: a venue missing any of them is
	// vetoed for every lunch this participant joins.
	RequiredTags TagSet `json:"required_tags"`

	// PreferredTags are soft signals feeding the tag-preference score.
	PreferredTags TagSet `json:"preferred_tags"`

	// Visits maps venue ID to the most recent date this participant ate
	// there. Absent means never visited.
	Visits map[int]time.Time `json:"visits,omitempty"`
}

// Accepts reports whether the venue tags satisfy all required tags.
// Participants with no required tags accept everything.
func (p *Participant) Accepts(venueTags TagSet) bool {
	return venueTags.ContainsAll(p.RequiredTags)
}

// MatchScore returns the share of the venue's tags this participant is known
// to prefer, a fraction in [0,1]. A venue with no tags cannot be matched and
// scores 0. The fraction is of venue tags covered, not of the participant's
// preferences: tag-heavy generic venues are harder to match fully than
// focused ones.
func (p *Participant) MatchScore(venueTags TagSet) float64 {
	if len(venueTags) == 0 {
		return 0
	}
	return float64(p.PreferredTags.Intersection(venueTags)) / float64(len(venueTags))
}

// ScoringContext is the venue-scoped input to scoring, rebuilt fresh for
// every venue under evaluation.
type ScoringContext struct {
	// Date is the evaluation date. Passed explicitly so scoring never
	// reads an ambient clock.
	Date time.Time

	// Participants is the day's participant set.
	Participants []Participant

	// OccasionUpVotes and OccasionDownVotes are this occasion's votes
	// for the venue under evaluation.
	OccasionUpVotes   []Vote
	OccasionDownVotes []Vote

	// VisitByParticipant maps participant ID to their most recent visit
	// to the venue under evaluation. Absent means never visited.
	VisitByParticipant map[int]time.Time
}

// PlaceScore is an immutable scored pairing of a venue and its score.
type PlaceScore struct {
	Venue Venue   `json:"venue"`
	Score float64 `json:"score"`
}

// SuggestResult is an ordered ranking of eligible venues, descending by
// score with an ascending name tie-break.
type SuggestResult struct {
	// Date is the occasion the ranking was computed for.
	Date time.Time `json:"date"`

	// Scores is the full ranking, best first.
	Scores []PlaceScore `json:"scores"`
}

// Top returns the highest-ranked entry, or false if the ranking is empty.
func (r *SuggestResult) Top() (PlaceScore, bool) {
	if r == nil || len(r.Scores) == 0 {
		return PlaceScore{}, false
	}
	return r.Scores[0], true
}

// Snapshot is the fully hydrated input for one suggestion computation. The
// engine owns it by value for the duration of the computation and never
// mutates it.
type Snapshot struct {
	// Date is the occasion date the snapshot was loaded for.
	Date time.Time

	// Venues is the whole catalog, with general vote ledgers attached.
	Venues []Venue

	// Participants is the day's participant set, with visit history
	// attached.
	Participants []Participant

	// OccasionVotes are the day's occasion-scoped votes across all
	// venues.
	OccasionVotes []Vote
}
