// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package lunch

import "fmt"

// Config holds the scoring weights for the decision engine. The defaults are
// chosen so hard signals (this occasion's votes) dominate soft signals
// (historical preference and visit recency).
type Config struct {
	// TagPreferenceWeight scales the summed tag-match fractions of all
	// participants.
	TagPreferenceWeight float64

	// OccasionVoteWeight scales this occasion's up votes (positive) and
	// down votes (negative).
	OccasionVoteWeight float64

	// GeneralVoteWeight scales general-ledger votes cast by the day's
	// participants.
	GeneralVoteWeight float64

	// DefaultVisitDays is the staleness assumed for a participant who has
	// never visited a venue.
	DefaultVisitDays int

	// VisitFloorDays floors the days-since-last-visit count before the
	// logarithm, so a same-day visit cannot produce ln(0).
	VisitFloorDays int
}

// DefaultConfig returns the standard scoring weights.
func DefaultConfig() *Config {
	return &Config{
		TagPreferenceWeight: 1.5,
		OccasionVoteWeight:  3.0,
		GeneralVoteWeight:   1.0,
		DefaultVisitDays:    30,
		VisitFloorDays:      1,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.TagPreferenceWeight < 0 {
		return fmt.Errorf("tag preference weight must not be negative, got %v", c.TagPreferenceWeight)
	}
	if c.OccasionVoteWeight < 0 {
		return fmt.Errorf("occasion vote weight must not be negative, got %v", c.OccasionVoteWeight)
	}
	if c.GeneralVoteWeight < 0 {
		return fmt.Errorf("general vote weight must not be negative, got %v", c.GeneralVoteWeight)
	}
	if c.DefaultVisitDays < 1 {
		return fmt.Errorf("default visit days must be at least 1, got %d", c.DefaultVisitDays)
	}
	if c.VisitFloorDays < 1 {
		return fmt.Errorf("visit floor days must be at least 1, got %d", c.VisitFloorDays)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
