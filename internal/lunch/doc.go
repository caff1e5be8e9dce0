// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

// Package lunch implements the lunch-venue decision engine.
//
// Given a snapshot of candidate venues, the day's participants, and the
// occasion's votes, the engine filters venues against every participant's
// required tags, scores each survivor with a weighted sum of tag preference,
// occasion votes, general votes, and visit recency, and ranks them into a
// SuggestResult. The top entry is the day's suggestion; a decide step commits
// either the suggestion or an explicitly named venue.
//
// The engine performs no I/O of its own. Data loading and decision
// persistence go through the DataProvider interface, typically implemented
// by the store package.
package lunch
