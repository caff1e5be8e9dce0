// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package lunch

import "errors"

// Engine errors. All failures are value-returned; nothing inside the engine
// is retried, since identical input produces an identical outcome.
var (
	// ErrNoSuggestion indicates no suggestion has been computed yet, or
	// the latest one ranked no venue (nothing satisfied every
	// participant's required tags).
	ErrNoSuggestion = errors.New("no place is suggested")

	// ErrUnknownVenue indicates a venue ID that does not resolve in the
	// catalog.
	ErrUnknownVenue = errors.New("unknown venue")
)
