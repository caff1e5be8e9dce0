// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

// Package supervisor runs the server's long-lived components (HTTP listener,
// lunch-time scheduler) under a suture supervision tree. A component that
// returns an error is restarted with backoff; the process only exits when the
// root context is canceled.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig tunes the restart behaviour of the root supervisor.
type TreeConfig struct {
	// FailureThreshold is how many (decayed) failures trip the backoff.
	FailureThreshold float64

	// FailureDecay halves the accumulated failure count this many seconds
	// after a failure.
	FailureDecay float64

	// FailureBackoff is how long the supervisor pauses once tripped.
	FailureBackoff time.Duration

	// ShutdownTimeout bounds how long a service may take to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig matches suture's documented defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// withDefaults fills zero-valued fields from DefaultTreeConfig, so a partial
// config behaves sensibly.
func (c TreeConfig) withDefaults() TreeConfig {
	def := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = def.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = def.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = def.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = def.ShutdownTimeout
	}
	return c
}

// Tree is the root supervisor plus the logger its events go to.
type Tree struct {
	root   *suture.Supervisor
	logger *slog.Logger
}

// NewTree builds the supervision tree. Supervisor events (restarts, backoff,
// termination) are reported through logger via sutureslog.
func NewTree(logger *slog.Logger, config TreeConfig) *Tree {
	cfg := config.withDefaults()
	return &Tree{
		logger: logger,
		root: suture.New("raclette", suture.Spec{
			EventHook:        (&sutureslog.Handler{Logger: logger}).MustHook(),
			FailureThreshold: cfg.FailureThreshold,
			FailureDecay:     cfg.FailureDecay,
			FailureBackoff:   cfg.FailureBackoff,
			Timeout:          cfg.ShutdownTimeout,
		}),
	}
}

// Add registers a service with the tree. Must be called before Serve.
func (t *Tree) Add(svc suture.Service) {
	t.root.Add(svc)
}

// Serve blocks, supervising all added services until ctx is canceled.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}
