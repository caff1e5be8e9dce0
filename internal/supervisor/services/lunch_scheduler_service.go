// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package services

import (
	"context"
	"fmt"
)

// LunchSchedulerManager matches the lunch-time scheduler lifecycle. Satisfied
// by *service.Scheduler.
type LunchSchedulerManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// LunchSchedulerService adapts the scheduler's Start/Stop lifecycle to
// suture's Serve pattern: start, block until cancellation, stop.
type LunchSchedulerService struct {
	manager LunchSchedulerManager
	name    string
}

// NewLunchSchedulerService wraps a scheduler for the supervision tree.
func NewLunchSchedulerService(manager LunchSchedulerManager) *LunchSchedulerService {
	return &LunchSchedulerService{
		manager: manager,
		name:    "lunch-scheduler",
	}
}

// Serve implements suture.Service. If Start fails, the error is returned so
// suture restarts the service with backoff.
func (s *LunchSchedulerService) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("lunch scheduler start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("lunch scheduler stop failed: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer for supervision logs.
func (s *LunchSchedulerService) String() string {
	return s.name
}
