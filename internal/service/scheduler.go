// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler opens the day's lunch occasion automatically on weekday mornings,
// so the team never has to remember to create one before voting starts.
type Scheduler struct {
	svc    *Service
	logger zerolog.Logger
	hour   int

	// now is the clock used to plan runs. Replaceable in tests.
	now func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a scheduler firing daily at the given hour (0-23).
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewScheduler(svc *Service, hour int, logger zerolog.Logger) (*Scheduler, error) {
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("scheduler hour %d out of range", hour)
	}
	return &Scheduler{
		svc:    svc,
		logger: logger.With().Str("component", "scheduler").Logger(),
		hour:   hour,
		now:    time.Now,
	}, nil
}

// Start launches the scheduling loop. Returns an error if already started.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return errors.New("scheduler already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(runCtx, s.done)
	s.logger.Info().Int("hour", s.hour).Msg("scheduler started")
	return nil
}

// Stop terminates the scheduling loop and waits for it to exit.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

// run sleeps until the next planned firing, fires, and repeats.
func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		next := nextWeekdayRun(s.now(), s.hour)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.fire(ctx)
		}
	}
}

// fire opens today's occasion. An occasion that already exists is fine; any
// other failure is logged and retried at the next firing.
func (s *Scheduler) fire(ctx context.Context) {
	lunchTime, err := s.svc.CreateLunchTimeForToday(ctx)

	var userErr *UserError
	switch {
	case err == nil:
		s.logger.Info().Time("date", lunchTime).Msg("lunch time created automatically")
	case errors.As(err, &userErr):
		s.logger.Debug().Str("reason", userErr.Message).Msg("lunch time already open")
	default:
		s.logger.Error().Err(err).Msg("automatic lunch time creation failed")
	}
}

// nextWeekdayRun returns the first instant strictly after now that falls on a
// weekday at the given hour, in now's location.
func nextWeekdayRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
