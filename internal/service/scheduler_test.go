// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNextWeekdayRun(t *testing.T) {
	t.Parallel()

	at := func(y int, m time.Month, d, h int) time.Time {
		return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		now  time.Time
		hour int
		want time.Time
	}{
		{
			name: "before the hour fires same day",
			now:  at(2026, time.March, 2, 0), // Monday
			hour: 1,
			want: at(2026, time.March, 2, 1),
		},
		{
			name: "after the hour fires next day",
			now:  at(2026, time.March, 2, 9), // Monday
			hour: 1,
			want: at(2026, time.March, 3, 1),
		},
		{
			name: "exactly on the hour fires next day",
			now:  at(2026, time.March, 2, 1),
			hour: 1,
			want: at(2026, time.March, 3, 1),
		},
		{
			name: "friday evening skips the weekend",
			now:  at(2026, time.March, 6, 9), // Friday
			hour: 1,
			want: at(2026, time.March, 9, 1), // Monday
		},
		{
			name: "saturday skips to monday",
			now:  at(2026, time.March, 7, 0), // Saturday
			hour: 10,
			want: at(2026, time.March, 9, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := nextWeekdayRun(tt.now, tt.hour)
			if !got.Equal(tt.want) {
				t.Errorf("nextWeekdayRun(%v, %d) = %v, want %v", tt.now, tt.hour, got, tt.want)
			}
		})
	}
}

func TestSchedulerRejectsBadHour(t *testing.T) {
	t.Parallel()

	if _, err := NewScheduler(nil, 24, zerolog.Nop()); err == nil {
		t.Error("NewScheduler() should reject hour 24")
	}
	if _, err := NewScheduler(nil, -1, zerolog.Nop()); err == nil {
		t.Error("NewScheduler() should reject a negative hour")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	scheduler, err := NewScheduler(svc, 1, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	ctx := t.Context()
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := scheduler.Start(ctx); err == nil {
		t.Error("second Start() should fail")
	}

	if err := scheduler.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	// Stop is idempotent.
	if err := scheduler.Stop(); err != nil {
		t.Errorf("repeated Stop() error = %v", err)
	}
}
