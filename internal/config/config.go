// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

// Package config provides layered configuration loading for Raclette using
// Koanf v2. Precedence: environment variables > config file > defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Raclette server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Logging   LoggingConfig   `koanf:"logging"`
	Lunch     LunchConfig     `koanf:"lunch"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	API       APIConfig       `koanf:"api"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// StoreConfig holds BadgerDB storage settings.
type StoreConfig struct {
	// Path is the directory for the Badger database files.
	Path string `koanf:"path"`

	// InMemory runs Badger without disk persistence. Used by tests.
	InMemory bool `koanf:"in_memory"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// LunchConfig holds the scoring weights for the suggestion engine.
// See internal/lunch for the meaning of each term.
type LunchConfig struct {
	TagPreferenceWeight float64 `koanf:"tag_preference_weight"`
	OccasionVoteWeight  float64 `koanf:"occasion_vote_weight"`
	GeneralVoteWeight   float64 `koanf:"general_vote_weight"`
	DefaultVisitDays    int     `koanf:"default_visit_days"`
	VisitFloorDays      int     `koanf:"visit_floor_days"`
}

// SchedulerConfig holds settings for automatic lunch time creation.
type SchedulerConfig struct {
	// Enabled turns on the weekday occasion scheduler.
	Enabled bool `koanf:"enabled"`

	// Hour is the local hour (0-23) at which today's occasion is created.
	Hour int `koanf:"hour"`
}

// APIConfig holds HTTP API settings.
type APIConfig struct {
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required unless store.in_memory is set")
	}
	if c.Scheduler.Hour < 0 || c.Scheduler.Hour > 23 {
		return fmt.Errorf("scheduler.hour must be between 0 and 23, got %d", c.Scheduler.Hour)
	}
	if c.Lunch.DefaultVisitDays < 1 {
		return fmt.Errorf("lunch.default_visit_days must be at least 1, got %d", c.Lunch.DefaultVisitDays)
	}
	if c.Lunch.VisitFloorDays < 1 {
		return fmt.Errorf("lunch.visit_floor_days must be at least 1, got %d", c.Lunch.VisitFloorDays)
	}
	if c.API.RateLimitReqs < 1 {
		return fmt.Errorf("api.rate_limit_reqs must be at least 1, got %d", c.API.RateLimitReqs)
	}
	if c.API.RateLimitWindow <= 0 {
		return fmt.Errorf("api.rate_limit_window must be positive, got %s", c.API.RateLimitWindow)
	}
	return nil
}

// Addr returns the host:port address for the HTTP listener.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
