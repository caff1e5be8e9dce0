// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/raclette/config.yaml",
	"/etc/raclette/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8475,
			Timeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Path:     "/data/raclette",
			InMemory: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		// The weight constants that drive venue scoring. Occasion votes
		// dominate, general votes and tag preferences are soft signals.
		Lunch: LunchConfig{
			TagPreferenceWeight: 1.5,
			OccasionVoteWeight:  3.0,
			GeneralVoteWeight:   1.0,
			DefaultVisitDays:    30,
			VisitFloorDays:      1,
		},
		Scheduler: SchedulerConfig{
			Enabled: true,
			Hour:    1,
		},
		API: APIConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values
//  2. Config file: optional YAML (if found)
//  3. Environment variables: override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	// RACLETTE_HTTP_PORT -> server.port etc.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as comma-separated
// slices when they arrive via environment variables.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings but the config expects
// slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped keys are skipped so random environment variables do not pollute
// the configuration.
func envTransformFunc(key string) string {
	mappings := map[string]string{
		"RACLETTE_HTTP_HOST":    "server.host",
		"RACLETTE_HTTP_PORT":    "server.port",
		"RACLETTE_HTTP_TIMEOUT": "server.timeout",

		"RACLETTE_STORE_PATH":      "store.path",
		"RACLETTE_STORE_IN_MEMORY": "store.in_memory",

		"RACLETTE_LOG_LEVEL":  "logging.level",
		"RACLETTE_LOG_FORMAT": "logging.format",
		"RACLETTE_LOG_CALLER": "logging.caller",

		"RACLETTE_TAG_PREFERENCE_WEIGHT": "lunch.tag_preference_weight",
		"RACLETTE_OCCASION_VOTE_WEIGHT":  "lunch.occasion_vote_weight",
		"RACLETTE_GENERAL_VOTE_WEIGHT":   "lunch.general_vote_weight",
		"RACLETTE_DEFAULT_VISIT_DAYS":    "lunch.default_visit_days",
		"RACLETTE_VISIT_FLOOR_DAYS":      "lunch.visit_floor_days",

		"RACLETTE_SCHEDULER_ENABLED": "scheduler.enabled",
		"RACLETTE_SCHEDULER_HOUR":    "scheduler.hour",

		"RACLETTE_CORS_ORIGINS":      "api.cors_origins",
		"RACLETTE_RATE_LIMIT_REQS":   "api.rate_limit_reqs",
		"RACLETTE_RATE_LIMIT_WINDOW": "api.rate_limit_window",
	}

	if mapped, ok := mappings[key]; ok {
		return mapped
	}
	return ""
}
