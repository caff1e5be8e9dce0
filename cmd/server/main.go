// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

// Command server runs the Raclette HTTP server: a lunch venue catalog with
// tag-based preferences, two vote ledgers, and a scored daily suggestion.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/racasse/raclette/internal/api"
	"github.com/racasse/raclette/internal/config"
	"github.com/racasse/raclette/internal/logging"
	"github.com/racasse/raclette/internal/lunch"
	"github.com/racasse/raclette/internal/service"
	"github.com/racasse/raclette/internal/store"
	"github.com/racasse/raclette/internal/supervisor"
	"github.com/racasse/raclette/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	st, err := store.Open(store.Options{
		Path:     cfg.Store.Path,
		InMemory: cfg.Store.InMemory,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("store close failed")
		}
	}()

	engine, err := lunch.NewEngine(&lunch.Config{
		TagPreferenceWeight: cfg.Lunch.TagPreferenceWeight,
		OccasionVoteWeight:  cfg.Lunch.OccasionVoteWeight,
		GeneralVoteWeight:   cfg.Lunch.GeneralVoteWeight,
		DefaultVisitDays:    cfg.Lunch.DefaultVisitDays,
		VisitFloorDays:      cfg.Lunch.VisitFloorDays,
	}, logger)
	if err != nil {
		return err
	}
	engine.SetDataProvider(st)

	svc := service.New(st, engine, logger)
	handler := api.NewHandler(svc, logger)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler, &cfg.API),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.Add(services.NewHTTPServerService(server))

	if cfg.Scheduler.Enabled {
		scheduler, err := service.NewScheduler(svc, cfg.Scheduler.Hour, logger)
		if err != nil {
			return err
		}
		tree.Add(services.NewLunchSchedulerService(scheduler))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Bool("scheduler", cfg.Scheduler.Enabled).
		Msg("raclette starting")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logging.Info().Msg("raclette stopped")
	return nil
}
