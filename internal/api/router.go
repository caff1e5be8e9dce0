// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/racasse/raclette/internal/config"
)

// NewRouter builds the HTTP routing tree.
func NewRouter(handler *Handler, cfg *config.APIConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/api/v1/health", handler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
		r.Use(prometheusMetrics)

		r.Route("/places", func(r chi.Router) {
			r.Get("/", handler.ListPlaces)
			r.Post("/", handler.AddPlace)
			r.Get("/{name}", handler.GetPlace)
			r.Post("/{name}/tags", handler.AddPlaceTag)
			r.Delete("/{name}/tags/{tag}", handler.RemovePlaceTag)
		})

		r.Route("/persons", func(r chi.Router) {
			r.Get("/", handler.ListPersons)
			r.Post("/", handler.AddPerson)
			r.Get("/{name}", handler.GetPerson)
			r.Post("/{name}/tags", handler.AddPersonTag)
			r.Delete("/{name}/tags/{tag}", handler.RemovePersonTag)
		})

		r.Post("/votes", handler.AddVote)

		r.Route("/lunch", func(r chi.Router) {
			r.Post("/times", handler.CreateLunchTime)
			r.Post("/participants", handler.AddParticipant)
			r.Delete("/participants/{name}", handler.RemoveParticipant)
			r.Post("/votes", handler.AddLunchVote)
			r.Get("/suggestion", handler.LatestSuggestion)
			r.Post("/suggestion", handler.Suggest)
			r.Get("/status", handler.Status)
			r.Post("/decision", handler.Decide)
		})
	})

	return r
}
