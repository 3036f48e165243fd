// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/btcmap/gazetteer/internal/config"
	"github.com/btcmap/gazetteer/internal/middleware"
)

// Router wires handlers into the Chi routing tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for the given handler.
func NewRouter(handler *Handler, security config.SecurityConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddlewareFromSecurity(security),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order. CORS is global so
	// OPTIONS preflight requests are handled everywhere.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// Health endpoints get permissive rate limiting so monitoring can poll
	// frequently.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Lint endpoints: cached reads plus the sync trigger and fix actions.
	r.Route("/api/v1/lint", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		// Sync walks the whole upstream dataset; keep triggers rare.
		r.With(router.chiMiddleware.RateLimitCustom(RateLimitSync)).
			Post("/sync", router.handler.TriggerSync)
		r.Get("/sync", router.handler.SyncStatus)

		r.Get("/results", router.handler.LintResults)
		r.Get("/summary", router.handler.LintSummary)
		r.Get("/rules", router.handler.LintRules)
		r.Get("/tags", router.handler.LintTags)
		r.Get("/countries", router.handler.LintCountries)

		r.Get("/areas/{id}", router.handler.AreaReport)
		r.With(router.chiMiddleware.RateLimitCustom(RateLimitWrite)).
			Post("/areas/{id}/fix", router.handler.FixArea)
	})

	// Area CRUD proxied to the upstream API, with schema validation on
	// writes.
	r.Route("/api/v1/areas", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/search", router.handler.SearchAreas)
		r.Get("/{id}", router.handler.GetArea)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitWrite))
			r.Post("/", router.handler.CreateArea)
			r.Put("/{id}/tags", router.handler.SetAreaTag)
			r.Delete("/{id}/tags/{name}", router.handler.RemoveAreaTag)
			r.Delete("/{id}", router.handler.DeleteArea)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
