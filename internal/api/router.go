// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/autoban/internal/detection"
	"github.com/tomtom215/autoban/internal/middleware"
)

// EntityReader exposes tracked entity state.
type EntityReader interface {
	Snapshot(id detection.EntityID) (detection.EntityState, bool)
	Len() int
}

// AlertReader exposes persisted alert history.
type AlertReader interface {
	List(entity detection.EntityID, limit int) ([]detection.Alert, error)
	Recent(limit int) ([]detection.Alert, error)
}

// HostCounter reports connected telemetry hosts.
type HostCounter interface {
	GetClientCount() int
}

// Dependencies are the components the API reads from. Alerts, Hosts and
// Telemetry may be nil; their routes then report unavailable or are not
// mounted.
type Dependencies struct {
	Entities  EntityReader
	Alerts    AlertReader
	Hosts     HostCounter
	Telemetry http.Handler
}

// Router owns the HTTP handlers.
type Router struct {
	deps       Dependencies
	middleware *Middleware
}

// NewRouter creates a router.
func NewRouter(deps Dependencies, cfg MiddlewareConfig) *Router {
	return &Router{deps: deps, middleware: NewMiddleware(cfg)}
}

// Handler builds the chi route tree.
func (router *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.middleware.CORS())

	r.Get("/healthz", router.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		if router.deps.Telemetry != nil {
			r.Method(http.MethodGet, "/telemetry", router.deps.Telemetry)
		}

		r.Group(func(r chi.Router) {
			r.Use(router.middleware.RateLimit())
			r.Use(APISecurityHeaders())

			r.Get("/entities/{id}", router.Entity)
			r.Get("/alerts", router.Alerts)
		})
	})

	return r
}
