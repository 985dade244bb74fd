// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/timeline-sync/internal/metrics"
)

// Init builds the router.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	// health and metrics stay out of the access log
	router.Get("/healthz", h.health)
	router.Method(http.MethodGet, "/metrics", metrics.Handler(h.collector))

	router.Route("/api", func(r chi.Router) {
		r.Use(h.withTraceID)
		r.Use(h.withLogging)
		r.Use(withActor)
		r.Use(middleware.Compress(5, "application/json"))

		r.Get("/status", h.status)

		r.Get("/records", h.listRecords)
		r.Get("/records/{id}", h.getRecord)

		r.Get("/conflicts", h.listConflicts)
		r.Get("/conflicts/{id}", h.getConflict)
		r.Post("/conflicts/{id}/resolve", h.resolveConflict)

		r.Get("/sessions/active", h.activeSessions)
		r.Get("/sessions/{id}", h.getSession)

		r.Post("/sync", h.runSync)
		r.Post("/manifest", h.applyManifest)

		r.Get("/cache", h.cacheUsage)
		r.Get("/cache/plan", h.cacheSyncPlan)

		r.Post("/clusters", h.cluster)
	})

	router.NotFound(h.notFound)
	router.MethodNotAllowed(h.notFound)

	return router
}
