// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/timeline-sync/internal/cache"
	"github.com/MKhiriev/timeline-sync/models"
)

type statusResponse struct {
	Records        map[models.SyncStatus]int `json:"records"`
	Pending        int                       `json:"pending"`
	OpenConflicts  int                       `json:"open_conflicts"`
	ActiveSessions []models.SyncSession      `json:"active_sessions"`
	Cache          cache.Usage               `json:"cache"`
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts := make(map[models.SyncStatus]int)
	for _, rec := range h.services.Records.List(ctx) {
		counts[rec.SyncStatus]++
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Records:        counts,
		Pending:        len(h.services.Records.Pending(ctx)),
		OpenConflicts:  len(h.services.Conflicts.Open(ctx)),
		ActiveSessions: orEmpty(h.services.Sessions.Active(ctx)),
		Cache:          h.services.Media.Usage(),
	})
}
