// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/timeline-sync/models"
)

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	var statuses []models.SyncStatus
	for _, raw := range r.URL.Query()["status"] {
		status := models.SyncStatus(raw)
		if !status.IsValid() {
			h.writeError(w, r, "*Handler.listRecords", fmt.Errorf("%w: unknown status %q", ErrInvalidQuery, raw))
			return
		}
		statuses = append(statuses, status)
	}

	writeJSON(w, http.StatusOK, orEmpty(h.services.Records.List(r.Context(), statuses...)))
}

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.services.Records.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "*Handler.getRecord", err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
