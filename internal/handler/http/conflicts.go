// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/timeline-sync/internal/conflict"
	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/models"
)

type resolveRequest struct {
	Strategy models.ResolutionStrategy `json:"strategy"`
	// ResolvedBy overrides the X-Actor header.
	ResolvedBy string `json:"resolved_by,omitempty"`
	// Data is the merged row for a manual merge.
	Data *models.FieldMap `json:"data,omitempty"`
	Note *string          `json:"note,omitempty"`
}

type resolveResponse struct {
	Conflict models.SyncConflict `json:"conflict"`
	Record   *models.SyncRecord  `json:"record,omitempty"`
}

func (h *Handler) listConflicts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orEmpty(h.services.Conflicts.Open(r.Context())))
}

func (h *Handler) getConflict(w http.ResponseWriter, r *http.Request) {
	c, err := h.services.Conflicts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "*Handler.getConflict", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) resolveConflict(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOr(r.Context(), h.logger)

	var req resolveRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "*Handler.resolveConflict", err)
		return
	}

	var opts []conflict.ResolveOption
	if req.Data != nil {
		opts = append(opts, conflict.WithManualData(*req.Data))
	}
	if req.Note != nil {
		opts = append(opts, conflict.WithNote(*req.Note))
	}

	id := chi.URLParam(r, "id")
	c, record, err := h.services.ResolveConflict(r.Context(), id, req.Strategy, req.ResolvedBy, opts...)
	if err != nil {
		h.writeError(w, r, "*Handler.resolveConflict", err)
		return
	}

	resp := resolveResponse{Conflict: c}
	if record.ID != "" {
		resp.Record = &record
	}

	log.Info().
		Str("func", "*Handler.resolveConflict").
		Str("conflict", id).
		Str("strategy", string(req.Strategy)).
		Msg("conflict resolution applied")
	writeJSON(w, http.StatusOK, resp)
}
