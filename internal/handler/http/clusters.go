// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/timeline-sync/internal/clustering"
	"github.com/MKhiriev/timeline-sync/models"
)

// cluster groups the posted assets. The context query parameter selects a
// preset instead of the configured thresholds.
func (h *Handler) cluster(w http.ResponseWriter, r *http.Request) {
	cfg := h.services.ClusteringConfig
	if raw := r.URL.Query().Get("context"); raw != "" {
		ct := models.ContextType(raw)
		if !ct.IsValid() {
			h.writeError(w, r, "*Handler.cluster", fmt.Errorf("%w: unknown context %q", ErrInvalidQuery, raw))
			return
		}
		cfg = clustering.ForContext(ct)
	}

	var assets []models.MediaAsset
	if err := decodeJSON(r, &assets); err != nil {
		h.writeError(w, r, "*Handler.cluster", err)
		return
	}

	clusters, err := h.services.Clustering.Cluster(r.Context(), assets, cfg)
	if err != nil {
		h.writeError(w, r, "*Handler.cluster", err)
		return
	}
	writeJSON(w, http.StatusOK, clusters)
}
