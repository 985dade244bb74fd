// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/timeline-sync/internal/service"
	"github.com/MKhiriev/timeline-sync/internal/validators"
)

// runSync performs one pass synchronously. A run already in progress from
// the background job is not waited for; records it holds are skipped.
func (h *Handler) runSync(w http.ResponseWriter, r *http.Request) {
	session, err := h.services.Runner.Run(r.Context())
	if err != nil {
		h.writeError(w, r, "*Handler.runSync", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// applyManifest classifies tracked records against the posted manifest,
// marks the affected ones for download and returns the plan.
func (h *Handler) applyManifest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var manifest []service.ManifestEntry
	if err := decodeJSON(r, &manifest); err != nil {
		h.writeError(w, r, "*Handler.applyManifest", err)
		return
	}
	for i, entry := range manifest {
		if err := validators.ValidateStruct(ctx, entry); err != nil {
			h.writeError(w, r, "*Handler.applyManifest", fmt.Errorf("manifest entry %d: %w", i, err))
			return
		}
	}

	plan, err := h.services.Planner.BuildSyncPlan(ctx, h.services.Records.List(ctx), manifest)
	if err != nil {
		h.writeError(w, r, "*Handler.applyManifest", err)
		return
	}
	if err = h.services.Runner.Apply(ctx, plan); err != nil {
		h.writeError(w, r, "*Handler.applyManifest", err)
		return
	}

	plan.Upload = orEmpty(plan.Upload)
	plan.Download = orEmpty(plan.Download)
	plan.Missing = orEmpty(plan.Missing)
	plan.RemoteDeleted = orEmpty(plan.RemoteDeleted)
	writeJSON(w, http.StatusOK, plan)
}
