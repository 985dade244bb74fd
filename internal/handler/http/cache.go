// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"
	"strconv"
)

type cachePlanResponse struct {
	Available int64    `json:"available"`
	URLs      []string `json:"urls"`
}

func (h *Handler) cacheUsage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.services.Media.Usage())
}

func (h *Handler) cacheSyncPlan(w http.ResponseWriter, r *http.Request) {
	available, err := strconv.ParseInt(r.URL.Query().Get("available"), 10, 64)
	if err != nil || available < 0 {
		h.writeError(w, r, "*Handler.cacheSyncPlan", fmt.Errorf("%w: available must be a non-negative byte count", ErrInvalidQuery))
		return
	}

	writeJSON(w, http.StatusOK, cachePlanResponse{
		Available: available,
		URLs:      orEmpty(h.services.Media.SyncPlan(available)),
	})
}
