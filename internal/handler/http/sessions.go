// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) activeSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orEmpty(h.services.Sessions.Active(r.Context())))
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.services.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "*Handler.getSession", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
