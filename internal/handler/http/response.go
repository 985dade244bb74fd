// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/internal/utils"
)

const msgInternalServerError = "internal server error"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	_, _ = utils.WriteJSON(w, v, status)
}

// writeError maps err to a status code. Server-side failures are logged and
// hidden behind a generic message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	status := statusFromError(err)
	log := logger.FromContextOr(r.Context(), h.logger)

	if status >= http.StatusInternalServerError {
		log.Err(err).Str("func", fn).Msg("request failed")
		writeJSON(w, status, errorResponse{Error: msgInternalServerError})
		return
	}

	log.Debug().Err(err).Str("func", fn).Int("status", status).Msg("request rejected")
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}

// orEmpty keeps empty collections encoded as [] rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, "*Handler.notFound", fmt.Errorf("%w: %s %s", errRouteNotFound, r.Method, r.URL.Path))
}
