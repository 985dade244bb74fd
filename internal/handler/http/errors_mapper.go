// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/timeline-sync/models"
)

var errorStatusMap = map[error]int{
	ErrInvalidJSON:   http.StatusBadRequest,
	ErrInvalidQuery:  http.StatusBadRequest,
	errRouteNotFound: http.StatusNotFound,

	models.ErrValidation:            http.StatusBadRequest,
	models.ErrUnknownStrategy:       http.StatusBadRequest,
	models.ErrMissingResolutionData: http.StatusBadRequest,
	models.ErrNotFound:              http.StatusNotFound,
	models.ErrInvalidState:          http.StatusConflict,
	models.ErrAlreadyResolved:       http.StatusConflict,
	models.ErrAlreadyCompleted:      http.StatusConflict,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
