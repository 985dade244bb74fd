// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/internal/metrics"
	"github.com/MKhiriev/timeline-sync/internal/service"
)

// Handler serves the engine's operational endpoints.
type Handler struct {
	services  *service.Services
	collector *metrics.Collector

	logger *logger.Logger
}

func NewHandler(services *service.Services, collector *metrics.Collector, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:  services,
		collector: collector,
		logger:    logger,
	}
}
