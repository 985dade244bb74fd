// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/internal/service"
	"github.com/MKhiriev/timeline-sync/models"
)

// DefaultRetryInterval is used for a non-positive interval.
const DefaultRetryInterval = time.Minute

// RetryWorker periodically moves Failed records with RetryCount below
// maxRetries back to PendingUpload.
type RetryWorker struct {
	records    service.SyncRecordService
	maxRetries int
	interval   time.Duration
	logger     *logger.Logger
}

// NewRetryWorker builds a RetryWorker. A zero maxRetries disables requeueing.
func NewRetryWorker(records service.SyncRecordService, maxRetries int, interval time.Duration, log *logger.Logger) *RetryWorker {
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	return &RetryWorker{
		records:    records,
		maxRetries: maxRetries,
		interval:   interval,
		logger:     log.WithComponent("retry_worker"),
	}
}

// Run requeues on every tick until ctx is cancelled.
func (w *RetryWorker) Run(ctx context.Context) error {
	t := time.NewTicker(w.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := w.RequeueFailed(ctx); n > 0 {
				w.logger.Info().Int("requeued", n).Msg("failed records requeued")
			}
		}
	}
}

// RequeueFailed performs one pass and returns the number of requeued
// records.
func (w *RetryWorker) RequeueFailed(ctx context.Context) int {
	requeued := 0
	for _, record := range w.records.List(ctx, models.StatusFailed) {
		if ctx.Err() != nil {
			break
		}
		if record.RetryCount >= w.maxRetries {
			continue
		}

		if _, err := w.records.Retry(ctx, record.ID); err != nil {
			// the record may have moved on since List
			if errors.Is(err, models.ErrInvalidState) || errors.Is(err, models.ErrNotFound) {
				w.logger.Debug().Err(err).Str("id", record.ID).Msg("record skipped")
				continue
			}
			w.logger.Err(err).Str("func", "RetryWorker.RequeueFailed").Str("id", record.ID).Msg("failed to requeue record")
			continue
		}
		requeued++
	}
	return requeued
}
