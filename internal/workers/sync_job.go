// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/timeline-sync/internal/service"
)

// SyncJobWorker runs a service.SyncJob for the lifetime of Run.
type SyncJobWorker struct {
	job      service.SyncJob
	interval time.Duration
}

// NewSyncJobWorker wraps job.
func NewSyncJobWorker(job service.SyncJob, interval time.Duration) *SyncJobWorker {
	return &SyncJobWorker{job: job, interval: interval}
}

// Run starts the job and stops it once ctx is cancelled.
func (w *SyncJobWorker) Run(ctx context.Context) error {
	w.job.Start(ctx, w.interval)
	<-ctx.Done()
	w.job.Stop()
	return nil
}
