// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/timeline-sync/internal/logger"
)

// DefaultSyncInterval is used when Start gets a non-positive interval.
const DefaultSyncInterval = 5 * time.Minute

type syncJob struct {
	runner SyncRunner
	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a SyncJob that calls runner.Run on a ticker. The job is
// idle until Start is called.
func NewSyncJob(runner SyncRunner, log *logger.Logger) SyncJob {
	if log == nil {
		log = logger.Nop()
	}
	return &syncJob{runner: runner, logger: log}
}

// Start implements SyncJob. It stops any previously running job, then
// launches a goroutine that runs a batch every interval. The goroutine exits
// when ctx is cancelled or Stop is called.
func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.tick(jobCtx)
			}
		}
	}()
}

func (j *syncJob) tick(ctx context.Context) {
	session, err := j.runner.Run(ctx)
	if err != nil {
		if ctx.Err() == nil {
			j.logger.Err(err).Str("func", "syncJob.tick").Msg("sync run failed")
		}
		return
	}
	j.logger.Debug().
		Str("func", "syncJob.tick").
		Str("session", session.ID).
		Str("status", string(session.Status)).
		Int("processed", session.RecordsProcessed).
		Int("conflicts", session.ConflictsDetected).
		Int("errors", session.ErrorsEncountered).
		Msg("sync run finished")
}

// Stop implements SyncJob. It cancels the goroutine and blocks until it has
// exited. Safe to call when the job is not running.
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
