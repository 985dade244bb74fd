// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"

	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/internal/store"
	"github.com/MKhiriev/timeline-sync/models"
)

// DefaultPersistBuffer is the queue size used for a non-positive buffer.
const DefaultPersistBuffer = 256

// PersistWorker writes change events to the store. Events are queued by
// Enqueue, usually subscribed to the event bus, and applied in order by
// Run. Storage failures are logged; the in-memory state stays
// authoritative.
type PersistWorker struct {
	records   store.SyncRecordRepository
	conflicts store.ConflictRepository
	sessions  store.SessionRepository
	media     store.MediaRepository

	queue  chan models.ChangeEvent
	done   chan struct{}
	logger *logger.Logger
}

// NewPersistWorker builds a worker writing to storages.
func NewPersistWorker(storages *store.Storages, buffer int, log *logger.Logger) *PersistWorker {
	if buffer <= 0 {
		buffer = DefaultPersistBuffer
	}
	return &PersistWorker{
		records:   storages.SyncRecords,
		conflicts: storages.Conflicts,
		sessions:  storages.Sessions,
		media:     storages.Media,
		queue:     make(chan models.ChangeEvent, buffer),
		done:      make(chan struct{}),
		logger:    log.WithComponent("persist_worker"),
	}
}

// Enqueue queues event for persistence. It blocks while the queue is full
// and gives up when ctx is cancelled or the worker has stopped.
func (w *PersistWorker) Enqueue(ctx context.Context, event models.ChangeEvent) {
	select {
	case <-w.done:
		w.drop(event, "worker stopped")
		return
	default:
	}

	select {
	case w.queue <- event:
	case <-ctx.Done():
		w.drop(event, "context cancelled")
	case <-w.done:
		w.drop(event, "worker stopped")
	}
}

// Run applies queued events until ctx is cancelled, then flushes what is
// left in the queue.
func (w *PersistWorker) Run(ctx context.Context) error {
	w.logger.Info().Msg("persist worker started")
	for {
		select {
		case event := <-w.queue:
			w.persist(ctx, event)
		case <-ctx.Done():
			close(w.done)
			w.flush(context.WithoutCancel(ctx))
			w.logger.Info().Msg("persist worker stopped")
			return nil
		}
	}
}

func (w *PersistWorker) flush(ctx context.Context) {
	for {
		select {
		case event := <-w.queue:
			w.persist(ctx, event)
		default:
			return
		}
	}
}

func (w *PersistWorker) persist(ctx context.Context, event models.ChangeEvent) {
	var err error

	switch event.Entity {
	case models.EntitySyncRecord:
		if event.Change == models.ChangeRemoved {
			err = w.records.DeleteSyncRecords(ctx, event.EntityID)
			break
		}
		if record, ok := event.Payload.(models.SyncRecord); ok {
			err = w.records.SaveSyncRecords(ctx, record)
		} else {
			w.drop(event, "unexpected payload")
		}

	case models.EntitySyncConflict:
		if c, ok := event.Payload.(models.SyncConflict); ok {
			err = w.conflicts.SaveConflicts(ctx, c)
		} else {
			w.drop(event, "unexpected payload")
		}

	case models.EntitySyncSession:
		if s, ok := event.Payload.(models.SyncSession); ok {
			err = w.sessions.SaveSessions(ctx, s)
		} else {
			w.drop(event, "unexpected payload")
		}

	case models.EntityMediaFile:
		if event.Change == models.ChangeRemoved {
			err = w.media.DeleteMediaFiles(ctx, event.EntityID)
			break
		}
		if f, ok := event.Payload.(models.MediaFileMetadata); ok {
			err = w.media.SaveMediaFiles(ctx, f)
		} else {
			w.drop(event, "unexpected payload")
		}

	default:
		w.drop(event, "unknown entity")
	}

	if err != nil {
		w.logger.Err(err).
			Str("func", "PersistWorker.persist").
			Str("entity", string(event.Entity)).
			Str("change", string(event.Change)).
			Str("entity_id", event.EntityID).
			Msg("failed to persist change event")
	}
}

func (w *PersistWorker) drop(event models.ChangeEvent, reason string) {
	w.logger.Warn().
		Str("entity", string(event.Entity)).
		Str("change", string(event.Change)).
		Str("entity_id", event.EntityID).
		Str("reason", reason).
		Msg("change event not persisted")
}
