// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/timeline-sync/internal/events"
	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/models"
)

// finalSessionStatuses are the statuses Finish accepts.
var finalSessionStatuses = []models.SyncStatus{
	models.StatusSynced,
	models.StatusFailed,
	models.StatusConflict,
}

type sessionTracker struct {
	mu       sync.Mutex
	sessions map[string]models.SyncSession

	ids       IDGenerator
	now       func() time.Time
	publisher events.Publisher
	logger    *logger.Logger
}

// NewSessionTracker constructs an empty SessionTracker.
func NewSessionTracker(ids IDGenerator, now func() time.Time, publisher events.Publisher, log *logger.Logger) SessionTracker {
	if now == nil {
		now = time.Now
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &sessionTracker{
		sessions:  make(map[string]models.SyncSession),
		ids:       ids,
		now:       now,
		publisher: publisher,
		logger:    log,
	}
}

func (t *sessionTracker) Start(ctx context.Context, recordsTotal int) (models.SyncSession, error) {
	if recordsTotal < 0 {
		return models.SyncSession{}, fmt.Errorf("%w: negative records total %d", models.ErrValidation, recordsTotal)
	}

	session := models.SyncSession{
		ID:           t.ids.Generate(),
		StartedAt:    t.now(),
		Status:       models.StatusSyncing,
		RecordsTotal: recordsTotal,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[session.ID] = session
	t.publish(ctx, models.ChangeCreated, session)

	logger.FromContextOr(ctx, t.logger).Info().
		Str("func", "sessionTracker.Start").
		Str("session", session.ID).
		Int("records_total", recordsTotal).
		Msg("sync session started")

	return session, nil
}

func (t *sessionTracker) Advance(ctx context.Context, id string, processed, conflicts, errs int) (models.SyncSession, error) {
	if processed < 0 || conflicts < 0 || errs < 0 {
		return models.SyncSession{}, fmt.Errorf("%w: negative session increment", models.ErrValidation)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	session, ok := t.sessions[id]
	if !ok {
		return models.SyncSession{}, notFound(id)
	}
	if session.IsCompleted() {
		return session, fmt.Errorf("%w: session %s", models.ErrAlreadyCompleted, id)
	}

	session.RecordsProcessed = min(session.RecordsProcessed+processed, session.RecordsTotal)
	session.ConflictsDetected += conflicts
	session.ErrorsEncountered += errs
	t.sessions[id] = session

	t.publish(ctx, models.ChangeMutated, session)
	return session, nil
}

func (t *sessionTracker) Finish(ctx context.Context, id string, status models.SyncStatus) (models.SyncSession, error) {
	if !slices.Contains(finalSessionStatuses, status) {
		return models.SyncSession{}, fmt.Errorf("%w: %q is not a final session status", models.ErrValidation, status)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	session, ok := t.sessions[id]
	if !ok {
		return models.SyncSession{}, notFound(id)
	}
	if session.IsCompleted() {
		return session, fmt.Errorf("%w: session %s", models.ErrAlreadyCompleted, id)
	}

	completedAt := t.now()
	session.CompletedAt = &completedAt
	session.Status = status
	t.sessions[id] = session

	t.publish(ctx, models.ChangeResolved, session)

	logger.FromContextOr(ctx, t.logger).Info().
		Str("func", "sessionTracker.Finish").
		Str("session", id).
		Str("status", string(status)).
		Int("processed", session.RecordsProcessed).
		Int("conflicts", session.ConflictsDetected).
		Int("errors", session.ErrorsEncountered).
		Dur("elapsed", completedAt.Sub(session.StartedAt)).
		Msg("sync session finished")

	return session, nil
}

func (t *sessionTracker) Get(_ context.Context, id string) (models.SyncSession, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	session, ok := t.sessions[id]
	if !ok {
		return models.SyncSession{}, notFound(id)
	}
	return session, nil
}

func (t *sessionTracker) Active(_ context.Context) []models.SyncSession {
	t.mu.Lock()
	out := make([]models.SyncSession, 0, len(t.sessions))
	for _, s := range t.sessions {
		if !s.IsCompleted() {
			out = append(out, s)
		}
	}
	t.mu.Unlock()

	slices.SortFunc(out, func(a, b models.SyncSession) int {
		if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (t *sessionTracker) Restore(_ context.Context, sessions ...models.SyncSession) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range sessions {
		if s.ID == "" {
			return fmt.Errorf("%w: session without id", models.ErrValidation)
		}
		t.sessions[s.ID] = s
	}
	return nil
}

func (t *sessionTracker) publish(ctx context.Context, change models.ChangeKind, s models.SyncSession) {
	t.publisher.Publish(ctx, models.ChangeEvent{
		Entity:   models.EntitySyncSession,
		Change:   change,
		EntityID: s.ID,
		At:       t.now(),
		Payload:  s,
	})
}
