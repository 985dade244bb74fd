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

	"github.com/MKhiriev/timeline-sync/internal/conflict"
	"github.com/MKhiriev/timeline-sync/internal/events"
	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/internal/utils"
	"github.com/MKhiriev/timeline-sync/models"
)

type conflictService struct {
	mu        sync.Mutex
	conflicts map[string]models.SyncConflict

	detector  *conflict.Detector
	resolver  *conflict.Resolver
	batch     conflict.BatchOptions
	now       func() time.Time
	publisher events.Publisher
	logger    *logger.Logger
}

// NewConflictService constructs an empty ConflictService. batch tunes
// DetectBatch.
func NewConflictService(ids IDGenerator, now func() time.Time, batch conflict.BatchOptions, publisher events.Publisher, log *logger.Logger) ConflictService {
	if now == nil {
		now = time.Now
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &conflictService{
		conflicts: make(map[string]models.SyncConflict),
		detector:  conflict.NewDetector(ids, now),
		resolver:  conflict.NewResolver(now),
		batch:     batch,
		now:       now,
		publisher: publisher,
		logger:    log,
	}
}

func (s *conflictService) Detect(ctx context.Context, in conflict.Input) (models.SyncConflict, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.SyncConflict{}, false, err
	}

	c, found := s.detector.DetectConflict(in)
	if !found {
		return models.SyncConflict{}, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflicts[c.ID] = c
	s.publish(ctx, models.ChangeCreated, c)

	logger.FromContextOr(ctx, s.logger).Info().
		Str("func", "conflictService.Detect").
		Str("conflict", c.ID).
		Str("table", c.TableName).
		Str("record", c.RecordID).
		Strs("fields", c.ConflictingFields).
		Msg("conflict detected")

	return c.Clone(), true, nil
}

func (s *conflictService) DetectBatch(ctx context.Context, inputs []conflict.Input) ([]models.SyncConflict, error) {
	found, err := s.detector.DetectBatch(ctx, inputs, s.batch)
	if err != nil {
		return nil, fmt.Errorf("detect conflicts in batch of %d: %w", len(inputs), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SyncConflict, 0, len(found))
	for _, c := range found {
		s.conflicts[c.ID] = c
		s.publish(ctx, models.ChangeCreated, c)
		out = append(out, c.Clone())
	}
	return out, nil
}

func (s *conflictService) Resolve(ctx context.Context, id string, strategy models.ResolutionStrategy, resolvedBy string, opts ...conflict.ResolveOption) (models.SyncConflict, error) {
	if resolvedBy == "" {
		resolvedBy, _ = utils.GetActorFromContext(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.conflicts[id]
	if !ok {
		return models.SyncConflict{}, notFound(id)
	}

	next, err := s.resolver.Resolve(current, strategy, resolvedBy, opts...)
	if err != nil {
		return current.Clone(), err
	}
	s.conflicts[id] = next

	change := models.ChangeResolved
	if !next.IsResolved() {
		change = models.ChangeMutated
	}
	s.publish(ctx, change, next)

	logger.FromContextOr(ctx, s.logger).Info().
		Str("func", "conflictService.Resolve").
		Str("conflict", id).
		Str("strategy", string(strategy)).
		Str("by", resolvedBy).
		Bool("resolved", next.IsResolved()).
		Msg("conflict decision recorded")

	return next.Clone(), nil
}

func (s *conflictService) Get(_ context.Context, id string) (models.SyncConflict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conflicts[id]
	if !ok {
		return models.SyncConflict{}, notFound(id)
	}
	return c.Clone(), nil
}

func (s *conflictService) Open(_ context.Context) []models.SyncConflict {
	s.mu.Lock()
	out := make([]models.SyncConflict, 0, len(s.conflicts))
	for _, c := range s.conflicts {
		if !c.IsResolved() {
			out = append(out, c.Clone())
		}
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b models.SyncConflict) int {
		if c := a.DetectedAt.Compare(b.DetectedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (s *conflictService) ForRow(ctx context.Context, tableName, recordID string) (models.SyncConflict, bool) {
	for _, c := range s.Open(ctx) {
		if c.TableName == tableName && c.RecordID == recordID {
			return c, true
		}
	}
	return models.SyncConflict{}, false
}

func (s *conflictService) Restore(_ context.Context, conflicts ...models.SyncConflict) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range conflicts {
		if c.ID == "" {
			return fmt.Errorf("%w: conflict without id", models.ErrValidation)
		}
		s.conflicts[c.ID] = c.Clone()
	}
	return nil
}

func (s *conflictService) publish(ctx context.Context, change models.ChangeKind, c models.SyncConflict) {
	s.publisher.Publish(ctx, models.ChangeEvent{
		Entity:   models.EntitySyncConflict,
		Change:   change,
		EntityID: c.ID,
		At:       s.now(),
		Payload:  c.Clone(),
	})
}
