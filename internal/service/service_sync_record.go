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
	"github.com/MKhiriev/timeline-sync/internal/validators"
	"github.com/MKhiriev/timeline-sync/models"
)

// CompleteOption customizes CompleteSync and ResolveConflict.
type CompleteOption func(*completeOptions)

type completeOptions struct {
	data *models.FieldMap
}

// WithSyncedData replaces the record data with the agreed copy.
func WithSyncedData(data models.FieldMap) CompleteOption {
	return func(o *completeOptions) {
		d := data.Clone()
		o.data = &d
	}
}

// recordEntry serializes the transitions of one record.
type recordEntry struct {
	mu      sync.Mutex
	record  models.SyncRecord
	removed bool
}

type rowKey struct {
	table string
	id    string
}

// syncRecordService is the in-memory SyncRecordService. The map lock only
// guards membership; each record has its own lock, so transitions of
// different records never wait on each other.
type syncRecordService struct {
	mu      sync.RWMutex
	records map[string]*recordEntry
	rows    map[rowKey]string

	ids       IDGenerator
	now       func() time.Time
	publisher events.Publisher
	validator validators.Validator
	logger    *logger.Logger
}

// NewSyncRecordService constructs an empty SyncRecordService.
//
// The publisher is invoked while the record lock is held, so events of one
// record arrive in transition order; handlers must not call back into the
// service for the same record.
func NewSyncRecordService(ids IDGenerator, now func() time.Time, publisher events.Publisher, validator validators.Validator, log *logger.Logger) SyncRecordService {
	if now == nil {
		now = time.Now
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &syncRecordService{
		records:   make(map[string]*recordEntry),
		rows:      make(map[rowKey]string),
		ids:       ids,
		now:       now,
		publisher: publisher,
		validator: validator,
		logger:    log,
	}
}

func (s *syncRecordService) Track(ctx context.Context, req TrackRequest) (models.SyncRecord, error) {
	status := req.Status
	if status == "" {
		status = models.StatusPendingUpload
	}
	switch status {
	case models.StatusOfflineOnly, models.StatusPendingUpload, models.StatusPendingDownload:
	default:
		return models.SyncRecord{}, fmt.Errorf("%w: cannot track a record in status %q", models.ErrValidation, status)
	}

	op := req.Operation
	if op == "" {
		op = models.OperationCreate
	}

	now := s.now()
	record := models.SyncRecord{
		ID:           s.ids.Generate(),
		TableName:    req.TableName,
		RecordID:     req.RecordID,
		Data:         req.Data.Clone(),
		SyncStatus:   status,
		Operation:    op,
		CreatedAt:    now,
		LastModified: now,
	}
	if err := s.validate(ctx, record); err != nil {
		return models.SyncRecord{}, err
	}

	key := rowKey{table: record.TableName, id: record.RecordID}
	entry := &recordEntry{record: record}

	s.mu.Lock()
	if existing, ok := s.rows[key]; ok {
		s.mu.Unlock()
		return models.SyncRecord{}, fmt.Errorf("%w: row %s/%s is already tracked by %s", models.ErrValidation, key.table, key.id, existing)
	}
	s.records[record.ID] = entry
	s.rows[key] = record.ID
	entry.mu.Lock()
	s.mu.Unlock()
	defer entry.mu.Unlock()

	s.publish(ctx, models.ChangeCreated, record)

	logger.FromContextOr(ctx, s.logger).Debug().
		Str("func", "syncRecordService.Track").
		Str("record", record.ID).
		Str("status", string(record.SyncStatus)).
		Msg("record tracked")

	return record.Clone(), nil
}

func (s *syncRecordService) Edit(ctx context.Context, id string, data models.FieldMap) (models.SyncRecord, error) {
	return s.transition(ctx, id, "edit", func(r *models.SyncRecord) error {
		r.Data = data.Clone()
		r.LastModified = s.now()
		if r.Operation != models.OperationCreate || r.SyncStatus == models.StatusSynced {
			r.Operation = models.OperationUpdate
		}
		if r.SyncStatus != models.StatusOfflineOnly {
			r.SyncStatus = models.StatusPendingUpload
		}
		return nil
	})
}

func (s *syncRecordService) MarkDeleted(ctx context.Context, id string) (models.SyncRecord, error) {
	entry, err := s.entry(id)
	if err != nil {
		return models.SyncRecord{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.removed {
		return models.SyncRecord{}, notFound(id)
	}

	record := entry.record.Clone()
	if record.SyncStatus == models.StatusOfflineOnly {
		s.mu.Lock()
		delete(s.records, id)
		delete(s.rows, rowKey{table: record.TableName, id: record.RecordID})
		s.mu.Unlock()
		entry.removed = true

		s.publish(ctx, models.ChangeRemoved, record)
		return record, nil
	}

	record.Operation = models.OperationDelete
	record.SyncStatus = models.StatusPendingUpload
	record.LastModified = s.now()
	record.ErrorMessage = nil
	entry.record = record

	s.publish(ctx, models.ChangeMutated, record)
	return record.Clone(), nil
}

func (s *syncRecordService) MarkDirty(ctx context.Context, id string) (models.SyncRecord, error) {
	return s.transition(ctx, id, "mark dirty", func(r *models.SyncRecord) error {
		r.SyncStatus = models.StatusPendingUpload
		r.LastModified = s.now()
		r.ErrorMessage = nil
		return nil
	})
}

func (s *syncRecordService) MarkRemoteChanged(ctx context.Context, id string) (models.SyncRecord, error) {
	return s.transition(ctx, id, "mark remote changed", func(r *models.SyncRecord) error {
		if err := requireStatus(r, models.StatusSynced); err != nil {
			return err
		}
		r.SyncStatus = models.StatusPendingDownload
		return nil
	})
}

func (s *syncRecordService) BeginSync(ctx context.Context, id string) (models.SyncRecord, error) {
	return s.transition(ctx, id, "begin sync", func(r *models.SyncRecord) error {
		if err := requireStatus(r, models.StatusPendingUpload, models.StatusPendingDownload); err != nil {
			return err
		}
		r.SyncStatus = models.StatusSyncing
		return nil
	})
}

func (s *syncRecordService) CompleteSync(ctx context.Context, id string, opts ...CompleteOption) (models.SyncRecord, error) {
	o := applyCompleteOptions(opts)
	return s.transition(ctx, id, "complete sync", func(r *models.SyncRecord) error {
		if err := requireStatus(r, models.StatusSyncing); err != nil {
			return err
		}
		r.SyncStatus = models.StatusSynced
		r.ErrorMessage = nil
		r.RetryCount = 0
		if o.data != nil {
			r.Data = o.data.Clone()
		}
		return nil
	})
}

func (s *syncRecordService) FailSync(ctx context.Context, id string, reason string) (models.SyncRecord, error) {
	return s.transition(ctx, id, "fail sync", func(r *models.SyncRecord) error {
		if err := requireStatus(r, models.StatusSyncing); err != nil {
			return err
		}
		r.SyncStatus = models.StatusFailed
		r.RetryCount++
		r.ErrorMessage = &reason
		return nil
	})
}

func (s *syncRecordService) FlagConflict(ctx context.Context, id string) (models.SyncRecord, error) {
	return s.transition(ctx, id, "flag conflict", func(r *models.SyncRecord) error {
		if err := requireStatus(r, models.StatusSyncing); err != nil {
			return err
		}
		r.SyncStatus = models.StatusConflict
		return nil
	})
}

func (s *syncRecordService) ResolveConflict(ctx context.Context, id string, synced bool, opts ...CompleteOption) (models.SyncRecord, error) {
	o := applyCompleteOptions(opts)
	return s.transition(ctx, id, "resolve conflict", func(r *models.SyncRecord) error {
		if err := requireStatus(r, models.StatusConflict); err != nil {
			return err
		}
		if o.data != nil {
			r.Data = o.data.Clone()
		}
		if synced {
			r.SyncStatus = models.StatusSynced
			r.ErrorMessage = nil
			return nil
		}
		r.SyncStatus = models.StatusPendingUpload
		r.LastModified = s.now()
		return nil
	})
}

func (s *syncRecordService) Retry(ctx context.Context, id string) (models.SyncRecord, error) {
	return s.transition(ctx, id, "retry", func(r *models.SyncRecord) error {
		if err := requireStatus(r, models.StatusFailed); err != nil {
			return err
		}
		r.SyncStatus = models.StatusPendingUpload
		return nil
	})
}

func (s *syncRecordService) Get(_ context.Context, id string) (models.SyncRecord, error) {
	entry, err := s.entry(id)
	if err != nil {
		return models.SyncRecord{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.removed {
		return models.SyncRecord{}, notFound(id)
	}
	return entry.record.Clone(), nil
}

func (s *syncRecordService) FindByRow(ctx context.Context, tableName, recordID string) (models.SyncRecord, error) {
	s.mu.RLock()
	id, ok := s.rows[rowKey{table: tableName, id: recordID}]
	s.mu.RUnlock()
	if !ok {
		return models.SyncRecord{}, fmt.Errorf("%w: row %s/%s", models.ErrNotFound, tableName, recordID)
	}
	return s.Get(ctx, id)
}

func (s *syncRecordService) List(_ context.Context, statuses ...models.SyncStatus) []models.SyncRecord {
	return s.collect(func(r models.SyncRecord) bool {
		return len(statuses) == 0 || slices.Contains(statuses, r.SyncStatus)
	})
}

func (s *syncRecordService) Pending(_ context.Context) []models.SyncRecord {
	return s.collect(models.SyncRecord.NeedsSync)
}

func (s *syncRecordService) Restore(ctx context.Context, records ...models.SyncRecord) error {
	for _, r := range records {
		if err := s.validate(ctx, r); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if prev, ok := s.records[r.ID]; ok {
			delete(s.rows, rowKey{table: prev.record.TableName, id: prev.record.RecordID})
		}
		s.records[r.ID] = &recordEntry{record: r.Clone()}
		s.rows[rowKey{table: r.TableName, id: r.RecordID}] = r.ID
	}
	return nil
}

// transition applies fn to a copy of the record under the record lock and
// commits it only when fn succeeds.
func (s *syncRecordService) transition(ctx context.Context, id, name string, fn func(*models.SyncRecord) error) (models.SyncRecord, error) {
	entry, err := s.entry(id)
	if err != nil {
		return models.SyncRecord{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.removed {
		return models.SyncRecord{}, notFound(id)
	}

	next := entry.record.Clone()
	if err = fn(&next); err != nil {
		logger.FromContextOr(ctx, s.logger).Debug().
			Err(err).
			Str("func", "syncRecordService.transition").
			Str("record", id).
			Str("transition", name).
			Msg("transition rejected")
		return entry.record.Clone(), fmt.Errorf("%s %s: %w", name, id, err)
	}
	entry.record = next

	s.publish(ctx, models.ChangeMutated, next)
	return next.Clone(), nil
}

func (s *syncRecordService) entry(id string) (*recordEntry, error) {
	s.mu.RLock()
	entry, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	return entry, nil
}

func (s *syncRecordService) collect(keep func(models.SyncRecord) bool) []models.SyncRecord {
	s.mu.RLock()
	entries := make([]*recordEntry, 0, len(s.records))
	for _, e := range s.records {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]models.SyncRecord, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.removed && keep(e.record) {
			out = append(out, e.record.Clone())
		}
		e.mu.Unlock()
	}

	slices.SortFunc(out, func(a, b models.SyncRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (s *syncRecordService) validate(ctx context.Context, r models.SyncRecord) error {
	if s.validator == nil {
		return nil
	}
	if err := s.validator.Validate(ctx, r); err != nil {
		return fmt.Errorf("sync record %s: %w", r.ID, err)
	}
	return nil
}

func (s *syncRecordService) publish(ctx context.Context, change models.ChangeKind, r models.SyncRecord) {
	s.publisher.Publish(ctx, models.ChangeEvent{
		Entity:   models.EntitySyncRecord,
		Change:   change,
		EntityID: r.ID,
		At:       s.now(),
		Payload:  r.Clone(),
	})
}

func requireStatus(r *models.SyncRecord, allowed ...models.SyncStatus) error {
	if slices.Contains(allowed, r.SyncStatus) {
		return nil
	}
	return fmt.Errorf("%w: record is %s, want one of %v", models.ErrInvalidState, r.SyncStatus, allowed)
}

func applyCompleteOptions(opts []CompleteOption) completeOptions {
	var o completeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", models.ErrNotFound, id)
}
