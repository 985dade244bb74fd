// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/timeline-sync/models"
)

//go:generate mockgen -destination=../mock/store_mock.go -package=mock github.com/MKhiriev/timeline-sync/internal/store SyncRecordRepository,ConflictRepository,SessionRepository,MediaRepository

// SyncRecordRepository persists tracked sync records.
type SyncRecordRepository interface {
	// SaveSyncRecords inserts or replaces records by ID in one transaction.
	SaveSyncRecords(ctx context.Context, records ...models.SyncRecord) error
	GetSyncRecord(ctx context.Context, id string) (models.SyncRecord, error)
	ListSyncRecords(ctx context.Context, filter SyncRecordFilter) ([]models.SyncRecord, error)
	DeleteSyncRecords(ctx context.Context, ids ...string) error
}

// SyncRecordFilter narrows ListSyncRecords. Zero fields match everything.
type SyncRecordFilter struct {
	Statuses  []models.SyncStatus
	TableName string
	// MaxRetryCount, when positive, keeps records with RetryCount below it.
	MaxRetryCount int
	Limit         uint64
}

// ConflictRepository persists detected conflicts, open or resolved.
type ConflictRepository interface {
	SaveConflicts(ctx context.Context, conflicts ...models.SyncConflict) error
	GetConflict(ctx context.Context, id string) (models.SyncConflict, error)
	// ListConflicts returns conflicts ordered by detection time. With
	// openOnly set, resolved conflicts are skipped.
	ListConflicts(ctx context.Context, openOnly bool) ([]models.SyncConflict, error)
}

// SessionRepository persists sync session history.
type SessionRepository interface {
	SaveSessions(ctx context.Context, sessions ...models.SyncSession) error
	GetSession(ctx context.Context, id string) (models.SyncSession, error)
	// ListSessions returns the most recent sessions first. A zero limit
	// returns all of them.
	ListSessions(ctx context.Context, limit uint64) ([]models.SyncSession, error)
}

// MediaRepository persists the media cache index.
type MediaRepository interface {
	SaveMediaFiles(ctx context.Context, files ...models.MediaFileMetadata) error
	ListMediaFiles(ctx context.Context) ([]models.MediaFileMetadata, error)
	DeleteMediaFiles(ctx context.Context, urls ...string) error
}

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
