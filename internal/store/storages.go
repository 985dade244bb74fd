// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/timeline-sync/internal/config"
	"github.com/MKhiriev/timeline-sync/internal/logger"
)

// Storages aggregates the repositories sharing one SQLite connection.
type Storages struct {
	SyncRecords SyncRecordRepository
	Conflicts   ConflictRepository
	Sessions    SessionRepository
	Media       MediaRepository

	db *DB
}

// NewStorages connects to the database described by cfg, applies the
// migrations and builds every repository.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectSQLite(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(ctx); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
		_ = db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return NewStoragesFromDB(db, log), nil
}

// NewStoragesFromDB builds the repositories on an already prepared db.
func NewStoragesFromDB(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		SyncRecords: NewSyncRecordRepository(db, log),
		Conflicts:   NewConflictRepository(db, log),
		Sessions:    NewSessionRepository(db, log),
		Media:       NewMediaRepository(db, log),
		db:          db,
	}
}

// Close releases the database connection.
func (s *Storages) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
