// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/models"
)

type sessionRepository struct {
	*DB
	logger *logger.Logger
}

// NewSessionRepository constructs a [SessionRepository] on db.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *sessionRepository) SaveSessions(ctx context.Context, sessions ...models.SyncSession) error {
	log := logger.FromContextOr(ctx, r.logger)

	err := saveBatch(ctx, r.DB, saveSyncSession, sessions, func(s models.SyncSession) []any {
		return []any{
			s.ID,
			s.StartedAt.UTC(),
			utcPtr(s.CompletedAt),
			string(s.Status),
			s.RecordsTotal,
			s.RecordsProcessed,
			s.ConflictsDetected,
			s.ErrorsEncountered,
		}
	})
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.SaveSessions").
			Int("count", len(sessions)).
			Msg("failed to save sessions")
		return fmt.Errorf("failed to save sessions: %w", err)
	}

	return nil
}

func (r *sessionRepository) GetSession(ctx context.Context, id string) (models.SyncSession, error) {
	query, args, err := builder.Select(syncSessionColumns...).
		From(syncSessionsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.SyncSession{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	s, err := scanSession(r.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncSession{}, fmt.Errorf("%w: session %s", models.ErrNotFound, id)
	}
	if err != nil {
		return models.SyncSession{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return s, nil
}

func (r *sessionRepository) ListSessions(ctx context.Context, limit uint64) ([]models.SyncSession, error) {
	log := logger.FromContextOr(ctx, r.logger)

	q := builder.Select(syncSessionColumns...).
		From(syncSessionsTable).
		OrderBy("started_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.ListSessions").
			Msg("failed to execute query for listing sessions")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var sessions []models.SyncSession
	for rows.Next() {
		s, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		sessions = append(sessions, s)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return sessions, nil
}

func scanSession(row rowScanner) (models.SyncSession, error) {
	var s models.SyncSession
	err := row.Scan(
		&s.ID,
		&s.StartedAt,
		&s.CompletedAt,
		&s.Status,
		&s.RecordsTotal,
		&s.RecordsProcessed,
		&s.ConflictsDetected,
		&s.ErrorsEncountered,
	)
	if err != nil {
		return models.SyncSession{}, err
	}
	s.StartedAt = s.StartedAt.UTC()
	s.CompletedAt = utcPtr(s.CompletedAt)
	return s, nil
}
