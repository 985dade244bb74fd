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

type conflictRepository struct {
	*DB
	logger *logger.Logger
}

// NewConflictRepository constructs a [ConflictRepository] on db.
func NewConflictRepository(db *DB, logger *logger.Logger) ConflictRepository {
	logger.Debug().Msg("creating conflict repository")
	return &conflictRepository{
		DB:     db,
		logger: logger,
	}
}

// SaveConflicts inserts new conflicts. For an existing ID only the
// resolution and defer columns are updated; the detected copies are
// immutable.
func (r *conflictRepository) SaveConflicts(ctx context.Context, conflicts ...models.SyncConflict) error {
	log := logger.FromContextOr(ctx, r.logger)

	err := saveBatch(ctx, r.DB, saveSyncConflict, conflicts, func(c models.SyncConflict) []any {
		return []any{
			c.ID,
			c.TableName,
			c.RecordID,
			c.LocalData,
			c.RemoteData,
			c.BaseData,
			utcPtr(c.LocalModifiedAt),
			utcPtr(c.RemoteModifiedAt),
			stringList(c.ConflictingFields),
			c.DetectedAt.UTC(),
			c.ResolutionStrategy,
			utcPtr(c.ResolvedAt),
			c.ResolvedData,
			c.ResolvedBy,
			c.ResolutionNote,
			utcPtr(c.LastDeferredAt),
			c.DeferredBy,
			c.DeferCount,
		}
	})
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.SaveConflicts").
			Int("count", len(conflicts)).
			Msg("failed to save conflicts")
		return fmt.Errorf("failed to save conflicts: %w", err)
	}

	return nil
}

func (r *conflictRepository) GetConflict(ctx context.Context, id string) (models.SyncConflict, error) {
	log := logger.FromContextOr(ctx, r.logger)

	query, args, err := builder.Select(syncConflictColumns...).
		From(syncConflictsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.SyncConflict{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	c, err := scanConflict(r.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncConflict{}, fmt.Errorf("%w: conflict %s", models.ErrNotFound, id)
	}
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.GetConflict").
			Str("id", id).
			Msg("failed to scan conflict row")
		return models.SyncConflict{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return c, nil
}

func (r *conflictRepository) ListConflicts(ctx context.Context, openOnly bool) ([]models.SyncConflict, error) {
	log := logger.FromContextOr(ctx, r.logger)

	q := builder.Select(syncConflictColumns...).
		From(syncConflictsTable).
		OrderBy("detected_at", "id")
	if openOnly {
		q = q.Where(sq.Eq{"resolved_at": nil})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.ListConflicts").
			Msg("failed to execute query for listing conflicts")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var conflicts []models.SyncConflict
	for rows.Next() {
		c, scanErr := scanConflict(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "conflictRepository.ListConflicts").
				Msg("failed to scan conflict row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		conflicts = append(conflicts, c)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return conflicts, nil
}

func scanConflict(row rowScanner) (models.SyncConflict, error) {
	var (
		c      models.SyncConflict
		fields stringList
	)
	err := row.Scan(
		&c.ID,
		&c.TableName,
		&c.RecordID,
		&c.LocalData,
		&c.RemoteData,
		&c.BaseData,
		&c.LocalModifiedAt,
		&c.RemoteModifiedAt,
		&fields,
		&c.DetectedAt,
		&c.ResolutionStrategy,
		&c.ResolvedAt,
		&c.ResolvedData,
		&c.ResolvedBy,
		&c.ResolutionNote,
		&c.LastDeferredAt,
		&c.DeferredBy,
		&c.DeferCount,
	)
	if err != nil {
		return models.SyncConflict{}, err
	}

	c.ConflictingFields = []string(fields)
	c.DetectedAt = c.DetectedAt.UTC()
	c.LocalModifiedAt = utcPtr(c.LocalModifiedAt)
	c.RemoteModifiedAt = utcPtr(c.RemoteModifiedAt)
	c.ResolvedAt = utcPtr(c.ResolvedAt)
	c.LastDeferredAt = utcPtr(c.LastDeferredAt)
	return c, nil
}
