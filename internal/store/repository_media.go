// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/models"
)

type mediaRepository struct {
	*DB
	logger *logger.Logger
}

// NewMediaRepository constructs a [MediaRepository] on db.
func NewMediaRepository(db *DB, logger *logger.Logger) MediaRepository {
	logger.Debug().Msg("creating media repository")
	return &mediaRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *mediaRepository) SaveMediaFiles(ctx context.Context, files ...models.MediaFileMetadata) error {
	log := logger.FromContextOr(ctx, r.logger)

	err := saveBatch(ctx, r.DB, saveMediaFile, files, func(f models.MediaFileMetadata) []any {
		return []any{
			f.URL,
			f.FileType,
			f.FileSize,
			string(f.Priority),
			f.LastAccessed.UTC(),
			f.AccessCount,
			f.IsEssential,
		}
	})
	if err != nil {
		log.Err(err).
			Str("func", "mediaRepository.SaveMediaFiles").
			Int("count", len(files)).
			Msg("failed to save media files")
		return fmt.Errorf("failed to save media files: %w", err)
	}

	return nil
}

func (r *mediaRepository) ListMediaFiles(ctx context.Context) ([]models.MediaFileMetadata, error) {
	log := logger.FromContextOr(ctx, r.logger)

	query, args, err := builder.Select(mediaFileColumns...).
		From(mediaFilesTable).
		OrderBy("url").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "mediaRepository.ListMediaFiles").
			Msg("failed to execute query for listing media files")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var files []models.MediaFileMetadata
	for rows.Next() {
		var f models.MediaFileMetadata
		if scanErr := rows.Scan(
			&f.URL,
			&f.FileType,
			&f.FileSize,
			&f.Priority,
			&f.LastAccessed,
			&f.AccessCount,
			&f.IsEssential,
		); scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		f.LastAccessed = f.LastAccessed.UTC()
		files = append(files, f)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return files, nil
}

func (r *mediaRepository) DeleteMediaFiles(ctx context.Context, urls ...string) error {
	if len(urls) == 0 {
		return nil
	}

	query, args, err := builder.Delete(mediaFilesTable).Where(sq.Eq{"url": urls}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.withRetry(ctx, func() error {
		_, execErr := r.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		logger.FromContextOr(ctx, r.logger).Err(err).
			Str("func", "mediaRepository.DeleteMediaFiles").
			Int("count", len(urls)).
			Msg("failed to delete media files")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
