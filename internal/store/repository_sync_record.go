// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/models"
)

// syncRecordRepository is the SQLite-backed [SyncRecordRepository].
type syncRecordRepository struct {
	*DB
	logger *logger.Logger
}

// NewSyncRecordRepository constructs a [SyncRecordRepository] on db.
func NewSyncRecordRepository(db *DB, logger *logger.Logger) SyncRecordRepository {
	logger.Debug().Msg("creating sync record repository")
	return &syncRecordRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *syncRecordRepository) SaveSyncRecords(ctx context.Context, records ...models.SyncRecord) error {
	log := logger.FromContextOr(ctx, r.logger)

	err := saveBatch(ctx, r.DB, saveSyncRecord, records, func(rec models.SyncRecord) []any {
		return []any{
			rec.ID,
			rec.TableName,
			rec.RecordID,
			rec.Data,
			string(rec.SyncStatus),
			string(rec.Operation),
			rec.CreatedAt.UTC(),
			rec.LastModified.UTC(),
			rec.ErrorMessage,
			rec.RetryCount,
		}
	})
	if err != nil {
		log.Err(err).
			Str("func", "syncRecordRepository.SaveSyncRecords").
			Int("count", len(records)).
			Msg("failed to save sync records")
		return fmt.Errorf("failed to save sync records: %w", err)
	}

	return nil
}

func (r *syncRecordRepository) GetSyncRecord(ctx context.Context, id string) (models.SyncRecord, error) {
	log := logger.FromContextOr(ctx, r.logger)

	query, args, err := builder.Select(syncRecordColumns...).
		From(syncRecordsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.SyncRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	record, err := scanSyncRecord(r.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncRecord{}, fmt.Errorf("%w: sync record %s", models.ErrNotFound, id)
	}
	if err != nil {
		log.Err(err).
			Str("func", "syncRecordRepository.GetSyncRecord").
			Str("id", id).
			Msg("failed to scan sync record row")
		return models.SyncRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return record, nil
}

func (r *syncRecordRepository) ListSyncRecords(ctx context.Context, filter SyncRecordFilter) ([]models.SyncRecord, error) {
	log := logger.FromContextOr(ctx, r.logger)

	q := builder.Select(syncRecordColumns...).
		From(syncRecordsTable).
		OrderBy("created_at", "id")
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		q = q.Where(sq.Eq{"sync_status": statuses})
	}
	if filter.TableName != "" {
		q = q.Where(sq.Eq{"table_name": filter.TableName})
	}
	if filter.MaxRetryCount > 0 {
		q = q.Where(sq.Lt{"retry_count": filter.MaxRetryCount})
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "syncRecordRepository.ListSyncRecords").
			Msg("failed to execute query for listing sync records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []models.SyncRecord
	for rows.Next() {
		record, scanErr := scanSyncRecord(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "syncRecordRepository.ListSyncRecords").
				Msg("failed to scan sync record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "syncRecordRepository.ListSyncRecords").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

func (r *syncRecordRepository) DeleteSyncRecords(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	log := logger.FromContextOr(ctx, r.logger)

	query, args, err := builder.Delete(syncRecordsTable).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.withRetry(ctx, func() error {
		_, execErr := r.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "syncRecordRepository.DeleteSyncRecords").
			Strs("ids", ids).
			Msg("failed to delete sync records")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSyncRecord(row rowScanner) (models.SyncRecord, error) {
	var rec models.SyncRecord
	err := row.Scan(
		&rec.ID,
		&rec.TableName,
		&rec.RecordID,
		&rec.Data,
		&rec.SyncStatus,
		&rec.Operation,
		&rec.CreatedAt,
		&rec.LastModified,
		&rec.ErrorMessage,
		&rec.RetryCount,
	)
	if err != nil {
		return models.SyncRecord{}, err
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.LastModified = rec.LastModified.UTC()
	return rec, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
