// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/migrations"
)

const (
	defaultRetryAttempts = 3
	defaultRetryBackoff  = 50 * time.Millisecond
)

// DB wraps the SQLite connection pool together with the error classifier
// used to retry transient lock errors.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger

	retryAttempts int
	retryBackoff  time.Duration
}

// Migrate applies the embedded schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Migrate(ctx, db.DB)
}

// withRetry runs fn until it succeeds, returns a non-retryable error or the
// attempts are used up. Attempts back off linearly.
func (db *DB) withRetry(ctx context.Context, fn func() error) error {
	attempts := db.retryAttempts
	if attempts <= 0 {
		attempts = defaultRetryAttempts
	}
	backoff := db.retryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= attempts || db.errorClassificator == nil || db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		logger.FromContextOr(ctx, db.logger).Warn().Err(err).
			Str("func", "DB.withRetry").
			Int("attempt", attempt).
			Msg("retrying database operation")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * backoff):
		}
	}
}

// saveBatch executes query once per item inside a single transaction.
func saveBatch[T any](ctx context.Context, db *DB, query string, items []T, args func(T) []any) error {
	if len(items) == 0 {
		return nil
	}

	return db.withRetry(ctx, func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
		}
		defer tx.Rollback() //nolint:errcheck

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
		}
		defer stmt.Close()

		for _, item := range items {
			if _, err = stmt.ExecContext(ctx, args(item)...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		if err = tx.Commit(); err != nil {
			return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
		}
		return nil
	})
}
