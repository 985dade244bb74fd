// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/timeline-sync/internal/logger"
)

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &DB{
		DB:                 conn,
		logger:             logger.Nop(),
		errorClassificator: NewSQLiteErrorClassifier(),
		retryBackoff:       time.Millisecond,
	}, mock
}

// ── SQLiteErrorClassifier ──

func TestSQLiteErrorClassifier_Classify(t *testing.T) {
	c := NewSQLiteErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{name: "nil", err: nil, want: NonRetryable},
		{name: "plain error", err: errors.New("boom"), want: NonRetryable},
		{name: "busy", err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: Retryable},
		{name: "locked", err: sqlite3.Error{Code: sqlite3.ErrLocked}, want: Retryable},
		{name: "wrapped busy", err: errors.Join(errors.New("ctx"), sqlite3.Error{Code: sqlite3.ErrBusy}), want: Retryable},
		{name: "constraint", err: sqlite3.Error{Code: sqlite3.ErrConstraint}, want: NonRetryable},
		{name: "corrupt", err: sqlite3.Error{Code: sqlite3.ErrCorrupt}, want: NonRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}

// ── withRetry ──

func TestDB_WithRetry(t *testing.T) {
	busy := sqlite3.Error{Code: sqlite3.ErrBusy}

	t.Run("succeeds after transient errors", func(t *testing.T) {
		db, _ := newTestDB(t)
		calls := 0
		err := db.withRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return busy
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after the attempt limit", func(t *testing.T) {
		db, _ := newTestDB(t)
		db.retryAttempts = 2
		calls := 0
		err := db.withRetry(context.Background(), func() error {
			calls++
			return busy
		})
		require.Error(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		db, _ := newTestDB(t)
		calls := 0
		err := db.withRetry(context.Background(), func() error {
			calls++
			return sqlite3.Error{Code: sqlite3.ErrConstraint}
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		db, _ := newTestDB(t)
		db.retryBackoff = time.Hour
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := db.withRetry(ctx, func() error { return busy })
		require.ErrorIs(t, err, context.Canceled)
	})
}

// ── saveBatch ──

func TestSaveBatch_Empty(t *testing.T) {
	db, mock := newTestDB(t)

	err := saveBatch(context.Background(), db, "INSERT INTO t VALUES (?)", []int(nil), func(int) []any { return nil })
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveBatch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "begin fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("no tx"))
			},
			wantErr: ErrBeginningTransaction,
		},
		{
			name: "prepare fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectPrepare("INSERT INTO t").WillReturnError(errors.New("syntax"))
				mock.ExpectRollback()
			},
			wantErr: ErrPreparingStatement,
		},
		{
			name: "exec fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectPrepare("INSERT INTO t").
					ExpectExec().WillReturnError(errors.New("constraint"))
				mock.ExpectRollback()
			},
			wantErr: ErrExecutingStatement,
		},
		{
			name: "commit fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectPrepare("INSERT INTO t").
					ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit().WillReturnError(errors.New("disk full"))
			},
			wantErr: ErrCommitingTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			tt.setup(mock)

			err := saveBatch(context.Background(), db, "INSERT INTO t VALUES (?)", []int{1}, func(v int) []any { return []any{v} })
			require.ErrorIs(t, err, tt.wantErr)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSaveBatch_RetriesBusyTransaction(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO t").
		ExpectExec().WithArgs(1).WillReturnError(sqlite3.Error{Code: sqlite3.ErrBusy})
	mock.ExpectRollback()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO t")
	prep.ExpectExec().WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := saveBatch(context.Background(), db, "INSERT INTO t VALUES (?)", []int{1, 2}, func(v int) []any { return []any{v} })
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// ── stringList ──

func TestStringList_ValueAndScan(t *testing.T) {
	v, err := stringList{"title", "place"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["title","place"]`, v)

	empty, err := stringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)

	var l stringList
	require.NoError(t, l.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, stringList{"a", "b"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)

	require.Error(t, l.Scan(42))
	require.Error(t, l.Scan("not json"))
}
