// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql/driver"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
)

// builder renders dynamic statements with SQLite "?" placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

const (
	syncRecordsTable   = "sync_records"
	syncConflictsTable = "sync_conflicts"
	syncSessionsTable  = "sync_sessions"
	mediaFilesTable    = "media_files"
)

var (
	syncRecordColumns = []string{
		"id",
		"table_name",
		"record_id",
		"data",
		"sync_status",
		"operation",
		"created_at",
		"last_modified",
		"error_message",
		"retry_count",
	}

	syncConflictColumns = []string{
		"id",
		"table_name",
		"record_id",
		"local_data",
		"remote_data",
		"base_data",
		"local_modified_at",
		"remote_modified_at",
		"conflicting_fields",
		"detected_at",
		"resolution_strategy",
		"resolved_at",
		"resolved_data",
		"resolved_by",
		"resolution_note",
		"last_deferred_at",
		"deferred_by",
		"defer_count",
	}

	syncSessionColumns = []string{
		"id",
		"started_at",
		"completed_at",
		"status",
		"records_total",
		"records_processed",
		"conflicts_detected",
		"errors_encountered",
	}

	mediaFileColumns = []string{
		"url",
		"file_type",
		"file_size",
		"priority",
		"last_accessed",
		"access_count",
		"is_essential",
	}
)

const (
	saveSyncRecord = `
		INSERT INTO sync_records (
			id,
			table_name,
			record_id,
			data,
			sync_status,
			operation,
			created_at,
			last_modified,
			error_message,
			retry_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			table_name    = excluded.table_name,
			record_id     = excluded.record_id,
			data          = excluded.data,
			sync_status   = excluded.sync_status,
			operation     = excluded.operation,
			last_modified = excluded.last_modified,
			error_message = excluded.error_message,
			retry_count   = excluded.retry_count;`

	saveSyncConflict = `
		INSERT INTO sync_conflicts (
			id,
			table_name,
			record_id,
			local_data,
			remote_data,
			base_data,
			local_modified_at,
			remote_modified_at,
			conflicting_fields,
			detected_at,
			resolution_strategy,
			resolved_at,
			resolved_data,
			resolved_by,
			resolution_note,
			last_deferred_at,
			deferred_by,
			defer_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			resolution_strategy = excluded.resolution_strategy,
			resolved_at         = excluded.resolved_at,
			resolved_data       = excluded.resolved_data,
			resolved_by         = excluded.resolved_by,
			resolution_note     = excluded.resolution_note,
			last_deferred_at    = excluded.last_deferred_at,
			deferred_by         = excluded.deferred_by,
			defer_count         = excluded.defer_count;`

	saveSyncSession = `
		INSERT INTO sync_sessions (
			id,
			started_at,
			completed_at,
			status,
			records_total,
			records_processed,
			conflicts_detected,
			errors_encountered
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			completed_at       = excluded.completed_at,
			status             = excluded.status,
			records_total      = excluded.records_total,
			records_processed  = excluded.records_processed,
			conflicts_detected = excluded.conflicts_detected,
			errors_encountered = excluded.errors_encountered;`

	saveMediaFile = `
		INSERT INTO media_files (
			url,
			file_type,
			file_size,
			priority,
			last_accessed,
			access_count,
			is_essential
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			file_type     = excluded.file_type,
			file_size     = excluded.file_size,
			priority      = excluded.priority,
			last_accessed = excluded.last_accessed,
			access_count  = excluded.access_count,
			is_essential  = excluded.is_essential;`
)

// stringList stores a []string as a JSON array in a TEXT column.
type stringList []string

func (l stringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	payload, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

func (l *stringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into string list", src)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode string list: %w", err)
	}
	*l = out
	return nil
}
