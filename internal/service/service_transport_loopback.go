// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/timeline-sync/models"
)

type loopbackRow struct {
	data       models.FieldMap
	modifiedAt time.Time
}

// LoopbackTransport is an in-process Transport that acts as its own remote
// side. Pushed rows are kept in memory and served back by Pull; it never
// reports a divergence. It backs standalone runs with no remote configured.
type LoopbackTransport struct {
	mu   sync.RWMutex
	rows map[rowKey]loopbackRow
}

// NewLoopbackTransport constructs an empty LoopbackTransport.
func NewLoopbackTransport() *LoopbackTransport {
	return &LoopbackTransport{rows: make(map[rowKey]loopbackRow)}
}

// Push stores the record data, or forgets the row for a Delete operation.
func (t *LoopbackTransport) Push(ctx context.Context, record models.SyncRecord) (RemoteState, error) {
	if err := ctx.Err(); err != nil {
		return RemoteState{}, err
	}

	key := rowKey{table: record.TableName, id: record.RecordID}
	modifiedAt := record.LastModified

	t.mu.Lock()
	defer t.mu.Unlock()

	if record.Operation == models.OperationDelete {
		delete(t.rows, key)
		return RemoteState{ModifiedAt: &modifiedAt}, nil
	}

	t.rows[key] = loopbackRow{data: record.Data.Clone(), modifiedAt: modifiedAt}
	return RemoteState{
		Data:       record.Data.Clone(),
		Base:       record.Data.Clone(),
		ModifiedAt: &modifiedAt,
	}, nil
}

// Pull returns the stored copy of the row. A row never pushed echoes the
// local data back.
func (t *LoopbackTransport) Pull(ctx context.Context, record models.SyncRecord) (RemoteState, error) {
	if err := ctx.Err(); err != nil {
		return RemoteState{}, err
	}

	t.mu.RLock()
	row, ok := t.rows[rowKey{table: record.TableName, id: record.RecordID}]
	t.mu.RUnlock()

	if !ok {
		modifiedAt := record.LastModified
		return RemoteState{
			Data:       record.Data.Clone(),
			Base:       record.Data.Clone(),
			ModifiedAt: &modifiedAt,
		}, nil
	}

	modifiedAt := row.modifiedAt
	return RemoteState{
		Data:       row.data.Clone(),
		Base:       row.data.Clone(),
		ModifiedAt: &modifiedAt,
	}, nil
}

// Len returns the number of stored rows.
func (t *LoopbackTransport) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
