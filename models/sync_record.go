// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"slices"
	"time"
)

// SyncStatus is the synchronization state of a tracked record or session.
type SyncStatus string

const (
	// StatusSynced means the last local mutation is durable on the remote side.
	StatusSynced SyncStatus = "synced"

	// StatusPendingUpload means local changes wait to be pushed.
	StatusPendingUpload SyncStatus = "pending_upload"

	// StatusPendingDownload means the remote side holds changes the device
	// has not pulled yet.
	StatusPendingDownload SyncStatus = "pending_download"

	// StatusConflict means a sync round-trip found divergent copies.
	StatusConflict SyncStatus = "conflict"

	// StatusOfflineOnly means the record was created locally and is not
	// scheduled for sync.
	StatusOfflineOnly SyncStatus = "offline_only"

	// StatusSyncing means a transport operation is in flight.
	StatusSyncing SyncStatus = "syncing"

	// StatusFailed means the last transport attempt failed.
	StatusFailed SyncStatus = "failed"
)

var syncStatuses = []SyncStatus{
	StatusSynced,
	StatusPendingUpload,
	StatusPendingDownload,
	StatusConflict,
	StatusOfflineOnly,
	StatusSyncing,
	StatusFailed,
}

// IsValid reports whether s is one of the defined statuses.
func (s SyncStatus) IsValid() bool {
	return slices.Contains(syncStatuses, s)
}

// UnmarshalText rejects unknown statuses so that a decoded value always
// keeps its enum identity.
func (s *SyncStatus) UnmarshalText(text []byte) error {
	v := SyncStatus(text)
	if !v.IsValid() {
		return fmt.Errorf("%w: unknown sync status %q", ErrValidation, text)
	}
	*s = v
	return nil
}

// Operation is the kind of mutation a SyncRecord carries.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// IsValid reports whether o is one of the defined operations.
func (o Operation) IsValid() bool {
	switch o {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// UnmarshalText rejects unknown operations.
func (o *Operation) UnmarshalText(text []byte) error {
	v := Operation(text)
	if !v.IsValid() {
		return fmt.Errorf("%w: unknown operation %q", ErrValidation, text)
	}
	*o = v
	return nil
}

// SyncRecord is one tracked mutation of a logical row.
//
// Records are never silently deleted: removing the row is itself an
// operation of kind [OperationDelete].
type SyncRecord struct {
	// ID is the opaque identity of the tracked mutation.
	ID string `json:"id" validate:"required"`

	// TableName is the logical collection the mutated row belongs to.
	TableName string `json:"table_name" validate:"required"`

	// RecordID identifies the mutated row within TableName.
	RecordID string `json:"record_id" validate:"required"`

	// Data is the row's working snapshot.
	Data FieldMap `json:"data"`

	SyncStatus SyncStatus `json:"sync_status" validate:"required,enum"`
	Operation  Operation  `json:"operation" validate:"required,enum"`

	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`

	// ErrorMessage holds the reason of the last failed transport attempt.
	ErrorMessage *string `json:"error_message,omitempty"`

	// RetryCount grows with every failed attempt and is reset by a
	// successful sync.
	RetryCount int `json:"retry_count" validate:"gte=0"`
}

// NeedsSync reports whether the record waits for the transport.
func (r SyncRecord) NeedsSync() bool {
	switch r.SyncStatus {
	case StatusPendingUpload, StatusPendingDownload, StatusFailed:
		return true
	}
	return false
}

// HasError reports whether the record carries a non-empty error message.
func (r SyncRecord) HasError() bool {
	return r.ErrorMessage != nil && *r.ErrorMessage != ""
}

// Clone returns a deep copy of the record.
func (r SyncRecord) Clone() SyncRecord {
	out := r
	out.Data = r.Data.Clone()
	if r.ErrorMessage != nil {
		msg := *r.ErrorMessage
		out.ErrorMessage = &msg
	}
	return out
}
