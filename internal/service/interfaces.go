// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/timeline-sync/internal/conflict"
	"github.com/MKhiriev/timeline-sync/models"
)

// IDGenerator produces opaque identifiers for records, conflicts and
// sessions.
type IDGenerator interface {
	Generate() string
}

// TrackRequest describes a new local mutation to track.
type TrackRequest struct {
	TableName string           `json:"table_name"`
	RecordID  string           `json:"record_id"`
	Data      models.FieldMap  `json:"data"`
	Operation models.Operation `json:"operation"`
	// Status is the initial state: OfflineOnly, PendingUpload (default) or
	// PendingDownload for rows first seen in a remote manifest.
	Status models.SyncStatus `json:"status"`
}

// SyncRecordService owns the per-record sync state machine:
//
//	OfflineOnly → PendingUpload → Syncing → {Synced | Failed | Conflict}
//	Failed → PendingUpload (retry)
//	Conflict → PendingUpload | Synced (external resolution)
//	Synced → PendingDownload (remote changed)
//
// Transitions of one record are applied one at a time in a single linear
// history; transitions of different records run independently. Every
// successful transition publishes a models.ChangeEvent.
type SyncRecordService interface {
	// Track starts tracking a mutation. Operation defaults to Create.
	Track(ctx context.Context, req TrackRequest) (models.SyncRecord, error)

	// Edit replaces the record data and advances LastModified. The record
	// becomes PendingUpload unless it is OfflineOnly.
	Edit(ctx context.Context, id string, data models.FieldMap) (models.SyncRecord, error)

	// MarkDeleted turns the record into a Delete operation awaiting upload.
	// An OfflineOnly record was never shared and is dropped instead.
	MarkDeleted(ctx context.Context, id string) (models.SyncRecord, error)

	// MarkDirty moves a record from any state to PendingUpload, advancing
	// LastModified and clearing ErrorMessage.
	MarkDirty(ctx context.Context, id string) (models.SyncRecord, error)

	// MarkRemoteChanged moves a Synced record to PendingDownload.
	MarkRemoteChanged(ctx context.Context, id string) (models.SyncRecord, error)

	// BeginSync moves a PendingUpload or PendingDownload record to Syncing.
	BeginSync(ctx context.Context, id string) (models.SyncRecord, error)

	// CompleteSync moves a Syncing record to Synced and resets the error
	// and retry counters. WithSyncedData replaces the data on the way.
	CompleteSync(ctx context.Context, id string, opts ...CompleteOption) (models.SyncRecord, error)

	// FailSync moves a Syncing record to Failed, increments RetryCount and
	// stores reason.
	FailSync(ctx context.Context, id string, reason string) (models.SyncRecord, error)

	// FlagConflict moves a Syncing record to Conflict.
	FlagConflict(ctx context.Context, id string) (models.SyncRecord, error)

	// ResolveConflict moves a Conflict record to Synced when synced is
	// true, to PendingUpload otherwise. WithSyncedData replaces the data.
	ResolveConflict(ctx context.Context, id string, synced bool, opts ...CompleteOption) (models.SyncRecord, error)

	// Retry moves a Failed record back to PendingUpload keeping its
	// RetryCount.
	Retry(ctx context.Context, id string) (models.SyncRecord, error)

	// Get returns a copy of the record.
	Get(ctx context.Context, id string) (models.SyncRecord, error)

	// FindByRow returns the record tracking (tableName, recordID).
	FindByRow(ctx context.Context, tableName, recordID string) (models.SyncRecord, error)

	// List returns records in any of statuses, all records when none is
	// given, ordered by CreatedAt then ID.
	List(ctx context.Context, statuses ...models.SyncStatus) []models.SyncRecord

	// Pending returns the records whose NeedsSync is true.
	Pending(ctx context.Context) []models.SyncRecord

	// Restore hydrates the service, e.g. from storage, without publishing
	// events.
	Restore(ctx context.Context, records ...models.SyncRecord) error
}

// SessionTracker aggregates the progress of batch sync runs.
type SessionTracker interface {
	// Start opens a session in status Syncing.
	Start(ctx context.Context, recordsTotal int) (models.SyncSession, error)

	// Advance adds to the counters; RecordsProcessed is clamped to
	// RecordsTotal.
	Advance(ctx context.Context, id string, processed, conflicts, errs int) (models.SyncSession, error)

	// Finish stamps CompletedAt and the final status. A second call fails
	// with models.ErrAlreadyCompleted.
	Finish(ctx context.Context, id string, status models.SyncStatus) (models.SyncSession, error)

	// Get returns a copy of the session.
	Get(ctx context.Context, id string) (models.SyncSession, error)

	// Active returns the sessions that are not finished yet.
	Active(ctx context.Context) []models.SyncSession

	// Restore hydrates the tracker without publishing events.
	Restore(ctx context.Context, sessions ...models.SyncSession) error
}

// ConflictService detects, stores and resolves conflicts.
type ConflictService interface {
	// Detect stores and returns a new conflict when in has conflicting
	// fields. The boolean is false when there is nothing to resolve.
	Detect(ctx context.Context, in conflict.Input) (models.SyncConflict, bool, error)

	// DetectBatch runs Detect over many inputs in parallel chunks. The
	// result is all-or-nothing: a cancelled batch stores nothing.
	DetectBatch(ctx context.Context, inputs []conflict.Input) ([]models.SyncConflict, error)

	// Resolve applies strategy. An empty resolvedBy falls back to the actor
	// carried by ctx.
	Resolve(ctx context.Context, id string, strategy models.ResolutionStrategy, resolvedBy string, opts ...conflict.ResolveOption) (models.SyncConflict, error)

	// Get returns a copy of the conflict.
	Get(ctx context.Context, id string) (models.SyncConflict, error)

	// Open returns unresolved conflicts ordered by DetectedAt.
	Open(ctx context.Context) []models.SyncConflict

	// ForRow returns the unresolved conflict on (tableName, recordID).
	ForRow(ctx context.Context, tableName, recordID string) (models.SyncConflict, bool)

	// Restore hydrates the service without publishing events.
	Restore(ctx context.Context, conflicts ...models.SyncConflict) error
}

// RemoteState is the transport's answer for one record.
type RemoteState struct {
	// Data is the remote copy of the row.
	Data models.FieldMap
	// Base is the last copy both sides agreed on.
	Base models.FieldMap
	// ModifiedAt is the remote modification time, when known.
	ModifiedAt *time.Time
	// Diverged is true when the remote copy carries changes the local side
	// has not seen; Data and Base are then compared three-way.
	Diverged bool
}

// Transport moves records between the device and the remote side. It is
// implemented outside this module.
//
//go:generate mockgen -destination=../mock/transport_mock.go -package=mock github.com/MKhiriev/timeline-sync/internal/service Transport
type Transport interface {
	// Push uploads a PendingUpload record.
	Push(ctx context.Context, record models.SyncRecord) (RemoteState, error)
	// Pull fetches the remote copy of a PendingDownload record.
	Pull(ctx context.Context, record models.SyncRecord) (RemoteState, error)
}

// ManifestEntry is one row of a remote change manifest.
type ManifestEntry struct {
	TableName  string    `json:"table_name" validate:"required"`
	RecordID   string    `json:"record_id" validate:"required"`
	ModifiedAt time.Time `json:"modified_at"`
	Deleted    bool      `json:"deleted"`
}

// SyncPlan classifies tracked records against a remote manifest.
type SyncPlan struct {
	// Upload lists records with local changes to push.
	Upload []string `json:"upload"`
	// Download lists Synced records whose remote copy is newer.
	Download []string `json:"download"`
	// Missing lists remote rows not tracked locally.
	Missing []ManifestEntry `json:"missing"`
	// RemoteDeleted lists records whose row was deleted remotely.
	RemoteDeleted []string `json:"remote_deleted"`
}

// SyncPlanner builds a SyncPlan.
type SyncPlanner interface {
	BuildSyncPlan(ctx context.Context, local []models.SyncRecord, remote []ManifestEntry) (SyncPlan, error)
}

// SyncRunner drives one batch of pending records through a Transport.
type SyncRunner interface {
	// Apply marks records according to plan: remotely changed or deleted
	// rows become PendingDownload and unknown remote rows are tracked for
	// download.
	Apply(ctx context.Context, plan SyncPlan) error

	// Run syncs every pending record and reports the finished session. A
	// cancelled run finishes the session as Failed and returns ctx's error;
	// records not yet picked up keep their state, an interrupted transfer
	// leaves its record Failed.
	Run(ctx context.Context) (models.SyncSession, error)
}

// SyncJob runs a SyncRunner periodically in the background.
type SyncJob interface {
	// Start launches the job, replacing a running one.
	Start(ctx context.Context, interval time.Duration)
	// Stop cancels the job and waits for it to exit.
	Stop()
}
