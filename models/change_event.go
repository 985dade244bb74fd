// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// EntityKind names the tracked entity a ChangeEvent refers to.
type EntityKind string

const (
	EntitySyncRecord   EntityKind = "sync_record"
	EntitySyncConflict EntityKind = "sync_conflict"
	EntitySyncSession  EntityKind = "sync_session"
	EntityMediaFile    EntityKind = "media_file"
)

// ChangeKind describes what happened to the entity.
type ChangeKind string

const (
	ChangeCreated  ChangeKind = "created"
	ChangeMutated  ChangeKind = "mutated"
	ChangeResolved ChangeKind = "resolved"
	ChangeRemoved  ChangeKind = "removed"
)

// ChangeEvent is emitted each time a tracked entity is created, mutated,
// resolved or removed. Payload holds a snapshot of the entity after the
// change: SyncRecord, SyncConflict, SyncSession or MediaFileMetadata.
type ChangeEvent struct {
	Entity   EntityKind `json:"entity"`
	Change   ChangeKind `json:"change"`
	EntityID string     `json:"entity_id"`
	At       time.Time  `json:"at"`
	Payload  any        `json:"payload,omitempty"`
}
