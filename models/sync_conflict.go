// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"time"
)

// ResolutionStrategy selects how a SyncConflict is settled.
type ResolutionStrategy string

const (
	// StrategyLocalWins keeps the local copy.
	StrategyLocalWins ResolutionStrategy = "local_wins"

	// StrategyRemoteWins keeps the remote copy.
	StrategyRemoteWins ResolutionStrategy = "remote_wins"

	// StrategyLastWriterWins keeps the copy with the later modification
	// time; ties keep the local copy.
	StrategyLastWriterWins ResolutionStrategy = "last_writer_wins"

	// StrategyEarliestWins keeps the copy with the earlier modification
	// time; ties keep the local copy.
	StrategyEarliestWins ResolutionStrategy = "earliest_wins"

	// StrategyManualMerge stores merged data supplied by the caller.
	StrategyManualMerge ResolutionStrategy = "manual_merge"

	// StrategyAutomaticMerge merges field by field with type-specific rules.
	StrategyAutomaticMerge ResolutionStrategy = "automatic_merge"

	// StrategyDefer postpones the decision. The conflict stays open.
	StrategyDefer ResolutionStrategy = "defer"
)

// IsValid reports whether s is one of the defined strategies.
func (s ResolutionStrategy) IsValid() bool {
	switch s {
	case StrategyLocalWins, StrategyRemoteWins, StrategyLastWriterWins, StrategyEarliestWins,
		StrategyManualMerge, StrategyAutomaticMerge, StrategyDefer:
		return true
	}
	return false
}

// UnmarshalText rejects unknown strategies.
func (s *ResolutionStrategy) UnmarshalText(text []byte) error {
	v := ResolutionStrategy(text)
	if !v.IsValid() {
		return fmt.Errorf("%w: unknown resolution strategy %q", ErrValidation, text)
	}
	*s = v
	return nil
}

// SyncConflict is a detected disagreement over one logical row between a
// local and a remote copy that both diverged from a common base.
//
// A conflict is terminated by exactly one successful resolve and is
// immutable afterwards. Deferring does not terminate it.
type SyncConflict struct {
	ID        string `json:"id" validate:"required"`
	TableName string `json:"table_name" validate:"required"`
	RecordID  string `json:"record_id" validate:"required"`

	LocalData  FieldMap `json:"local_data"`
	RemoteData FieldMap `json:"remote_data"`
	// BaseData is the last common ancestor; empty for rows created
	// independently on both sides.
	BaseData FieldMap `json:"base_data"`

	// LocalModifiedAt and RemoteModifiedAt feed the time-based strategies.
	LocalModifiedAt  *time.Time `json:"local_modified_at,omitempty"`
	RemoteModifiedAt *time.Time `json:"remote_modified_at,omitempty"`

	// ConflictingFields lists the fields both sides changed differently,
	// in order of detection.
	ConflictingFields []string  `json:"conflicting_fields"`
	DetectedAt        time.Time `json:"detected_at"`

	ResolutionStrategy *ResolutionStrategy `json:"resolution_strategy,omitempty"`
	ResolvedAt         *time.Time          `json:"resolved_at,omitempty"`
	ResolvedData       *FieldMap           `json:"resolved_data,omitempty"`
	ResolvedBy         *string             `json:"resolved_by,omitempty"`
	ResolutionNote     *string             `json:"resolution_note,omitempty"`

	// LastDeferredAt, DeferredBy and DeferCount audit Defer decisions.
	LastDeferredAt *time.Time `json:"last_deferred_at,omitempty"`
	DeferredBy     *string    `json:"deferred_by,omitempty"`
	DeferCount     int        `json:"defer_count"`
}

// IsResolved reports whether the conflict carries a terminal resolution.
func (c SyncConflict) IsResolved() bool {
	return c.ResolvedAt != nil
}

// IsDeferred reports whether the conflict is open and was deferred at
// least once.
func (c SyncConflict) IsDeferred() bool {
	return !c.IsResolved() && c.LastDeferredAt != nil
}

// Clone returns a deep copy of the conflict.
func (c SyncConflict) Clone() SyncConflict {
	out := c
	out.LocalData = c.LocalData.Clone()
	out.RemoteData = c.RemoteData.Clone()
	out.BaseData = c.BaseData.Clone()
	out.ConflictingFields = append([]string(nil), c.ConflictingFields...)
	out.LocalModifiedAt = cloneTime(c.LocalModifiedAt)
	out.RemoteModifiedAt = cloneTime(c.RemoteModifiedAt)
	out.ResolvedAt = cloneTime(c.ResolvedAt)
	out.LastDeferredAt = cloneTime(c.LastDeferredAt)
	out.ResolvedBy = cloneString(c.ResolvedBy)
	out.ResolutionNote = cloneString(c.ResolutionNote)
	out.DeferredBy = cloneString(c.DeferredBy)
	if c.ResolutionStrategy != nil {
		s := *c.ResolutionStrategy
		out.ResolutionStrategy = &s
	}
	if c.ResolvedData != nil {
		d := c.ResolvedData.Clone()
		out.ResolvedData = &d
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
