// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package conflict implements three-way conflict detection between a
// local, a remote and a common-ancestor copy of a record, and the
// strategies that settle a detected conflict.
//
// Everything in this package is pure computation over explicit inputs; it
// performs no I/O and holds no shared mutable state.
package conflict

import (
	"time"

	"github.com/MKhiriev/timeline-sync/models"
)

// IDGenerator produces opaque identifiers for new conflicts.
type IDGenerator interface {
	Generate() string
}

// Input is one record's three copies submitted for detection.
type Input struct {
	TableName string
	RecordID  string

	Local  models.FieldMap
	Remote models.FieldMap
	// Base is the last common ancestor. Leave it empty for rows created
	// independently on both sides.
	Base models.FieldMap

	LocalModifiedAt  *time.Time
	RemoteModifiedAt *time.Time
}

// Detect returns the fields on which local and remote both diverged from
// base and from each other. Keys are visited in local, then remote, then
// base insertion order and reported in that order of first detection.
//
// A field changed on one side only is not a conflict, and neither is a
// field both sides changed to the same value.
func Detect(local, remote, base models.FieldMap) []string {
	var conflicting []string
	for _, key := range unionKeys(local, remote, base) {
		l, r, b := lookup(local, key), lookup(remote, key), lookup(base, key)
		if !l.equal(r) && !l.equal(b) && !r.equal(b) {
			conflicting = append(conflicting, key)
		}
	}
	return conflicting
}

// unionKeys lists every key of the given maps once, in order of first
// appearance.
func unionKeys(maps ...models.FieldMap) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, m := range maps {
		for k := range m.All() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}

// Detector turns detected field sets into SyncConflict values.
type Detector struct {
	ids IDGenerator
	now func() time.Time
}

// NewDetector constructs a Detector stamping conflicts with ids from ids
// and times from now. A nil now defaults to time.Now.
func NewDetector(ids IDGenerator, now func() time.Time) *Detector {
	if now == nil {
		now = time.Now
	}
	return &Detector{ids: ids, now: now}
}

// DetectConflict runs [Detect] on in and, when at least one field
// conflicts, returns a new open SyncConflict holding copies of all three
// snapshots. The boolean is false when the copies can be reconciled
// without a conflict record.
func (d *Detector) DetectConflict(in Input) (models.SyncConflict, bool) {
	fields := Detect(in.Local, in.Remote, in.Base)
	if len(fields) == 0 {
		return models.SyncConflict{}, false
	}

	c := models.SyncConflict{
		ID:                d.ids.Generate(),
		TableName:         in.TableName,
		RecordID:          in.RecordID,
		LocalData:         in.Local.Clone(),
		RemoteData:        in.Remote.Clone(),
		BaseData:          in.Base.Clone(),
		ConflictingFields: fields,
		DetectedAt:        d.now(),
	}
	if in.LocalModifiedAt != nil {
		t := *in.LocalModifiedAt
		c.LocalModifiedAt = &t
	}
	if in.RemoteModifiedAt != nil {
		t := *in.RemoteModifiedAt
		c.RemoteModifiedAt = &t
	}

	return c, true
}
