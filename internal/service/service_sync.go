// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/timeline-sync/models"
)

// syncPlanner is the concrete implementation of SyncPlanner. It compares
// tracked records with a remote manifest purely in memory.
type syncPlanner struct{}

// NewSyncPlanner constructs a SyncPlanner ready for use.
func NewSyncPlanner() SyncPlanner {
	return &syncPlanner{}
}

// BuildSyncPlan implements SyncPlanner.
//
// It builds lookup indexes keyed by (table, record id), then makes two
// linear passes to classify every row into at most one action category:
//
//   - Pass 1 (over remote): rows present remotely, tracked locally or not.
//   - Pass 2 (over local): rows that exist only locally.
//
// ctx cancellation is checked at the start of each iteration.
func (p *syncPlanner) BuildSyncPlan(ctx context.Context, local []models.SyncRecord, remote []ManifestEntry) (SyncPlan, error) {
	var plan SyncPlan

	localIndex := make(map[rowKey]models.SyncRecord, len(local))
	for _, r := range local {
		localIndex[rowKey{table: r.TableName, id: r.RecordID}] = r
	}

	remoteIndex := make(map[rowKey]struct{}, len(remote))
	for _, e := range remote {
		remoteIndex[rowKey{table: e.TableName, id: e.RecordID}] = struct{}{}
	}

	// ── Pass 1: iterate over the remote manifest ────────────────────────────
	for _, entry := range remote {
		if err := ctx.Err(); err != nil {
			return SyncPlan{}, err
		}

		record, tracked := localIndex[rowKey{table: entry.TableName, id: entry.RecordID}]
		if !tracked {
			if !entry.Deleted {
				// Remote row the device has never seen → download.
				plan.Missing = append(plan.Missing, entry)
			}
			// Created and deleted remotely before the device synced → no action.
			continue
		}

		switch record.SyncStatus {
		case models.StatusPendingUpload, models.StatusFailed:
			// Local changes win the right to go first; a diverged remote
			// copy surfaces as a three-way comparison on push.
			plan.Upload = append(plan.Upload, record.ID)

		case models.StatusSynced:
			switch {
			case entry.Deleted && record.Operation != models.OperationDelete:
				plan.RemoteDeleted = append(plan.RemoteDeleted, record.ID)
			case !entry.Deleted && entry.ModifiedAt.After(record.LastModified):
				plan.Download = append(plan.Download, record.ID)
			}
			// Otherwise both sides agree → no action.

		default:
			// OfflineOnly rows are never shared; Syncing, Conflict and
			// PendingDownload rows are already being handled.
		}
	}

	// ── Pass 2: find local-only rows ───────────────────────────────────────
	for _, record := range local {
		if err := ctx.Err(); err != nil {
			return SyncPlan{}, err
		}

		if _, known := remoteIndex[rowKey{table: record.TableName, id: record.RecordID}]; known {
			continue
		}

		switch record.SyncStatus {
		case models.StatusPendingUpload, models.StatusFailed:
			// Never pushed before → upload.
			plan.Upload = append(plan.Upload, record.ID)
		}
	}

	return plan, nil
}
