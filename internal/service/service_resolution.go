// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/timeline-sync/internal/conflict"
	"github.com/MKhiriev/timeline-sync/models"
)

// ResolveConflict applies strategy to the conflict and settles the record
// tracking its row with the resolved data. A resolution equal to the remote
// copy marks the record Synced; any other result is queued for upload.
// A deferral only updates the conflict.
//
// The returned record is the zero value when no record tracks the row.
func (s *Services) ResolveConflict(ctx context.Context, id string, strategy models.ResolutionStrategy, resolvedBy string, opts ...conflict.ResolveOption) (models.SyncConflict, models.SyncRecord, error) {
	c, err := s.Conflicts.Resolve(ctx, id, strategy, resolvedBy, opts...)
	if err != nil {
		return c, models.SyncRecord{}, err
	}

	record, err := s.Records.FindByRow(ctx, c.TableName, c.RecordID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c, models.SyncRecord{}, nil
		}
		return c, models.SyncRecord{}, fmt.Errorf("find record for conflict %s: %w", id, err)
	}

	if !c.IsResolved() || c.ResolvedData == nil || record.SyncStatus != models.StatusConflict {
		return c, record, nil
	}

	synced := conflict.Equal(*c.ResolvedData, c.RemoteData)
	record, err = s.Records.ResolveConflict(ctx, record.ID, synced, WithSyncedData(*c.ResolvedData))
	if err != nil {
		return c, record, fmt.Errorf("settle record for conflict %s: %w", id, err)
	}
	return c, record, nil
}
