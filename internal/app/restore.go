// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import (
	"context"
	"fmt"

	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/internal/service"
	"github.com/MKhiriev/timeline-sync/internal/store"
	"github.com/MKhiriev/timeline-sync/models"
)

// interruptReason is stored on records caught mid-transfer by a restart.
const interruptReason = "sync interrupted by shutdown"

// interrupted lists state left half-way by the previous process.
type interrupted struct {
	records  []string
	sessions []string
}

// restore loads persisted state into the services without publishing.
func restore(ctx context.Context, services *service.Services, storages *store.Storages, log *logger.Logger) error {
	records, err := storages.SyncRecords.ListSyncRecords(ctx, store.SyncRecordFilter{})
	if err != nil {
		return fmt.Errorf("load sync records: %w", err)
	}
	if err = services.Records.Restore(ctx, records...); err != nil {
		return fmt.Errorf("restore sync records: %w", err)
	}

	conflicts, err := storages.Conflicts.ListConflicts(ctx, false)
	if err != nil {
		return fmt.Errorf("load conflicts: %w", err)
	}
	if err = services.Conflicts.Restore(ctx, conflicts...); err != nil {
		return fmt.Errorf("restore conflicts: %w", err)
	}

	sessions, err := storages.Sessions.ListSessions(ctx, 0)
	if err != nil {
		return fmt.Errorf("load sync sessions: %w", err)
	}
	if err = services.Sessions.Restore(ctx, sessions...); err != nil {
		return fmt.Errorf("restore sync sessions: %w", err)
	}

	media, err := storages.Media.ListMediaFiles(ctx)
	if err != nil {
		return fmt.Errorf("load media files: %w", err)
	}
	services.Media.Restore(media)

	log.Info().
		Int("records", len(records)).
		Int("conflicts", len(conflicts)).
		Int("sessions", len(sessions)).
		Int("media_files", len(media)).
		Msg("state restored")
	return nil
}

// findInterrupted snapshots records still Syncing and sessions still
// running. Nothing can be in flight before the workers start, so both
// were cut off by the previous shutdown.
func findInterrupted(ctx context.Context, services *service.Services) interrupted {
	var out interrupted
	for _, r := range services.Records.List(ctx, models.StatusSyncing) {
		out.records = append(out.records, r.ID)
	}
	for _, s := range services.Sessions.Active(ctx) {
		out.sessions = append(out.sessions, s.ID)
	}
	return out
}

// settle trims the media cache to its budget and fails interrupted records
// and sessions. The resulting events reach storage through the persist
// worker queue.
func (a *App) settle(ctx context.Context) {
	plan := a.services.Media.EnforceBudget(ctx)

	for _, id := range a.interrupted.records {
		if _, err := a.services.Records.FailSync(ctx, id, interruptReason); err != nil {
			a.logger.Warn().Err(err).Str("record", id).Msg("error failing interrupted record")
		}
	}
	for _, id := range a.interrupted.sessions {
		if _, err := a.services.Sessions.Finish(ctx, id, models.StatusFailed); err != nil {
			a.logger.Warn().Err(err).Str("session", id).Msg("error finishing interrupted session")
		}
	}

	if len(a.interrupted.records)+len(a.interrupted.sessions)+len(plan.URLs) > 0 {
		a.logger.Info().
			Int("records", len(a.interrupted.records)).
			Int("sessions", len(a.interrupted.sessions)).
			Int("evicted_media", len(plan.URLs)).
			Msg("interrupted state settled")
	}
}
