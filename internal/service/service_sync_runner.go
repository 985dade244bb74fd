// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/timeline-sync/internal/conflict"
	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/models"
)

// DefaultConcurrency is the number of records in flight when none is
// configured.
const DefaultConcurrency = 4

// outcome is what processing one record contributed to the session.
type outcome struct {
	processed, conflicts, errs int
}

type syncRunner struct {
	records     SyncRecordService
	sessions    SessionTracker
	conflicts   ConflictService
	transport   Transport
	concurrency int
	logger      *logger.Logger
}

// NewSyncRunner constructs a SyncRunner keeping up to concurrency records
// in flight. Zero or negative concurrency means DefaultConcurrency.
func NewSyncRunner(records SyncRecordService, sessions SessionTracker, conflicts ConflictService, transport Transport, concurrency int, log *logger.Logger) SyncRunner {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = logger.Nop()
	}
	return &syncRunner{
		records:     records,
		sessions:    sessions,
		conflicts:   conflicts,
		transport:   transport,
		concurrency: concurrency,
		logger:      log,
	}
}

func (r *syncRunner) Apply(ctx context.Context, plan SyncPlan) error {
	log := logger.FromContextOr(ctx, r.logger)
	var errs []error

	mark := func(id string) {
		if _, err := r.records.MarkRemoteChanged(ctx, id); err != nil {
			if errors.Is(err, models.ErrInvalidState) {
				log.Debug().Err(err).Str("func", "syncRunner.Apply").Str("record", id).Msg("record moved on, skipping")
				return
			}
			errs = append(errs, err)
		}
	}
	for _, id := range plan.Download {
		mark(id)
	}
	for _, id := range plan.RemoteDeleted {
		mark(id)
	}

	for _, entry := range plan.Missing {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := r.records.Track(ctx, TrackRequest{
			TableName: entry.TableName,
			RecordID:  entry.RecordID,
			Operation: models.OperationCreate,
			Status:    models.StatusPendingDownload,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("track remote row %s/%s: %w", entry.TableName, entry.RecordID, err))
		}
	}

	return errors.Join(errs...)
}

func (r *syncRunner) Run(ctx context.Context) (models.SyncSession, error) {
	log := logger.FromContextOr(ctx, r.logger)

	batch := r.records.List(ctx, models.StatusPendingUpload, models.StatusPendingDownload)
	session, err := r.sessions.Start(ctx, len(batch))
	if err != nil {
		return models.SyncSession{}, fmt.Errorf("start sync session: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, record := range batch {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := r.process(gctx, record)
			if out != (outcome{}) {
				if _, advErr := r.sessions.Advance(ctx, session.ID, out.processed, out.conflicts, out.errs); advErr != nil {
					log.Error().Err(advErr).Str("func", "syncRunner.Run").Str("session", session.ID).Msg("advance session")
				}
			}
			return err
		})
	}
	waitErr := g.Wait()

	if ctx.Err() != nil || waitErr != nil {
		finished, finishErr := r.sessions.Finish(context.WithoutCancel(ctx), session.ID, models.StatusFailed)
		if finishErr != nil {
			return finished, errors.Join(waitErr, finishErr)
		}
		if ctx.Err() != nil {
			return finished, ctx.Err()
		}
		return finished, waitErr
	}

	current, err := r.sessions.Get(ctx, session.ID)
	if err != nil {
		return models.SyncSession{}, err
	}

	status := models.StatusSynced
	switch {
	case current.ErrorsEncountered > 0:
		status = models.StatusFailed
	case current.ConflictsDetected > 0:
		status = models.StatusConflict
	}
	return r.sessions.Finish(ctx, session.ID, status)
}

// process moves one record through the transport. Transport failures are
// recorded on the record and counted, not returned; only cancellation and
// unexpected state errors stop the run.
func (r *syncRunner) process(ctx context.Context, record models.SyncRecord) (outcome, error) {
	log := logger.FromContextOr(ctx, r.logger)

	pulling := record.SyncStatus == models.StatusPendingDownload
	current, err := r.records.BeginSync(ctx, record.ID)
	if err != nil {
		if errors.Is(err, models.ErrInvalidState) || errors.Is(err, models.ErrNotFound) {
			// edited, deleted or picked up elsewhere since the batch was listed
			return outcome{processed: 1}, nil
		}
		return outcome{}, err
	}

	var state RemoteState
	if pulling {
		state, err = r.transport.Pull(ctx, current)
	} else {
		state, err = r.transport.Push(ctx, current)
	}
	if err != nil {
		if _, failErr := r.records.FailSync(context.WithoutCancel(ctx), current.ID, err.Error()); failErr != nil {
			log.Error().Err(failErr).Str("func", "syncRunner.process").Str("record", current.ID).Msg("record failure")
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return outcome{}, ctxErr
		}
		log.Warn().Err(err).Str("func", "syncRunner.process").Str("record", current.ID).Msg("transport failed")
		return outcome{processed: 1, errs: 1}, nil
	}

	conflicted, err := r.reconcile(ctx, current, state, pulling)
	if err != nil {
		// leave the record where the retry worker can find it
		if _, failErr := r.records.FailSync(context.WithoutCancel(ctx), current.ID, err.Error()); failErr != nil && !errors.Is(failErr, models.ErrInvalidState) {
			log.Error().Err(failErr).Str("func", "syncRunner.process").Str("record", current.ID).Msg("record failure")
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return outcome{}, ctxErr
		}
		log.Warn().Err(err).Str("func", "syncRunner.process").Str("record", current.ID).Msg("reconcile failed")
		return outcome{processed: 1, errs: 1}, nil
	}
	if conflicted {
		return outcome{processed: 1, conflicts: 1}, nil
	}
	return outcome{processed: 1}, nil
}

// reconcile settles a Syncing record against the transport's answer.
func (r *syncRunner) reconcile(ctx context.Context, record models.SyncRecord, state RemoteState, pulled bool) (bool, error) {
	log := logger.FromContextOr(ctx, r.logger)

	if !state.Diverged {
		var opts []CompleteOption
		if pulled {
			opts = append(opts, WithSyncedData(state.Data))
		}
		_, err := r.records.CompleteSync(ctx, record.ID, opts...)
		return false, err
	}

	localModifiedAt := record.LastModified
	c, found, err := r.conflicts.Detect(ctx, conflict.Input{
		TableName:        record.TableName,
		RecordID:         record.RecordID,
		Local:            record.Data,
		Remote:           state.Data,
		Base:             state.Base,
		LocalModifiedAt:  &localModifiedAt,
		RemoteModifiedAt: state.ModifiedAt,
	})
	if err != nil {
		return false, err
	}
	if found {
		if _, err = r.records.FlagConflict(ctx, record.ID); err != nil {
			return false, err
		}
		log.Info().
			Str("func", "syncRunner.reconcile").
			Str("record", record.ID).
			Str("conflict", c.ID).
			Msg("record flagged as conflicting")
		return true, nil
	}

	// Both sides changed, but never the same field differently.
	merged := conflict.Merge(record.Data, state.Data, state.Base)
	if _, err = r.records.CompleteSync(ctx, record.ID, WithSyncedData(merged)); err != nil {
		return false, err
	}
	if !conflict.Equal(merged, state.Data) {
		// the remote side has not seen the local half of the merge yet
		if _, err = r.records.MarkDirty(ctx, record.ID); err != nil {
			return false, err
		}
	}
	return false, nil
}
