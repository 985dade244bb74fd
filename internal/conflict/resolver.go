// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package conflict

import (
	"fmt"
	"time"

	"github.com/MKhiriev/timeline-sync/models"
)

// resolveOptions carries the optional arguments of a resolve call.
type resolveOptions struct {
	note       *string
	manualData *models.FieldMap
}

// ResolveOption customizes a [Resolver.Resolve] call.
type ResolveOption func(*resolveOptions)

// WithNote attaches a free-form audit note to the resolution.
func WithNote(note string) ResolveOption {
	return func(o *resolveOptions) {
		o.note = &note
	}
}

// WithManualData supplies the merged data for [models.StrategyManualMerge].
func WithManualData(data models.FieldMap) ResolveOption {
	return func(o *resolveOptions) {
		d := data.Clone()
		o.manualData = &d
	}
}

// strategyHandler computes the resolved data of one strategy.
type strategyHandler func(c models.SyncConflict, o resolveOptions) (models.FieldMap, error)

// Resolver settles conflicts through a dispatch table with one handler per
// terminal strategy. StrategyDefer is handled separately since it never
// produces resolved data.
type Resolver struct {
	now      func() time.Time
	handlers map[models.ResolutionStrategy]strategyHandler
}

// NewResolver constructs a Resolver using now as its clock. A nil now
// defaults to time.Now.
func NewResolver(now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{
		now: now,
		handlers: map[models.ResolutionStrategy]strategyHandler{
			models.StrategyLocalWins:      resolveLocalWins,
			models.StrategyRemoteWins:     resolveRemoteWins,
			models.StrategyLastWriterWins: resolveLastWriterWins,
			models.StrategyEarliestWins:   resolveEarliestWins,
			models.StrategyManualMerge:    resolveManualMerge,
			models.StrategyAutomaticMerge: resolveAutomaticMerge,
		},
	}
}

// Resolve applies strategy to c and returns the updated conflict; c itself
// is left untouched.
//
// Terminal strategies stamp ResolvedAt, ResolvedBy, ResolutionStrategy,
// ResolvedData and the optional note. StrategyDefer keeps the conflict
// open and only records LastDeferredAt, DeferredBy, DeferCount and the note.
//
// Errors: [models.ErrAlreadyResolved] when c is already resolved,
// [models.ErrMissingResolutionData] for a manual merge without
// [WithManualData], [models.ErrUnknownStrategy] for an unregistered
// strategy.
func (r *Resolver) Resolve(c models.SyncConflict, strategy models.ResolutionStrategy, resolvedBy string, opts ...ResolveOption) (models.SyncConflict, error) {
	if c.IsResolved() {
		return c, fmt.Errorf("%w: conflict %s", models.ErrAlreadyResolved, c.ID)
	}

	var o resolveOptions
	for _, opt := range opts {
		opt(&o)
	}

	out := c.Clone()
	now := r.now()

	if strategy == models.StrategyDefer {
		out.LastDeferredAt = &now
		out.DeferredBy = &resolvedBy
		out.DeferCount++
		if o.note != nil {
			out.ResolutionNote = o.note
		}
		return out, nil
	}

	handler, ok := r.handlers[strategy]
	if !ok {
		return c, fmt.Errorf("%w: %q", models.ErrUnknownStrategy, strategy)
	}

	data, err := handler(c, o)
	if err != nil {
		return c, fmt.Errorf("resolve conflict %s with %s: %w", c.ID, strategy, err)
	}

	out.ResolutionStrategy = &strategy
	out.ResolvedAt = &now
	out.ResolvedData = &data
	out.ResolvedBy = &resolvedBy
	out.ResolutionNote = o.note

	return out, nil
}

func resolveLocalWins(c models.SyncConflict, _ resolveOptions) (models.FieldMap, error) {
	return c.LocalData.Clone(), nil
}

func resolveRemoteWins(c models.SyncConflict, _ resolveOptions) (models.FieldMap, error) {
	return c.RemoteData.Clone(), nil
}

// resolveLastWriterWins keeps remote only when it is known to be strictly
// newer; missing timestamps keep local.
func resolveLastWriterWins(c models.SyncConflict, _ resolveOptions) (models.FieldMap, error) {
	if c.LocalModifiedAt != nil && c.RemoteModifiedAt != nil && c.RemoteModifiedAt.After(*c.LocalModifiedAt) {
		return c.RemoteData.Clone(), nil
	}
	return c.LocalData.Clone(), nil
}

// resolveEarliestWins keeps remote only when it is known to be strictly
// older; missing timestamps keep local.
func resolveEarliestWins(c models.SyncConflict, _ resolveOptions) (models.FieldMap, error) {
	if c.LocalModifiedAt != nil && c.RemoteModifiedAt != nil && c.RemoteModifiedAt.Before(*c.LocalModifiedAt) {
		return c.RemoteData.Clone(), nil
	}
	return c.LocalData.Clone(), nil
}

func resolveManualMerge(_ models.SyncConflict, o resolveOptions) (models.FieldMap, error) {
	if o.manualData == nil {
		return models.FieldMap{}, models.ErrMissingResolutionData
	}
	return o.manualData.Clone(), nil
}

func resolveAutomaticMerge(c models.SyncConflict, _ resolveOptions) (models.FieldMap, error) {
	return Merge(c.LocalData, c.RemoteData, c.BaseData), nil
}
