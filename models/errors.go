// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "errors"

// Error taxonomy shared by every sync and clustering component. Callers match
// with [errors.Is]; components wrap these with record/conflict/session
// context via fmt.Errorf("%w: ...").
var (
	// ErrValidation is returned for malformed input: an invalid FuzzyDate,
	// an out-of-range coordinate, a negative file size and so on. Input is
	// never silently corrected.
	ErrValidation = errors.New("validation error")

	// ErrInvalidState is returned when a state-machine transition is
	// attempted from an incompatible sync status. Callers must inspect the
	// current state instead of retrying blindly.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrAlreadyResolved is returned when resolve is called on a conflict
	// that already carries a resolution.
	ErrAlreadyResolved = errors.New("conflict already resolved")

	// ErrAlreadyCompleted is returned when a sync session is finished twice.
	ErrAlreadyCompleted = errors.New("sync session already completed")

	// ErrMissingResolutionData is returned when a ManualMerge resolution is
	// requested without caller-supplied merged data.
	ErrMissingResolutionData = errors.New("manual merge requires resolution data")

	// ErrUnknownStrategy is returned for a resolution strategy that has no
	// registered handler.
	ErrUnknownStrategy = errors.New("unknown resolution strategy")

	// ErrNotFound is returned when a record, conflict, session or cache
	// entry with the requested identity is not tracked.
	ErrNotFound = errors.New("entity not found")
)
