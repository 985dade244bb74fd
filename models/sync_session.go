// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncSession is one batch synchronization attempt.
type SyncSession struct {
	ID          string     `json:"id" validate:"required"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Status      SyncStatus `json:"status" validate:"required,enum"`

	RecordsTotal      int `json:"records_total" validate:"gte=0"`
	RecordsProcessed  int `json:"records_processed" validate:"gte=0,ltefield=RecordsTotal"`
	ConflictsDetected int `json:"conflicts_detected" validate:"gte=0"`
	ErrorsEncountered int `json:"errors_encountered" validate:"gte=0"`
}

// Progress is RecordsProcessed / RecordsTotal clamped to [0, 1]. An empty
// session reports 0 until it completes, then 1.
func (s SyncSession) Progress() float64 {
	if s.RecordsTotal <= 0 {
		if s.IsCompleted() {
			return 1
		}
		return 0
	}

	p := float64(s.RecordsProcessed) / float64(s.RecordsTotal)
	return min(max(p, 0), 1)
}

// IsActive reports whether the session is still running.
func (s SyncSession) IsActive() bool {
	return s.Status == StatusSyncing && s.CompletedAt == nil
}

// IsCompleted reports whether the session was finalized.
func (s SyncSession) IsCompleted() bool {
	return s.CompletedAt != nil
}
