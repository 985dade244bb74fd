// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"time"
)

// CachePriority is the retention tier of a cached media file.
type CachePriority string

const (
	PriorityHigh   CachePriority = "high"
	PriorityMedium CachePriority = "medium"
	PriorityLow    CachePriority = "low"
)

// IsValid reports whether p is one of the defined tiers.
func (p CachePriority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// UnmarshalText rejects unknown tiers.
func (p *CachePriority) UnmarshalText(text []byte) error {
	v := CachePriority(text)
	if !v.IsValid() {
		return fmt.Errorf("%w: unknown cache priority %q", ErrValidation, text)
	}
	*p = v
	return nil
}

// MediaFileMetadata tracks one cached remote media file.
//
// Entries are created on the first cache write, touched on every read and
// removed only by eviction or explicit invalidation.
type MediaFileMetadata struct {
	// URL is the identity of the cached file.
	URL      string `json:"url" validate:"required"`
	FileType string `json:"file_type"`
	// FileSize is the size in bytes.
	FileSize     int64         `json:"file_size" validate:"gte=0"`
	Priority     CachePriority `json:"priority" validate:"required,enum"`
	LastAccessed time.Time     `json:"last_accessed"`
	AccessCount  int64         `json:"access_count" validate:"gte=0"`
	// IsEssential exempts the entry from eviction.
	IsEssential bool `json:"is_essential"`
}
