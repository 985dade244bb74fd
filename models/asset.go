// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"time"
)

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// AssetType is the content kind of a MediaAsset.
type AssetType string

const (
	AssetPhoto    AssetType = "photo"
	AssetVideo    AssetType = "video"
	AssetAudio    AssetType = "audio"
	AssetDocument AssetType = "document"
)

// IsValid reports whether t is one of the defined asset types.
func (t AssetType) IsValid() bool {
	switch t {
	case AssetPhoto, AssetVideo, AssetAudio, AssetDocument:
		return true
	}
	return false
}

// UnmarshalText rejects unknown asset types.
func (t *AssetType) UnmarshalText(text []byte) error {
	v := AssetType(text)
	if !v.IsValid() {
		return fmt.Errorf("%w: unknown asset type %q", ErrValidation, text)
	}
	*t = v
	return nil
}

// MediaAsset is a timestamped, optionally geotagged content item. Assets
// are immutable input to clustering.
type MediaAsset struct {
	ID   string    `json:"id" validate:"required"`
	Type AssetType `json:"type" validate:"required,enum"`
	// Timestamp is the capture instant.
	Timestamp time.Time   `json:"timestamp"`
	Location  *Coordinate `json:"location,omitempty" validate:"omitempty"`
}

// EventCluster is a maximal group of assets satisfying the proximity
// constraints of one clustering run.
type EventCluster struct {
	// AssetIDs lists member assets in capture order.
	AssetIDs []string `json:"asset_ids"`

	// CenterLocation is the mean coordinate of members with location data,
	// nil when none has any.
	CenterLocation *Coordinate `json:"center_location,omitempty"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// IsBurst marks clusters containing a rapid-fire capture run.
	IsBurst bool `json:"is_burst"`
	// BurstCount is the number of assets that belong to burst runs.
	BurstCount int `json:"burst_count"`
}

// Size returns the number of member assets.
func (c EventCluster) Size() int {
	return len(c.AssetIDs)
}
