// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package clustering

import (
	"fmt"
	"math"
	"time"

	"github.com/MKhiriev/timeline-sync/models"
)

// Configuration holds the thresholds of one clustering run.
type Configuration struct {
	// TemporalThreshold is the largest gap between an asset and the most
	// recent member of the open cluster.
	TemporalThreshold time.Duration `json:"temporal_threshold" yaml:"temporal_threshold" validate:"gte=0"`
	// SpatialThresholdMeters is the largest great-circle distance between
	// two located members of one cluster.
	SpatialThresholdMeters float64 `json:"spatial_threshold_meters" yaml:"spatial_threshold_meters" validate:"gte=0"`
	// BurstThreshold is the largest inter-arrival gap inside a burst run.
	BurstThreshold time.Duration `json:"burst_threshold" yaml:"burst_threshold" validate:"gte=0"`
	// MinBurstSize is the smallest run length tagged as a burst.
	MinBurstSize int `json:"min_burst_size" yaml:"min_burst_size" validate:"gte=0"`
}

// DefaultConfiguration is used for unknown contexts.
var DefaultConfiguration = Configuration{
	TemporalThreshold:      60 * time.Minute,
	SpatialThresholdMeters: 500,
	BurstThreshold:         3 * time.Second,
	MinBurstSize:           3,
}

// presets is the static table behind ForContext.
var presets = map[models.ContextType]Configuration{
	// everyday life: an outing spans a couple of hours around one place
	models.ContextPerson: {
		TemporalThreshold:      2 * time.Hour,
		SpatialThresholdMeters: 1_000,
		BurstThreshold:         3 * time.Second,
		MinBurstSize:           3,
	},
	models.ContextPet: {
		TemporalThreshold:      60 * time.Minute,
		SpatialThresholdMeters: 500,
		BurstThreshold:         2 * time.Second,
		MinBurstSize:           3,
	},
	// a project milestone may be documented over a whole working day
	models.ContextProject: {
		TemporalThreshold:      24 * time.Hour,
		SpatialThresholdMeters: 5_000,
		BurstThreshold:         5 * time.Second,
		MinBurstSize:           3,
	},
	models.ContextBusiness: {
		TemporalThreshold:      4 * time.Hour,
		SpatialThresholdMeters: 2_000,
		BurstThreshold:         5 * time.Second,
		MinBurstSize:           5,
	},
}

// ForContext returns the preset thresholds for ctx, or DefaultConfiguration
// when ctx has no preset.
func ForContext(ctx models.ContextType) Configuration {
	if cfg, ok := presets[ctx]; ok {
		return cfg
	}
	return DefaultConfiguration
}

// Validate rejects negative thresholds.
func (c Configuration) Validate() error {
	switch {
	case c.TemporalThreshold < 0:
		return fmt.Errorf("%w: negative temporal threshold %s", models.ErrValidation, c.TemporalThreshold)
	case c.SpatialThresholdMeters < 0 || math.IsNaN(c.SpatialThresholdMeters):
		return fmt.Errorf("%w: invalid spatial threshold %v", models.ErrValidation, c.SpatialThresholdMeters)
	case c.BurstThreshold < 0:
		return fmt.Errorf("%w: negative burst threshold %s", models.ErrValidation, c.BurstThreshold)
	case c.MinBurstSize < 0:
		return fmt.Errorf("%w: negative minimum burst size %d", models.ErrValidation, c.MinBurstSize)
	}
	return nil
}
