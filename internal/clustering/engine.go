// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package clustering groups timestamped, optionally geotagged media assets
// into event clusters by temporal proximity, spatial proximity and burst
// capture.
//
// Clustering is a pure function of the asset set and the configuration:
// assets are ordered by (timestamp, id) before the sweep, so the partition
// does not depend on input order and re-running it yields the same result.
package clustering

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/timeline-sync/internal/geo"
	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/models"
)

// Validator checks clustering input before a run.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}

// Engine runs clustering passes.
type Engine struct {
	validator Validator
	logger    *logger.Logger
}

// NewEngine constructs an Engine. A nil validator skips input validation.
func NewEngine(validator Validator, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{validator: validator, logger: log}
}

// Cluster partitions assets into event clusters.
//
// Assets are swept in (timestamp, id) order. An asset joins the open
// cluster when its gap to the most recent member is within
// cfg.TemporalThreshold and, if it has a location, it lies within
// cfg.SpatialThresholdMeters of every located member. Otherwise the open
// cluster is closed and a new one starts with the asset. Assets without a
// location are gated by time only.
//
// Every asset lands in exactly one cluster and clusters come out in order
// of their earliest member. Empty input yields an empty, non-nil slice.
// ctx is checked between assets; a cancelled run returns ctx's error and
// no clusters.
func (e *Engine) Cluster(ctx context.Context, assets []models.MediaAsset, cfg Configuration) ([]models.EventCluster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if e.validator != nil {
		if err := e.validator.Validate(ctx, assets); err != nil {
			return nil, fmt.Errorf("cluster assets: %w", err)
		}
	}

	if len(assets) == 0 {
		return []models.EventCluster{}, nil
	}

	sorted := slices.Clone(assets)
	slices.SortStableFunc(sorted, compareAssets)

	var (
		clusters []models.EventCluster
		open     []models.MediaAsset
	)
	for _, asset := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if len(open) > 0 && !joins(open, asset, cfg) {
			clusters = append(clusters, build(open, cfg))
			open = nil
		}
		open = append(open, asset)
	}
	clusters = append(clusters, build(open, cfg))

	e.logger.Debug().
		Int("assets", len(assets)).
		Int("clusters", len(clusters)).
		Msg("clustering pass finished")

	return clusters, nil
}

func compareAssets(a, b models.MediaAsset) int {
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// joins reports whether candidate may extend the open cluster.
func joins(open []models.MediaAsset, candidate models.MediaAsset, cfg Configuration) bool {
	last := open[len(open)-1]
	if candidate.Timestamp.Sub(last.Timestamp) > cfg.TemporalThreshold {
		return false
	}

	if candidate.Location == nil {
		return true
	}
	for _, member := range open {
		if member.Location == nil {
			continue
		}
		if geo.Distance(*member.Location, *candidate.Location) > cfg.SpatialThresholdMeters {
			return false
		}
	}
	return true
}

// build turns closed members into a cluster with centroid, time span and
// burst tagging.
func build(members []models.MediaAsset, cfg Configuration) models.EventCluster {
	ids := make([]string, 0, len(members))
	var located []models.Coordinate
	for _, m := range members {
		ids = append(ids, m.ID)
		if m.Location != nil {
			located = append(located, *m.Location)
		}
	}

	burstCount := countBurstMembers(members, cfg.BurstThreshold, cfg.MinBurstSize)

	return models.EventCluster{
		AssetIDs:       ids,
		CenterLocation: geo.Centroid(located),
		StartTime:      members[0].Timestamp,
		EndTime:        members[len(members)-1].Timestamp,
		IsBurst:        burstCount > 0,
		BurstCount:     burstCount,
	}
}

// countBurstMembers sums the lengths of all runs of consecutive members
// whose inter-arrival gaps are within threshold and that are at least
// minSize long. A run always has at least two members.
func countBurstMembers(members []models.MediaAsset, threshold time.Duration, minSize int) int {
	minSize = max(minSize, 2)

	total, run := 0, 1
	flush := func() {
		if run >= minSize {
			total += run
		}
		run = 1
	}

	for i := 1; i < len(members); i++ {
		if members[i].Timestamp.Sub(members[i-1].Timestamp) <= threshold {
			run++
			continue
		}
		flush()
	}
	flush()

	return total
}
