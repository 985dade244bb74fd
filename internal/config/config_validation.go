// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/timeline-sync/models"
)

// validate checks that the final merged [StructuredConfig] is usable at
// startup. Every failing group is reported; each error wraps one of the
// ErrInvalid* sentinels.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	if cfg.App.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.App.LogLevel); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidAppConfigs, err))
		}
	}

	s := cfg.Sync
	if s.Interval < 0 || s.RetryInterval < 0 || s.Concurrency < 0 || s.MaxRetries < 0 || s.ChunkSize < 0 || s.ChunkConcurrency < 0 {
		errs = append(errs, fmt.Errorf("%w: negative value", ErrInvalidSyncConfigs))
	}

	c := cfg.Clustering
	if c.Context != "" && !models.ContextType(c.Context).IsValid() {
		errs = append(errs, fmt.Errorf("%w: unknown context %q", ErrInvalidClusteringConfigs, c.Context))
	}
	if c.TemporalThreshold < 0 || c.SpatialThresholdMeters < 0 || c.BurstThreshold < 0 || c.MinBurstSize < 0 {
		errs = append(errs, fmt.Errorf("%w: negative threshold", ErrInvalidClusteringConfigs))
	} else if err := c.Configuration().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidClusteringConfigs, err))
	}

	if cfg.Cache.BudgetBytes < 0 {
		errs = append(errs, fmt.Errorf("%w: negative budget", ErrInvalidCacheConfigs))
	}

	if cfg.Metrics.Address != "" {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Address); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidMetricsConfigs, err))
		}
	}

	return errors.Join(errs...)
}
