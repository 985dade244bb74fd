// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates an unknown log level.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidSyncConfigs indicates negative sync tuning values.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidClusteringConfigs indicates an unknown preset or negative
	// thresholds.
	ErrInvalidClusteringConfigs = errors.New("invalid clustering configuration")
	// ErrInvalidCacheConfigs indicates a negative cache budget.
	ErrInvalidCacheConfigs = errors.New("invalid cache configuration")
	// ErrInvalidMetricsConfigs indicates a malformed metrics address.
	ErrInvalidMetricsConfigs = errors.New("invalid metrics configuration")
)
