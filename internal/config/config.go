// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/MKhiriev/timeline-sync/internal/clustering"
	"github.com/MKhiriev/timeline-sync/models"
)

// StructuredConfig is the top-level configuration container. It is
// populated by merging defaults, an optional config file, environment
// variables and command-line flags.
//
// Struct tags:
//   - envPrefix - prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       - direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds process-level settings such as the logger role and level.
	App App `envPrefix:"APP_"`

	// Storage holds the SQLite connection settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync tunes the batch runner and the retry worker.
	Sync Sync `envPrefix:"SYNC_"`

	// Clustering selects the event clustering thresholds.
	Clustering Clustering `envPrefix:"CLUSTERING_"`

	// Cache bounds the media cache.
	Cache Cache `envPrefix:"CACHE_"`

	// Metrics configures the ops HTTP listener (metrics, health, api).
	Metrics Metrics `envPrefix:"METRICS_"`

	// FilePath is the optional path to a JSON or YAML configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	FilePath string `env:"CONFIG"`
}

// App holds process-level settings.
type App struct {
	// Role is attached to every log line.
	// Env: APP_ROLE
	Role string `env:"ROLE"`

	// LogLevel is a zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Storage groups the persistence settings.
type Storage struct {
	// DB holds the SQLite connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the SQLite database.
type DB struct {
	// DSN is the SQLite file path or URI (e.g. "file:timeline.db?_journal_mode=WAL").
	// An empty DSN disables persistence.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Sync tunes the sync runner, the background job and the retry worker.
type Sync struct {
	// Interval between two batch runs of the background job.
	// Env: SYNC_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// Concurrency is the number of records in flight during a batch.
	// Env: SYNC_CONCURRENCY
	Concurrency int `env:"CONCURRENCY"`

	// MaxRetries caps how many times a Failed record is requeued.
	// Env: SYNC_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`

	// RetryInterval is the period of the retry worker.
	// Env: SYNC_RETRY_INTERVAL
	RetryInterval time.Duration `env:"RETRY_INTERVAL"`

	// ChunkSize is the number of conflict inputs handled per batch worker.
	// Env: SYNC_CHUNK_SIZE
	ChunkSize int `env:"CHUNK_SIZE"`

	// ChunkConcurrency caps the number of chunks detected at once.
	// Env: SYNC_CHUNK_CONCURRENCY
	ChunkConcurrency int `env:"CHUNK_CONCURRENCY"`
}

// Clustering selects a preset and optionally overrides its thresholds.
// Zero thresholds keep the preset's value.
type Clustering struct {
	// Context names the preset: person, pet, project or business. Empty
	// means the default preset.
	// Env: CLUSTERING_CONTEXT
	Context string `env:"CONTEXT"`

	// Env: CLUSTERING_TEMPORAL_THRESHOLD
	TemporalThreshold time.Duration `env:"TEMPORAL_THRESHOLD"`

	// Env: CLUSTERING_SPATIAL_THRESHOLD_METERS
	SpatialThresholdMeters float64 `env:"SPATIAL_THRESHOLD_METERS"`

	// Env: CLUSTERING_BURST_THRESHOLD
	BurstThreshold time.Duration `env:"BURST_THRESHOLD"`

	// Env: CLUSTERING_MIN_BURST_SIZE
	MinBurstSize int `env:"MIN_BURST_SIZE"`
}

// Cache bounds the media cache.
type Cache struct {
	// BudgetBytes is the storage budget enforced by the cache index.
	// Env: CACHE_BUDGET_BYTES
	BudgetBytes int64 `env:"BUDGET_BYTES"`
}

// Metrics configures the HTTP listener serving /metrics, /healthz and the
// read-only /api views.
type Metrics struct {
	// Address is the host:port of the listener. Empty disables it.
	// Env: METRICS_ADDRESS
	Address string `env:"ADDRESS"`
}

// Defaults returns the configuration used for every field no source sets.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Role:     "timelinesync",
			LogLevel: "info",
		},
		Storage: Storage{
			DB: DB{DSN: "timeline.db"},
		},
		Sync: Sync{
			Interval:         5 * time.Minute,
			Concurrency:      4,
			MaxRetries:       5,
			RetryInterval:    time.Minute,
			ChunkSize:        256,
			ChunkConcurrency: 4,
		},
		Cache: Cache{
			BudgetBytes: 512 << 20,
		},
	}
}

// Configuration resolves the clustering preset and applies the overrides.
func (c Clustering) Configuration() clustering.Configuration {
	cfg := clustering.ForContext(models.ContextType(c.Context))
	if c.TemporalThreshold > 0 {
		cfg.TemporalThreshold = c.TemporalThreshold
	}
	if c.SpatialThresholdMeters > 0 {
		cfg.SpatialThresholdMeters = c.SpatialThresholdMeters
	}
	if c.BurstThreshold > 0 {
		cfg.BurstThreshold = c.BurstThreshold
	}
	if c.MinBurstSize > 0 {
		cfg.MinBurstSize = c.MinBurstSize
	}
	return cfg
}

// GetStructuredConfig loads, merges, and validates the application
// configuration. Flags override environment variables, which override the
// config file, which overrides [Defaults].
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withFile().
		build()
}
