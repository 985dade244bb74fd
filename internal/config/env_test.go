// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.yaml",

		"APP_ROLE":      "worker",
		"APP_LOG_LEVEL": "debug",

		// Storage has nested prefixes: STORAGE_ + DB_
		"STORAGE_DB_DSN": "file:timeline.db",

		"SYNC_INTERVAL":          "10m",
		"SYNC_CONCURRENCY":       "8",
		"SYNC_MAX_RETRIES":       "3",
		"SYNC_RETRY_INTERVAL":    "30s",
		"SYNC_CHUNK_SIZE":        "64",
		"SYNC_CHUNK_CONCURRENCY": "2",

		"CLUSTERING_CONTEXT":                  "project",
		"CLUSTERING_TEMPORAL_THRESHOLD":       "12h",
		"CLUSTERING_SPATIAL_THRESHOLD_METERS": "750.5",
		"CLUSTERING_BURST_THRESHOLD":          "4s",
		"CLUSTERING_MIN_BURST_SIZE":           "4",

		"CACHE_BUDGET_BYTES": "1048576",
		"METRICS_ADDRESS":    "127.0.0.1:9100",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.yaml", cfg.FilePath)
	assert.Equal(t, "worker", cfg.App.Role)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "file:timeline.db", cfg.Storage.DB.DSN)

	assert.Equal(t, 10*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 8, cfg.Sync.Concurrency)
	assert.Equal(t, 3, cfg.Sync.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Sync.RetryInterval)
	assert.Equal(t, 64, cfg.Sync.ChunkSize)
	assert.Equal(t, 2, cfg.Sync.ChunkConcurrency)

	assert.Equal(t, "project", cfg.Clustering.Context)
	assert.Equal(t, 12*time.Hour, cfg.Clustering.TemporalThreshold)
	assert.InDelta(t, 750.5, cfg.Clustering.SpatialThresholdMeters, 1e-9)
	assert.Equal(t, 4*time.Second, cfg.Clustering.BurstThreshold)
	assert.Equal(t, 4, cfg.Clustering.MinBurstSize)

	assert.Equal(t, int64(1048576), cfg.Cache.BudgetBytes)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Address)
}

func TestParseEnv_PartialFields(t *testing.T) {
	setEnvVars(t, map[string]string{
		"STORAGE_DB_DSN":   ":memory:",
		"SYNC_CONCURRENCY": "2",
	})

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, ":memory:", cfg.Storage.DB.DSN)
	assert.Equal(t, 2, cfg.Sync.Concurrency)
	assert.Empty(t, cfg.App.LogLevel)
	assert.Zero(t, cfg.Sync.Interval)
	assert.Empty(t, cfg.FilePath)
}

func TestParseEnv_NoVars(t *testing.T) {
	clearEnvVars(t)

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "duration", key: "SYNC_INTERVAL", val: "soon"},
		{name: "int", key: "SYNC_CONCURRENCY", val: "four"},
		{name: "float", key: "CLUSTERING_SPATIAL_THRESHOLD_METERS", val: "far"},
		{name: "int64", key: "CACHE_BUDGET_BYTES", val: "1GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnvVars(t, map[string]string{tt.key: tt.val})

			err := parseEnv(&StructuredConfig{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "error getting env configs")
		})
	}
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",
		"APP_ROLE",
		"APP_LOG_LEVEL",
		"STORAGE_DB_DSN",
		"SYNC_INTERVAL",
		"SYNC_CONCURRENCY",
		"SYNC_MAX_RETRIES",
		"SYNC_RETRY_INTERVAL",
		"SYNC_CHUNK_SIZE",
		"SYNC_CHUNK_CONCURRENCY",
		"CLUSTERING_CONTEXT",
		"CLUSTERING_TEMPORAL_THRESHOLD",
		"CLUSTERING_SPATIAL_THRESHOLD_METERS",
		"CLUSTERING_BURST_THRESHOLD",
		"CLUSTERING_MIN_BURST_SIZE",
		"CACHE_BUDGET_BYTES",
		"METRICS_ADDRESS",
	}
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			require.NoError(t, os.Unsetenv(k))
			t.Cleanup(func() { _ = os.Setenv(k, v) })
		}
	}
}
