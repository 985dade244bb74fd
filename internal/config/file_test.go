// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// ── parseFile ──

func TestParseFile_JSON(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{
		"app": {"role": "sync", "log_level": "warn"},
		"storage": {"db": {"dsn": "file:test.db"}},
		"sync": {
			"interval": "2m",
			"concurrency": 6,
			"max_retries": 2,
			"retry_interval": "15s",
			"chunk_size": 128,
			"chunk_concurrency": 3
		},
		"clustering": {
			"context": "business",
			"temporal_threshold": "6h",
			"spatial_threshold_meters": 250,
			"burst_threshold": "2s",
			"min_burst_size": 5
		},
		"cache": {"budget_bytes": 2048},
		"metrics": {"address": ":9100"}
	}`)

	cfg, err := parseFile(path)
	require.NoError(t, err)

	assert.Equal(t, "sync", cfg.App.Role)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "file:test.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 2*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 6, cfg.Sync.Concurrency)
	assert.Equal(t, 2, cfg.Sync.MaxRetries)
	assert.Equal(t, 15*time.Second, cfg.Sync.RetryInterval)
	assert.Equal(t, 128, cfg.Sync.ChunkSize)
	assert.Equal(t, 3, cfg.Sync.ChunkConcurrency)
	assert.Equal(t, "business", cfg.Clustering.Context)
	assert.Equal(t, 6*time.Hour, cfg.Clustering.TemporalThreshold)
	assert.InDelta(t, 250.0, cfg.Clustering.SpatialThresholdMeters, 1e-9)
	assert.Equal(t, 2*time.Second, cfg.Clustering.BurstThreshold)
	assert.Equal(t, 5, cfg.Clustering.MinBurstSize)
	assert.Equal(t, int64(2048), cfg.Cache.BudgetBytes)
	assert.Equal(t, ":9100", cfg.Metrics.Address)
}

func TestParseFile_YAML(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.YML"} {
		t.Run(name, func(t *testing.T) {
			path := writeTempConfig(t, name, `
app:
  log_level: error
sync:
  interval: 90s
  concurrency: 2
clustering:
  context: pet
cache:
  budget_bytes: 4096
`)

			cfg, err := parseFile(path)
			require.NoError(t, err)

			assert.Equal(t, "error", cfg.App.LogLevel)
			assert.Equal(t, 90*time.Second, cfg.Sync.Interval)
			assert.Equal(t, 2, cfg.Sync.Concurrency)
			assert.Equal(t, "pet", cfg.Clustering.Context)
			assert.Equal(t, int64(4096), cfg.Cache.BudgetBytes)
			assert.Empty(t, cfg.Storage.DB.DSN)
		})
	}
}

func TestParseFile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		body     string
		errorMsg string
	}{
		{
			name:     "broken json",
			file:     "config.json",
			body:     `{"app": `,
			errorMsg: "error decoding json configs",
		},
		{
			name:     "broken yaml",
			file:     "config.yaml",
			body:     "app: [unterminated",
			errorMsg: "error decoding yaml configs",
		},
		{
			name:     "bad duration",
			file:     "config.json",
			body:     `{"sync": {"interval": "soon"}}`,
			errorMsg: "error decoding json configs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempConfig(t, tt.file, tt.body)

			cfg, err := parseFile(path)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestParseFile_Missing(t *testing.T) {
	cfg, err := parseFile(t.TempDir() + "/absent.json")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error reading a config file")
}

// ── Duration ──

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", input: `"1h30m"`, want: 90 * time.Minute},
		{name: "nanoseconds", input: `1000000000`, want: time.Second},
		{name: "null", input: `null`, want: 0},
		{name: "bad string", input: `"later"`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	var holder struct {
		D Duration `yaml:"d"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("d: 45s\n"), &holder))
	assert.Equal(t, 45*time.Second, time.Duration(holder.D))

	require.NoError(t, yaml.Unmarshal([]byte("d: 5\n"), &holder))
	assert.Equal(t, 5*time.Nanosecond, time.Duration(holder.D))
}

func TestDuration_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Duration(3 * time.Minute))
	require.NoError(t, err)
	assert.JSONEq(t, `"3m0s"`, string(out))
}

// ── validate ──

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{
			name:   "defaults are valid",
			mutate: func(*StructuredConfig) {},
		},
		{
			name:    "unknown log level",
			mutate:  func(cfg *StructuredConfig) { cfg.App.LogLevel = "chatty" },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "negative concurrency",
			mutate:  func(cfg *StructuredConfig) { cfg.Sync.Concurrency = -1 },
			wantErr: ErrInvalidSyncConfigs,
		},
		{
			name:    "unknown clustering context",
			mutate:  func(cfg *StructuredConfig) { cfg.Clustering.Context = "robot" },
			wantErr: ErrInvalidClusteringConfigs,
		},
		{
			name:    "negative spatial threshold",
			mutate:  func(cfg *StructuredConfig) { cfg.Clustering.SpatialThresholdMeters = -5 },
			wantErr: ErrInvalidClusteringConfigs,
		},
		{
			name:    "negative cache budget",
			mutate:  func(cfg *StructuredConfig) { cfg.Cache.BudgetBytes = -1 },
			wantErr: ErrInvalidCacheConfigs,
		},
		{
			name:    "metrics address without port",
			mutate:  func(cfg *StructuredConfig) { cfg.Metrics.Address = "localhost" },
			wantErr: ErrInvalidMetricsConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryGroup(t *testing.T) {
	cfg := Defaults()
	cfg.App.LogLevel = "chatty"
	cfg.Cache.BudgetBytes = -1

	err := cfg.validate()
	require.ErrorIs(t, err, ErrInvalidAppConfigs)
	require.ErrorIs(t, err, ErrInvalidCacheConfigs)
}
