// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// structuredFileConfig mirrors StructuredConfig for JSON and YAML files.
// Durations are written as strings such as "1h" or "30s".
type structuredFileConfig struct {
	App struct {
		Role     string `json:"role" yaml:"role"`
		LogLevel string `json:"log_level" yaml:"log_level"`
	} `json:"app" yaml:"app"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" yaml:"dsn"`
		} `json:"db" yaml:"db"`
	} `json:"storage" yaml:"storage"`

	Sync struct {
		Interval         Duration `json:"interval" yaml:"interval"`
		Concurrency      int      `json:"concurrency" yaml:"concurrency"`
		MaxRetries       int      `json:"max_retries" yaml:"max_retries"`
		RetryInterval    Duration `json:"retry_interval" yaml:"retry_interval"`
		ChunkSize        int      `json:"chunk_size" yaml:"chunk_size"`
		ChunkConcurrency int      `json:"chunk_concurrency" yaml:"chunk_concurrency"`
	} `json:"sync" yaml:"sync"`

	Clustering struct {
		Context                string   `json:"context" yaml:"context"`
		TemporalThreshold      Duration `json:"temporal_threshold" yaml:"temporal_threshold"`
		SpatialThresholdMeters float64  `json:"spatial_threshold_meters" yaml:"spatial_threshold_meters"`
		BurstThreshold         Duration `json:"burst_threshold" yaml:"burst_threshold"`
		MinBurstSize           int      `json:"min_burst_size" yaml:"min_burst_size"`
	} `json:"clustering" yaml:"clustering"`

	Cache struct {
		BudgetBytes int64 `json:"budget_bytes" yaml:"budget_bytes"`
	} `json:"cache" yaml:"cache"`

	Metrics struct {
		Address string `json:"address" yaml:"address"`
	} `json:"metrics" yaml:"metrics"`
}

// parseFile reads a config file. Files ending in .yaml or .yml are decoded
// as YAML, everything else as JSON.
func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a config file: %w", err)
	}

	var fileCfg structuredFileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		if err = json.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	}

	return &StructuredConfig{
		App: App{
			Role:     fileCfg.App.Role,
			LogLevel: fileCfg.App.LogLevel,
		},
		Storage: Storage{
			DB: DB{
				DSN: fileCfg.Storage.DB.DSN,
			},
		},
		Sync: Sync{
			Interval:         time.Duration(fileCfg.Sync.Interval),
			Concurrency:      fileCfg.Sync.Concurrency,
			MaxRetries:       fileCfg.Sync.MaxRetries,
			RetryInterval:    time.Duration(fileCfg.Sync.RetryInterval),
			ChunkSize:        fileCfg.Sync.ChunkSize,
			ChunkConcurrency: fileCfg.Sync.ChunkConcurrency,
		},
		Clustering: Clustering{
			Context:                fileCfg.Clustering.Context,
			TemporalThreshold:      time.Duration(fileCfg.Clustering.TemporalThreshold),
			SpatialThresholdMeters: fileCfg.Clustering.SpatialThresholdMeters,
			BurstThreshold:         time.Duration(fileCfg.Clustering.BurstThreshold),
			MinBurstSize:           fileCfg.Clustering.MinBurstSize,
		},
		Cache: Cache{
			BudgetBytes: fileCfg.Cache.BudgetBytes,
		},
		Metrics: Metrics{
			Address: fileCfg.Metrics.Address,
		},
	}, nil
}

// Duration is a wrapper around time.Duration that decodes from strings like
// "1h" or "30s", or from a number of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) set(v any) error {
	switch value := v.(type) {
	case nil:
		*d = 0
	case float64:
		*d = Duration(time.Duration(value))
	case int:
		*d = Duration(time.Duration(value))
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
	default:
		return fmt.Errorf("unsupported duration value %v (%T)", v, v)
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
