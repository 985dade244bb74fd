// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that building with no layers yields the
// defaults.
func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_LaterLayersOverride verifies that a later layer wins for every
// non-zero field and that zero fields keep the earlier value.
func TestBuild_LaterLayersOverride(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{LogLevel: "warn"}, Sync: Sync{Concurrency: 2, MaxRetries: 9}},
		&StructuredConfig{Sync: Sync{Concurrency: 8}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, 8, cfg.Sync.Concurrency)
	assert.Equal(t, 9, cfg.Sync.MaxRetries)
	assert.Equal(t, "timelinesync", cfg.App.Role, "значение по умолчанию")
	assert.Equal(t, time.Minute, cfg.Sync.RetryInterval)
}

// TestBuild_ValidationError verifies that the merged result is validated.
func TestBuild_ValidationError(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{Clustering: Clustering{Context: "planet"}})

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidClusteringConfigs)
}

// ── withEnv ───────────────────────────────────────────────────────────────────

// TestWithEnv_ReturnsBuilder verifies the fluent interface.
func TestWithEnv_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())
}

// TestWithEnv_ReadsEnvVars verifies that environment variables are picked up.
func TestWithEnv_ReadsEnvVars(t *testing.T) {
	t.Setenv("APP_LOG_LEVEL", "error")
	t.Setenv("SYNC_CONCURRENCY", "16")

	b := newConfigBuilder()
	b.withEnv()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, "error", b.configs[0].App.LogLevel)
	assert.Equal(t, 16, b.configs[0].Sync.Concurrency)
}

// TestWithEnv_SetsErrorOnBadValue verifies that a value that cannot be
// converted is reported.
func TestWithEnv_SetsErrorOnBadValue(t *testing.T) {
	t.Setenv("SYNC_MAX_RETRIES", "many")

	b := newConfigBuilder()
	b.withEnv()

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withFlags ─────────────────────────────────────────────────────────────────

// TestWithFlags_ReturnsBuilder verifies the fluent interface.
func TestWithFlags_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withFlags(nil))
}

// TestWithFlags_SetsErrorOnUnknownFlag verifies that parse errors are kept.
func TestWithFlags_SetsErrorOnUnknownFlag(t *testing.T) {
	b := newConfigBuilder()
	b.withFlags([]string{"-no-such-flag"})
	assert.Error(t, b.err)
}

// ── withFile ──────────────────────────────────────────────────────────────────

// TestWithFile_NoOp_WhenNoPathSet verifies that withFile does nothing when
// no layer names a file.
func TestWithFile_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	assert.Same(t, b, b.withFile())

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

// TestWithFile_InsertsBelowOtherLayers verifies that the file is parsed and
// placed first, so env and flags override it.
func TestWithFile_InsertsBelowOtherLayers(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{"app": {"log_level": "debug"}, "sync": {"concurrency": 3}}`)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{FilePath: path, Sync: Sync{Concurrency: 12}})
	b.withFile()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "debug", b.configs[0].App.LogLevel)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 12, cfg.Sync.Concurrency)
}

// TestWithFile_UsesLastPath verifies that the last non-empty path wins.
func TestWithFile_UsesLastPath(t *testing.T) {
	first := writeTempConfig(t, "first.json", `{"app": {"role": "first"}}`)
	last := writeTempConfig(t, "last.yaml", "app:\n  role: last\n")

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{FilePath: first},
		&StructuredConfig{FilePath: ""},
		&StructuredConfig{FilePath: last},
	)
	b.withFile()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 4)
	assert.Equal(t, "last", b.configs[0].App.Role)
}

// TestWithFile_SetsError_WhenFileNotFound verifies that a missing file path
// sets b.err.
func TestWithFile_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{FilePath: "/nonexistent/config.json"})
	b.withFile()

	assert.Error(t, b.err)
}

// ── GetStructuredConfig ───────────────────────────────────────────────────────

func TestGetStructuredConfig_Priority(t *testing.T) {
	path := writeTempConfig(t, "config.yml", `
app:
  role: from-file
  log_level: debug
sync:
  concurrency: 2
  max_retries: 7
clustering:
  context: pet
`)
	t.Setenv("SYNC_CONCURRENCY", "6")
	t.Setenv("APP_LOG_LEVEL", "warn")

	cfg, err := GetStructuredConfig([]string{"-c", path, "-log-level", "error"})
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.App.Role)
	assert.Equal(t, "error", cfg.App.LogLevel, "флаги важнее окружения")
	assert.Equal(t, 6, cfg.Sync.Concurrency, "окружение важнее файла")
	assert.Equal(t, 7, cfg.Sync.MaxRetries)
	assert.Equal(t, "pet", cfg.Clustering.Context)
	assert.Equal(t, "timeline.db", cfg.Storage.DB.DSN)
}
