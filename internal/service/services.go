// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/timeline-sync/internal/cache"
	"github.com/MKhiriev/timeline-sync/internal/clustering"
	"github.com/MKhiriev/timeline-sync/internal/config"
	"github.com/MKhiriev/timeline-sync/internal/conflict"
	"github.com/MKhiriev/timeline-sync/internal/events"
	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/internal/utils"
	"github.com/MKhiriev/timeline-sync/internal/validators"
)

// Services groups the engine's stateful components around one shared
// event publisher.
type Services struct {
	Records   SyncRecordService
	Sessions  SessionTracker
	Conflicts ConflictService
	Planner   SyncPlanner
	Runner    SyncRunner
	Job       SyncJob

	// Clustering groups media assets into events with the thresholds in
	// ClusteringConfig.
	Clustering       *clustering.Engine
	ClusteringConfig clustering.Configuration

	// Media is the on-device media cache index.
	Media *cache.Index
}

// NewServices wires every component from cfg. A nil transport syncs
// against a LoopbackTransport.
func NewServices(cfg *config.StructuredConfig, transport Transport, publisher events.Publisher, log *logger.Logger) (*Services, error) {
	if cfg == nil {
		return nil, ErrNoConfig
	}
	if log == nil {
		log = logger.Nop()
	}
	if transport == nil {
		log.Warn().Msg("no transport configured, syncing against loopback")
		transport = NewLoopbackTransport()
	}

	ids := utils.NewUUIDGenerator()
	validator := validators.NewEntityValidator()

	records := NewSyncRecordService(ids, nil, publisher, validator, log.WithComponent("sync_records"))
	sessions := NewSessionTracker(ids, nil, publisher, log.WithComponent("sync_sessions"))
	conflicts := NewConflictService(ids, nil, conflict.BatchOptions{
		ChunkSize:   cfg.Sync.ChunkSize,
		Concurrency: cfg.Sync.ChunkConcurrency,
	}, publisher, log.WithComponent("conflicts"))
	runner := NewSyncRunner(records, sessions, conflicts, transport, cfg.Sync.Concurrency, log.WithComponent("sync_runner"))

	media := cache.NewIndex(cache.NewPolicy(nil), cfg.Cache.BudgetBytes,
		cache.WithPublisher(publisher),
		cache.WithValidator(validator),
		cache.WithLogger(log.WithComponent("media_cache")),
	)

	log.Debug().
		Int("sync_concurrency", cfg.Sync.Concurrency).
		Int64("cache_budget_bytes", cfg.Cache.BudgetBytes).
		Str("clustering_context", cfg.Clustering.Context).
		Msg("services created")

	return &Services{
		Records:          records,
		Sessions:         sessions,
		Conflicts:        conflicts,
		Planner:          NewSyncPlanner(),
		Runner:           runner,
		Job:              NewSyncJob(runner, log.WithComponent("sync_job")),
		Clustering:       clustering.NewEngine(validator, log.WithComponent("clustering")),
		ClusteringConfig: cfg.Clustering.Configuration(),
		Media:            media,
	}, nil
}
