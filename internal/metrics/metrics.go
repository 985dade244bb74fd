// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics turns change events into Prometheus metrics and serves
// them over HTTP.
package metrics

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MKhiriev/timeline-sync/models"
)

const namespace = "timelinesync"

// Collector keeps a registry of sync engine metrics. Feed it with Observe,
// typically by subscribing it to the event bus.
type Collector struct {
	registry *prometheus.Registry

	changeEvents      *prometheus.CounterVec
	recordsByStatus   *prometheus.GaugeVec
	recordRetries     prometheus.Counter
	openConflicts     prometheus.Gauge
	resolvedConflicts *prometheus.CounterVec
	sessionsCompleted *prometheus.CounterVec
	sessionDuration   prometheus.Histogram
	sessionProgress   prometheus.Gauge
	cacheEntries      prometheus.Gauge
	cacheBytes        prometheus.Gauge

	mu               sync.Mutex
	recordStatus     map[string]models.SyncStatus
	recordRetry      map[string]int
	openConflict     map[string]struct{}
	cachedSizes      map[string]int64
	finishedSessions map[string]struct{}
}

// NewCollector registers every metric on a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		changeEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "change_events_total",
			Help:      "Total number of change events by entity and change kind",
		}, []string{"entity", "change"}),

		recordsByStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sync_records",
			Help:      "Current number of tracked sync records by status",
		}, []string{"status"}),

		recordRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_record_failures_total",
			Help:      "Total number of failed transport attempts",
		}),

		openConflicts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_conflicts",
			Help:      "Current number of unresolved conflicts",
		}),

		resolvedConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conflicts_resolved_total",
			Help:      "Total number of resolved conflicts by strategy",
		}, []string{"strategy"}),

		sessionsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_sessions_completed_total",
			Help:      "Total number of finished sync sessions by final status",
		}, []string{"status"}),

		sessionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_session_duration_seconds",
			Help:      "Duration of finished sync sessions in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		sessionProgress: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sync_session_progress_ratio",
			Help:      "Progress of the most recently updated sync session",
		}),

		cacheEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "media_cache_entries",
			Help:      "Current number of cached media files",
		}),

		cacheBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "media_cache_bytes",
			Help:      "Current size of cached media files in bytes",
		}),

		recordStatus:     make(map[string]models.SyncStatus),
		recordRetry:      make(map[string]int),
		openConflict:     make(map[string]struct{}),
		cachedSizes:      make(map[string]int64),
		finishedSessions: make(map[string]struct{}),
	}
}

// Registry exposes the underlying registry, e.g. for promhttp.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Observe updates the metrics from one change event. It has the signature
// of an events.Handler.
func (c *Collector) Observe(_ context.Context, event models.ChangeEvent) {
	c.changeEvents.WithLabelValues(string(event.Entity), string(event.Change)).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()

	switch event.Entity {
	case models.EntitySyncRecord:
		c.observeRecord(event)
	case models.EntitySyncConflict:
		c.observeConflict(event)
	case models.EntitySyncSession:
		c.observeSession(event)
	case models.EntityMediaFile:
		c.observeMedia(event)
	}
}

func (c *Collector) observeRecord(event models.ChangeEvent) {
	if prev, ok := c.recordStatus[event.EntityID]; ok {
		c.recordsByStatus.WithLabelValues(string(prev)).Dec()
	}

	if event.Change == models.ChangeRemoved {
		delete(c.recordStatus, event.EntityID)
		delete(c.recordRetry, event.EntityID)
		return
	}

	record, ok := event.Payload.(models.SyncRecord)
	if !ok {
		delete(c.recordStatus, event.EntityID)
		return
	}

	c.recordStatus[event.EntityID] = record.SyncStatus
	c.recordsByStatus.WithLabelValues(string(record.SyncStatus)).Inc()

	if record.RetryCount > c.recordRetry[event.EntityID] {
		c.recordRetries.Add(float64(record.RetryCount - c.recordRetry[event.EntityID]))
	}
	c.recordRetry[event.EntityID] = record.RetryCount
}

func (c *Collector) observeConflict(event models.ChangeEvent) {
	conflict, ok := event.Payload.(models.SyncConflict)
	resolved := event.Change == models.ChangeResolved || (ok && conflict.IsResolved())

	_, open := c.openConflict[event.EntityID]
	switch {
	case resolved && open:
		delete(c.openConflict, event.EntityID)
		c.openConflicts.Dec()
	case !resolved && !open:
		c.openConflict[event.EntityID] = struct{}{}
		c.openConflicts.Inc()
	}

	if event.Change == models.ChangeResolved && ok && conflict.ResolutionStrategy != nil {
		c.resolvedConflicts.WithLabelValues(string(*conflict.ResolutionStrategy)).Inc()
	}
}

func (c *Collector) observeSession(event models.ChangeEvent) {
	session, ok := event.Payload.(models.SyncSession)
	if !ok {
		return
	}

	c.sessionProgress.Set(session.Progress())

	if !session.IsCompleted() {
		return
	}
	if _, seen := c.finishedSessions[session.ID]; seen {
		return
	}
	c.finishedSessions[session.ID] = struct{}{}

	c.sessionsCompleted.WithLabelValues(string(session.Status)).Inc()
	c.sessionDuration.Observe(session.CompletedAt.Sub(session.StartedAt).Seconds())
}

func (c *Collector) observeMedia(event models.ChangeEvent) {
	if prev, ok := c.cachedSizes[event.EntityID]; ok {
		c.cacheBytes.Sub(float64(prev))
		c.cacheEntries.Dec()
		delete(c.cachedSizes, event.EntityID)
	}

	if event.Change == models.ChangeRemoved {
		return
	}

	entry, ok := event.Payload.(models.MediaFileMetadata)
	if !ok {
		return
	}
	c.cachedSizes[event.EntityID] = entry.FileSize
	c.cacheBytes.Add(float64(entry.FileSize))
	c.cacheEntries.Inc()
}
