// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app is the composition root of the timeline sync engine.
//
// It wires configuration, storage, the in-memory services and the event
// bus together, hydrates the services from the database on startup and
// runs the background workers until the process receives a stop signal:
//
//	bus ──► metrics.Collector     (gauges and counters)
//	    └─► workers.PersistWorker (write-behind to SQLite)
//
//	workers: persist, retry, sync job, HTTP server (metrics and ops API)
package app
