// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http exposes the engine's operational HTTP surface.
//
// Routes:
//
//	GET  /healthz                      liveness check
//	GET  /metrics                      Prometheus exposition
//	GET  /api/status                   record counts, open conflicts, active sessions, cache usage
//	GET  /api/records?status=...       tracked records, optionally filtered by status
//	GET  /api/records/{id}
//	GET  /api/conflicts                open conflicts
//	GET  /api/conflicts/{id}
//	POST /api/conflicts/{id}/resolve   apply a resolution strategy
//	GET  /api/sessions/active
//	GET  /api/sessions/{id}
//	POST /api/sync                     run one sync pass and return its session
//	POST /api/manifest                 classify and apply a remote change manifest
//	GET  /api/cache                    media cache usage
//	GET  /api/cache/plan?available=N   URLs to download into N bytes
//	POST /api/clusters?context=...     cluster media assets into events
//
// Every /api request gets an X-Trace-ID and an access log entry. The
// X-Actor header names who acts; conflict resolutions are attributed to it.
// Errors are JSON objects of the form {"error": "..."}.
package http
