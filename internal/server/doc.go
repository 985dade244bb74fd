// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the engine's HTTP listener as a background worker:
// it serves until the worker context is cancelled and then shuts down
// gracefully.
package server
