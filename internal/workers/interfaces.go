// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers provides the background workers of the sync engine and
// a Workers aggregate that runs them together.
package workers

import "context"

// Worker is a long-running background task.
//
// Run blocks until ctx is cancelled or the worker fails. A worker that
// stops because ctx was cancelled returns nil.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}
