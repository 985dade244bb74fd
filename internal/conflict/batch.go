// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package conflict

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/timeline-sync/models"
)

// DefaultChunkSize is the number of inputs one batch worker handles.
const DefaultChunkSize = 256

// BatchOptions tunes [Detector.DetectBatch].
type BatchOptions struct {
	// ChunkSize is the number of inputs handled per worker. Zero means
	// DefaultChunkSize.
	ChunkSize int
	// Concurrency caps the number of chunks processed at once. Zero or
	// negative means one chunk at a time.
	Concurrency int
}

// DetectBatch runs DetectConflict over inputs split into independent
// chunks. Detection is local to each record, so chunks run in parallel and
// results are re-assembled in input order; inputs without a conflict are
// skipped.
//
// ctx is checked between records. A cancelled batch returns ctx's error
// and no partial result.
func (d *Detector) DetectBatch(ctx context.Context, inputs []Input, opts BatchOptions) ([]models.SyncConflict, error) {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	found := make([]*models.SyncConflict, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))

	for start := 0; start < len(inputs); start += chunkSize {
		end := min(start+chunkSize, len(inputs))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if c, ok := d.DetectConflict(inputs[i]); ok {
					found[i] = &c
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conflicts := make([]models.SyncConflict, 0, len(inputs))
	for _, c := range found {
		if c != nil {
			conflicts = append(conflicts, *c)
		}
	}
	return conflicts, nil
}
