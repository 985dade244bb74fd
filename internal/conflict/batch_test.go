// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package conflict

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/MKhiriev/timeline-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// atomicIDs потокобезопасен, в отличие от seqIDs.
type atomicIDs struct{ n atomic.Int64 }

func (a *atomicIDs) Generate() string {
	return fmt.Sprintf("c-%d", a.n.Add(1))
}

func batchInputs(n int) []Input {
	inputs := make([]Input, 0, n)
	for i := range n {
		remote := "same"
		if i%3 == 0 {
			remote = "other"
		}
		inputs = append(inputs, Input{
			TableName: "events",
			RecordID:  fmt.Sprintf("rec-%04d", i),
			Local:     models.NewFieldMap("title", "mine"),
			Remote:    models.NewFieldMap("title", remote),
			Base:      models.NewFieldMap("title", "same"),
		})
	}
	return inputs
}

func TestDetector_DetectBatch_KeepsInputOrder(t *testing.T) {
	d := NewDetector(&atomicIDs{}, fixedClock)
	inputs := batchInputs(1000)

	got, err := d.DetectBatch(context.Background(), inputs, BatchOptions{ChunkSize: 7, Concurrency: 4})
	require.NoError(t, err)

	var want []string
	for i, in := range inputs {
		if i%3 == 0 {
			want = append(want, in.RecordID)
		}
	}

	gotIDs := make([]string, 0, len(got))
	seen := make(map[string]bool)
	for _, c := range got {
		gotIDs = append(gotIDs, c.RecordID)
		assert.False(t, seen[c.ID], "conflict ids must be unique")
		seen[c.ID] = true
	}
	assert.Equal(t, want, gotIDs)
}

func TestDetector_DetectBatch_MatchesSequential(t *testing.T) {
	inputs := batchInputs(50)

	parallel, err := NewDetector(&atomicIDs{}, fixedClock).
		DetectBatch(context.Background(), inputs, BatchOptions{ChunkSize: 3, Concurrency: 8})
	require.NoError(t, err)

	sequential, err := NewDetector(&atomicIDs{}, fixedClock).
		DetectBatch(context.Background(), inputs, BatchOptions{})
	require.NoError(t, err)

	require.Len(t, parallel, len(sequential))
	for i := range parallel {
		assert.Equal(t, sequential[i].RecordID, parallel[i].RecordID)
		assert.Equal(t, sequential[i].ConflictingFields, parallel[i].ConflictingFields)
	}
}

func TestDetector_DetectBatch_Empty(t *testing.T) {
	got, err := NewDetector(&atomicIDs{}, fixedClock).DetectBatch(context.Background(), nil, BatchOptions{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDetector_DetectBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := NewDetector(&atomicIDs{}, fixedClock).DetectBatch(ctx, batchInputs(100), BatchOptions{Concurrency: 2})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got, "cancelled batch must not return partial results")
}
