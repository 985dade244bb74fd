// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package conflict

import (
	"testing"

	"github.com/MKhiriev/timeline-sync/models"
	"github.com/stretchr/testify/assert"
)

func TestMergeValues(t *testing.T) {
	tests := []struct {
		name   string
		local  any
		remote any
		base   any
		want   any
	}{
		{name: "longer remote string wins", local: "Hawaii", remote: "Hawaii trip", base: "Trip", want: "Hawaii trip"},
		{name: "longer local string wins", local: "Summer in Maui", remote: "Maui", base: "", want: "Summer in Maui"},
		{name: "equal length keeps local", local: "abc", remote: "xyz", base: "", want: "abc"},
		{name: "length counts runes", local: "ёжик", remote: "abcde", base: "", want: "abcde"},
		{name: "integer mean", local: 100, remote: 200, base: 0, want: 150.0},
		{name: "mixed numeric mean", local: 1, remote: 2.5, base: nil, want: 1.75},
		{
			name:   "string lists union base then local then remote",
			local:  []string{"family", "vacation"},
			remote: []string{"family", "celebration"},
			base:   []string{"family"},
			want:   []string{"family", "vacation", "celebration"},
		},
		{
			name:   "mixed lists union",
			local:  []any{1, "a"},
			remote: []any{2.0, "a", 1.0},
			base:   nil,
			want:   []any{1, "a", 2.0},
		},
		{
			name:   "nested maps merge recursively, local wins on leaves",
			local:  map[string]any{"a": 1, "nested": map[string]any{"x": "local", "y": true}},
			remote: map[string]any{"b": 2, "nested": map[string]any{"x": "remote", "z": false}},
			base:   map[string]any{},
			want:   map[string]any{"a": 1, "b": 2, "nested": map[string]any{"x": "local", "y": true, "z": false}},
		},
		{name: "booleans keep local", local: true, remote: false, base: nil, want: true},
		{name: "type mismatch keeps local", local: "42", remote: 42, base: nil, want: "42"},
		{name: "number against string keeps local", local: 7, remote: "seven", base: nil, want: 7},
		{name: "nil keeps local", local: nil, remote: "x", base: "y", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeValues(tt.local, tt.remote, tt.base))
		})
	}
}

func TestMerge_ListScenario(t *testing.T) {
	base := models.NewFieldMap("tags", []string{"family"})
	local := models.NewFieldMap("tags", []string{"family", "vacation"})
	remote := models.NewFieldMap("tags", []string{"family", "celebration"})

	merged := Merge(local, remote, base)

	tags, ok := merged.Get("tags")
	assert.True(t, ok)
	assert.Equal(t, []string{"family", "vacation", "celebration"}, tags)
}

func TestMerge_NumericScenario(t *testing.T) {
	merged := Merge(
		models.NewFieldMap("rating", 100),
		models.NewFieldMap("rating", 200),
		models.NewFieldMap("rating", 0),
	)

	v, _ := merged.Get("rating")
	assert.Equal(t, 150.0, v)
}

func TestMerge_NonConflictingFields(t *testing.T) {
	base := models.NewFieldMap("title", "Trip", "year", 2023, "note", "n", "place", "Kauai")
	local := models.NewFieldMap("title", "Hawaii", "year", 2023, "note", "n", "place", "Kauai", "mood", "happy")
	remote := models.NewFieldMap("title", "Trip", "year", 2024, "place", "Kauai")

	merged := Merge(local, remote, base)

	assert.Equal(t, []string{"title", "year", "place", "mood"}, merged.Keys())
	assert.Equal(t, map[string]any{
		"title": "Hawaii", // изменено только локально
		"year":  2024,     // изменено только удалённо
		"place": "Kauai",
		"mood":  "happy", // добавлено локально
	}, merged.ToMap())
	assert.False(t, merged.Has("note"), "removed on remote only")
}

func TestMerge_DeleteVersusEditKeepsLocal(t *testing.T) {
	base := models.NewFieldMap("title", "Trip")

	merged := Merge(models.FieldMap{}, models.NewFieldMap("title", "Maui"), base)
	assert.False(t, merged.Has("title"), "local deletion wins")

	merged = Merge(models.NewFieldMap("title", "Hawaii"), models.FieldMap{}, base)
	v, _ := merged.Get("title")
	assert.Equal(t, "Hawaii", v, "local edit wins")
}

func TestMerge_DoesNotAliasInputs(t *testing.T) {
	local := models.NewFieldMap("tags", []any{"a"})
	remote := models.NewFieldMap("tags", []any{"a"})

	merged := Merge(local, remote, models.FieldMap{})
	tags, _ := merged.Get("tags")
	tags.([]any)[0] = "changed"

	orig, _ := local.Get("tags")
	assert.Equal(t, []any{"a"}, orig)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(1, 1.0))
	assert.True(t, Equal(int64(3), float32(3)))
	assert.True(t, Equal([]string{"a", "b"}, []any{"a", "b"}))
	assert.True(t, Equal(map[string]any{"n": 1}, map[string]any{"n": 1.0}))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, 0))
	assert.False(t, Equal("1", 1))
	assert.False(t, Equal([]any{1, 2}, []any{2, 1}))
	assert.False(t, Equal(true, 1))
}
