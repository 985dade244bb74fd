// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── ordering ──────────────────────────────────────────────────────────────────

func TestFieldMap_PreservesInsertionOrder(t *testing.T) {
	m := NewFieldMap("title", "a", "body", "b", "tags", []any{"x"})
	assert.Equal(t, []string{"title", "body", "tags"}, m.Keys())

	m.Set("body", "c")
	assert.Equal(t, []string{"title", "body", "tags"}, m.Keys(), "overwriting keeps position")

	m.Set("mood", 3.0)
	assert.Equal(t, []string{"title", "body", "tags", "mood"}, m.Keys())
}

func TestFieldMap_Delete(t *testing.T) {
	m := NewFieldMap("a", 1, "b", 2)
	m.Delete("a")
	assert.Equal(t, []string{"b"}, m.Keys())
	assert.False(t, m.Has("a"))

	m.Delete("missing")
	assert.Equal(t, 1, m.Len())

	m.Delete("b")
	assert.True(t, m.IsEmpty())
	assert.Equal(t, FieldMap{}, m)
}

func TestFieldMap_ZeroValueIsUsable(t *testing.T) {
	var m FieldMap
	_, ok := m.Get("x")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())

	m.Set("x", true)
	v, ok := m.Get("x")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestFieldMap_CloneIsDeep(t *testing.T) {
	orig := NewFieldMap("tags", []any{"a"}, "meta", map[string]any{"k": "v"})
	cp := orig.Clone()

	tags, _ := cp.Get("tags")
	tags.([]any)[0] = "changed"
	meta, _ := cp.Get("meta")
	meta.(map[string]any)["k"] = "changed"

	origTags, _ := orig.Get("tags")
	origMeta, _ := orig.Get("meta")
	assert.Equal(t, "a", origTags.([]any)[0])
	assert.Equal(t, "v", origMeta.(map[string]any)["k"])
}

func TestNewFieldMap_PanicsOnOddArgs(t *testing.T) {
	assert.Panics(t, func() { NewFieldMap("a") })
	assert.Panics(t, func() { NewFieldMap(1, "a") })
}

func TestFieldMapFrom_SortsKeys(t *testing.T) {
	m := FieldMapFrom(map[string]any{"b": 1.0, "a": 2.0, "c": 3.0})
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
}

// ── encoding ──────────────────────────────────────────────────────────────────

func TestFieldMap_JSONRoundTripKeepsOrder(t *testing.T) {
	orig := NewFieldMap(
		"z", "last-alphabetically",
		"a", 1.5,
		"list", []any{"x", "y"},
		"nested", map[string]any{"k": true},
		"nothing", nil,
	)

	payload, err := json.Marshal(orig)
	require.NoError(t, err)

	var decoded FieldMap
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, orig, decoded)
	assert.Equal(t, []string{"z", "a", "list", "nested", "nothing"}, decoded.Keys())
}

func TestFieldMap_UnmarshalPlainObject(t *testing.T) {
	var m FieldMap
	require.NoError(t, json.Unmarshal([]byte(`{"b":2,"a":1}`), &m))
	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, _ := m.Get("a")
	assert.Equal(t, 1.0, v)
}

func TestFieldMap_UnmarshalNull(t *testing.T) {
	m := NewFieldMap("a", 1)
	require.NoError(t, m.UnmarshalJSON([]byte("null")))
	assert.True(t, m.IsEmpty())
}

func TestFieldMap_EmptyRoundTrip(t *testing.T) {
	payload, err := json.Marshal(FieldMap{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(payload))

	var decoded FieldMap
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, FieldMap{}, decoded)
}

func TestFieldMap_ValueAndScan(t *testing.T) {
	orig := NewFieldMap("title", "hello", "count", 2.0)

	v, err := orig.Value()
	require.NoError(t, err)

	var fromString FieldMap
	require.NoError(t, fromString.Scan(v))
	assert.Equal(t, orig, fromString)

	var fromBytes FieldMap
	require.NoError(t, fromBytes.Scan([]byte(v.(string))))
	assert.Equal(t, orig, fromBytes)

	var fromNil FieldMap
	require.NoError(t, fromNil.Scan(nil))
	assert.True(t, fromNil.IsEmpty())

	assert.Error(t, fromNil.Scan(42))
}
