// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"iter"
	"slices"

	"github.com/goccy/go-json"
)

// FieldMap is an insertion-ordered mapping of field name to opaque value.
// It is the working snapshot of a logical row (SyncRecord.Data) and the
// shape of the local/remote/base copies compared during conflict detection.
//
// The zero value is an empty, ready to use map. Methods with a value
// receiver never mutate; Set and Delete require an addressable FieldMap.
type FieldMap struct {
	keys   []string
	values map[string]any
}

// fieldEntry is the JSON element of an encoded FieldMap.
type fieldEntry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// NewFieldMap builds a FieldMap from alternating key/value arguments,
// preserving argument order. It panics when called with an odd number of
// arguments or a non-string key.
func NewFieldMap(kv ...any) FieldMap {
	if len(kv)%2 != 0 {
		panic("models.NewFieldMap: odd number of arguments")
	}

	var m FieldMap
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("models.NewFieldMap: key %v is not a string", kv[i]))
		}
		m.Set(key, kv[i+1])
	}
	return m
}

// FieldMapFrom converts a plain map into a FieldMap. Keys are inserted in
// ascending order so the result is deterministic.
func FieldMapFrom(src map[string]any) FieldMap {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var m FieldMap
	for _, k := range keys {
		m.Set(k, src[k])
	}
	return m
}

// Set stores value under key. A new key is appended to the iteration order;
// an existing key keeps its position.
func (m *FieldMap) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key if present.
func (m *FieldMap) Delete(key string) {
	if _, exists := m.values[key]; !exists {
		return
	}
	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
	if len(m.keys) == 0 {
		m.keys = nil
		m.values = nil
	}
}

// Get returns the value stored under key and whether it was present.
func (m FieldMap) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m FieldMap) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of fields.
func (m FieldMap) Len() int {
	return len(m.keys)
}

// IsEmpty reports whether the map holds no fields.
func (m FieldMap) IsEmpty() bool {
	return len(m.keys) == 0
}

// Keys returns a copy of the field names in insertion order.
func (m FieldMap) Keys() []string {
	return slices.Clone(m.keys)
}

// All iterates fields in insertion order.
func (m FieldMap) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy. Nested lists and maps are copied so that the
// clone can be mutated without affecting the receiver.
func (m FieldMap) Clone() FieldMap {
	var out FieldMap
	for _, k := range m.keys {
		out.Set(k, CloneValue(m.values[k]))
	}
	return out
}

// ToMap returns the fields as a plain, unordered map.
func (m FieldMap) ToMap() map[string]any {
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = m.values[k]
	}
	return out
}

// CloneValue deep-copies lists and maps found in an opaque field value.
// Scalars are returned unchanged.
func CloneValue(v any) any {
	switch value := v.(type) {
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		return slices.Clone(value)
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			out[k] = CloneValue(item)
		}
		return out
	case FieldMap:
		return value.Clone()
	default:
		return v
	}
}

// MarshalJSON encodes the map as an ordered array of {"key","value"} pairs,
// which keeps the field order across a round-trip.
func (m FieldMap) MarshalJSON() ([]byte, error) {
	entries := make([]fieldEntry, 0, len(m.keys))
	for _, k := range m.keys {
		entries = append(entries, fieldEntry{Key: k, Value: m.values[k]})
	}
	return json.Marshal(entries)
}

// UnmarshalJSON decodes the ordered pair form produced by MarshalJSON. A
// plain JSON object is accepted too; its keys are inserted in ascending
// order. JSON numbers decode as float64.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	*m = FieldMap{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '{' {
		var plain map[string]any
		if err := json.Unmarshal(trimmed, &plain); err != nil {
			return fmt.Errorf("decode field map object: %w", err)
		}
		*m = FieldMapFrom(plain)
		return nil
	}

	var entries []fieldEntry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return fmt.Errorf("decode field map entries: %w", err)
	}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return nil
}

// Value implements driver.Valuer so a FieldMap can be written to a TEXT
// column.
func (m FieldMap) Value() (driver.Value, error) {
	payload, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// Scan implements sql.Scanner for TEXT/BLOB columns holding an encoded
// FieldMap.
func (m *FieldMap) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = FieldMap{}
		return nil
	case []byte:
		return m.UnmarshalJSON(v)
	case string:
		return m.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into FieldMap", src)
	}
}
