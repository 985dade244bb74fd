// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package conflict

import (
	"reflect"

	"github.com/MKhiriev/timeline-sync/models"
)

// slot is a field lookup that distinguishes an absent field from a field
// explicitly holding nil.
type slot struct {
	value   any
	present bool
}

func lookup(m models.FieldMap, key string) slot {
	v, ok := m.Get(key)
	return slot{value: v, present: ok}
}

func (s slot) equal(o slot) bool {
	if s.present != o.present {
		return false
	}
	if !s.present {
		return true
	}
	return Equal(s.value, o.value)
}

// Equal compares two opaque field values. Numbers compare by value across
// Go numeric types (so 1 equals 1.0 after a JSON round-trip), lists compare
// element-wise and maps key-wise, recursively. Anything else falls back to
// reflect.DeepEqual.
func Equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}

	if la, ok := toList(a); ok {
		lb, ok := toList(b)
		if !ok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !Equal(la[i], lb[i]) {
				return false
			}
		}
		return true
	}

	if ma, ok := toMap(a); ok {
		mb, ok := toMap(b)
		if !ok || len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, exists := mb[k]
			if !exists || !Equal(va, vb) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// toList views slices of any element type as []any. Byte slices are opaque
// blobs, not lists.
func toList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []byte, nil:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func toMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case models.FieldMap:
		return m.ToMap(), true
	case *models.FieldMap:
		if m == nil {
			return nil, false
		}
		return m.ToMap(), true
	}
	return nil, false
}
