// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package conflict

import (
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/MKhiriev/timeline-sync/models"
)

// Merge performs the automatic field-level merge of local and remote
// against base.
//
// Fields changed on one side take that side's value; a side that removed a
// field removes it from the result. Fields both sides changed differently
// are combined by [MergeValues]. Whenever the rules leave a tie, local
// wins. Result fields follow local, then remote, then base key order.
func Merge(local, remote, base models.FieldMap) models.FieldMap {
	var out models.FieldMap
	for _, key := range unionKeys(local, remote, base) {
		l, r, b := lookup(local, key), lookup(remote, key), lookup(base, key)

		var chosen slot
		switch {
		case l.equal(r):
			chosen = l
		case l.equal(b):
			chosen = r
		case r.equal(b):
			chosen = l
		default:
			chosen = mergeSlots(l, r, b)
		}

		if chosen.present {
			out.Set(key, models.CloneValue(chosen.value))
		}
	}
	return out
}

// mergeSlots combines a conflicting field. A field removed on one side and
// edited on the other has no type-specific rule, so local decides.
func mergeSlots(l, r, b slot) slot {
	if !l.present || !r.present {
		return l
	}
	var base any
	if b.present {
		base = b.value
	}
	return slot{value: MergeValues(l.value, r.value, base), present: true}
}

// MergeValues combines two conflicting values of one field:
//   - strings: the longer string wins (ties keep local);
//   - numbers: the arithmetic mean, as float64;
//   - lists: the union in order of first appearance across base, local
//     and remote, without duplicates;
//   - maps: a recursive union of keys where local wins on leaf collisions;
//   - anything else, including mismatched types and booleans: local wins.
func MergeValues(local, remote, base any) any {
	if ls, ok := local.(string); ok {
		if rs, ok := remote.(string); ok {
			if utf8.RuneCountInString(rs) > utf8.RuneCountInString(ls) {
				return rs
			}
			return ls
		}
		return local
	}

	if lf, ok := toFloat(local); ok {
		if rf, ok := toFloat(remote); ok {
			return (lf + rf) / 2
		}
		return local
	}

	if ll, ok := toList(local); ok {
		if rl, ok := toList(remote); ok {
			return mergeLists(local, remote, base, ll, rl)
		}
		return local
	}

	if lm, ok := toMap(local); ok {
		if rm, ok := toMap(remote); ok {
			return mergeMaps(lm, rm)
		}
		return local
	}

	return local
}

// mergeLists unions base, local and remote. The result is a []string when
// both sides are string slices, []any otherwise.
func mergeLists(local, remote, base any, ll, rl []any) any {
	var union []any
	add := func(items []any) {
		for _, item := range items {
			if !slices.ContainsFunc(union, func(u any) bool { return Equal(u, item) }) {
				union = append(union, models.CloneValue(item))
			}
		}
	}

	if bl, ok := toList(base); ok {
		add(bl)
	}
	add(ll)
	add(rl)

	_, localStrings := local.([]string)
	_, remoteStrings := remote.([]string)
	if localStrings && remoteStrings {
		out := make([]string, 0, len(union))
		for _, u := range union {
			if s, ok := u.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}

	if union == nil {
		union = []any{}
	}
	return union
}

// mergeMaps unions remote and local keys recursively; local is applied
// second so its leaves win on identical keys.
func mergeMaps(local, remote map[string]any) map[string]any {
	out := make(map[string]any, len(local)+len(remote))
	for k, v := range remote {
		out[k] = models.CloneValue(v)
	}

	keys := slices.Sorted(maps.Keys(local))
	for _, k := range keys {
		lv := local[k]
		if existing, ok := out[k]; ok {
			lm, lIsMap := toMap(lv)
			em, eIsMap := toMap(existing)
			if lIsMap && eIsMap {
				out[k] = mergeMaps(lm, em)
				continue
			}
		}
		out[k] = models.CloneValue(lv)
	}
	return out
}
