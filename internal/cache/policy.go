// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cache decides which cached media files to keep, evict or fetch
// under a byte budget, and keeps an in-memory index of the cached files.
package cache

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/MKhiriev/timeline-sync/models"
)

// Score components. Tier bases are spaced so that recency and frequency
// can reorder entries inside a tier and only nudge them across tiers.
const (
	BaseScoreHigh   = 100.0
	BaseScoreMedium = 50.0
	BaseScoreLow    = 10.0

	// RecencyWeight is the bonus of an entry accessed right now. It halves
	// every RecencyHalfLife.
	RecencyWeight   = 40.0
	RecencyHalfLife = 24 * time.Hour

	// FrequencyWeight scales log2(1 + accessCount).
	FrequencyWeight = 5.0
)

// EvictionPlan is the result of SelectForEviction.
type EvictionPlan struct {
	// URLs lists entries to evict, lowest score first.
	URLs []string
	// Freed is the total size of the listed entries.
	Freed int64
	// Shortfall is the number of bytes still missing after evicting every
	// non-essential entry; zero when the request can be met.
	Shortfall int64
}

// HasShortfall reports whether the plan cannot free the requested space.
func (p EvictionPlan) HasShortfall() bool {
	return p.Shortfall > 0
}

// Policy scores cached media files and selects eviction and sync sets.
type Policy struct {
	now func() time.Time
}

// NewPolicy constructs a Policy using now as its clock. A nil now defaults
// to time.Now.
func NewPolicy(now func() time.Time) *Policy {
	if now == nil {
		now = time.Now
	}
	return &Policy{now: now}
}

// PriorityScore combines the tier base, a recency bonus decaying with the
// time since the last access and a sublinear frequency bonus. IsEssential
// does not contribute; essential entries are protected by the selection
// rules instead.
func (p *Policy) PriorityScore(entry models.MediaFileMetadata) float64 {
	return p.score(entry, p.now())
}

func (p *Policy) score(entry models.MediaFileMetadata, now time.Time) float64 {
	age := max(now.Sub(entry.LastAccessed), 0)
	recency := RecencyWeight * math.Exp2(-float64(age)/float64(RecencyHalfLife))
	frequency := FrequencyWeight * math.Log2(1+float64(max(entry.AccessCount, 0)))

	return baseScore(entry.Priority) + recency + frequency
}

func baseScore(p models.CachePriority) float64 {
	switch p {
	case models.PriorityHigh:
		return BaseScoreHigh
	case models.PriorityMedium:
		return BaseScoreMedium
	default:
		return BaseScoreLow
	}
}

type scored struct {
	entry models.MediaFileMetadata
	score float64
}

// rank scores entries against one clock reading and sorts them; ties are
// broken by URL so the order is deterministic.
func (p *Policy) rank(entries []models.MediaFileMetadata, descending bool) []scored {
	now := p.now()
	out := make([]scored, 0, len(entries))
	for _, e := range entries {
		out = append(out, scored{entry: e, score: p.score(e, now)})
	}

	slices.SortStableFunc(out, func(a, b scored) int {
		c := cmp.Compare(a.score, b.score)
		if descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.entry.URL, b.entry.URL)
	})
	return out
}

// SelectForEviction picks non-essential entries, lowest score first, until
// their total size reaches spaceNeeded. Essential entries are never
// selected. When all non-essential entries together are not enough, the
// plan lists all of them and reports the Shortfall.
func (p *Policy) SelectForEviction(entries []models.MediaFileMetadata, spaceNeeded int64) EvictionPlan {
	var plan EvictionPlan
	if spaceNeeded <= 0 {
		return plan
	}

	candidates := slices.DeleteFunc(slices.Clone(entries), func(e models.MediaFileMetadata) bool {
		return e.IsEssential
	})

	for _, s := range p.rank(candidates, false) {
		if plan.Freed >= spaceNeeded {
			break
		}
		plan.URLs = append(plan.URLs, s.entry.URL)
		plan.Freed += s.entry.FileSize
	}

	if plan.Freed < spaceNeeded {
		plan.Shortfall = spaceNeeded - plan.Freed
	}
	return plan
}

// SelectForSync returns the URLs to download into availableSpace bytes.
// Essential entries are admitted first and unconditionally, even beyond
// the budget. The rest are admitted in descending score order while the
// running total stays within availableSpace; admission stops at the first
// entry that does not fit so a lower-ranked file never takes the place of
// a higher-ranked one.
func (p *Policy) SelectForSync(entries []models.MediaFileMetadata, availableSpace int64) []string {
	ranked := p.rank(entries, true)

	urls := make([]string, 0, len(entries))
	var used int64
	for _, s := range ranked {
		if s.entry.IsEssential {
			urls = append(urls, s.entry.URL)
			used += s.entry.FileSize
		}
	}

	for _, s := range ranked {
		if s.entry.IsEssential {
			continue
		}
		if used+s.entry.FileSize > availableSpace {
			break
		}
		urls = append(urls, s.entry.URL)
		used += s.entry.FileSize
	}
	return urls
}
