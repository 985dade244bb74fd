// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cache

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/timeline-sync/internal/events"
	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/models"
)

// Validator checks entries before they enter the index.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}

// Usage summarizes the index.
type Usage struct {
	Entries   int   `json:"entries"`
	Essential int   `json:"essential"`
	UsedBytes int64 `json:"used_bytes"`
	// BudgetBytes is the configured budget; zero means unbounded.
	BudgetBytes int64 `json:"budget_bytes"`
}

// Overflow returns how many bytes the index holds beyond its budget.
func (u Usage) Overflow() int64 {
	if u.BudgetBytes <= 0 {
		return 0
	}
	return max(u.UsedBytes-u.BudgetBytes, 0)
}

// Index tracks the cached media files of one device. It maintains
// LastAccessed and AccessCount and delegates eviction decisions to a
// Policy; it never evicts on its own.
type Index struct {
	mu      sync.Mutex
	entries map[string]models.MediaFileMetadata

	policy    *Policy
	budget    int64
	now       func() time.Time
	validator Validator
	publisher events.Publisher
	logger    *logger.Logger
}

// IndexOption customizes NewIndex.
type IndexOption func(*Index)

// WithValidator validates entries on Put.
func WithValidator(v Validator) IndexOption {
	return func(i *Index) { i.validator = v }
}

// WithPublisher emits a change event for every created, touched or
// removed entry.
func WithPublisher(p events.Publisher) IndexOption {
	return func(i *Index) {
		if p != nil {
			i.publisher = p
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) IndexOption {
	return func(i *Index) {
		if now != nil {
			i.now = now
		}
	}
}

// WithLogger sets the index logger.
func WithLogger(l *logger.Logger) IndexOption {
	return func(i *Index) {
		if l != nil {
			i.logger = l
		}
	}
}

// NewIndex constructs an empty Index with a byte budget. Zero or negative
// budgetBytes means no budget.
func NewIndex(policy *Policy, budgetBytes int64, opts ...IndexOption) *Index {
	idx := &Index{
		entries:   make(map[string]models.MediaFileMetadata),
		policy:    policy,
		budget:    budgetBytes,
		now:       time.Now,
		publisher: events.Nop{},
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	if idx.policy == nil {
		idx.policy = NewPolicy(idx.now)
	}
	return idx
}

// Put records a cache write. A new entry starts with AccessCount as given
// and LastAccessed defaulting to now; an existing entry is replaced but
// keeps its access statistics.
func (i *Index) Put(ctx context.Context, entry models.MediaFileMetadata) error {
	if i.validator != nil {
		if err := i.validator.Validate(ctx, entry); err != nil {
			return fmt.Errorf("cache put %q: %w", entry.URL, err)
		}
	}

	i.mu.Lock()
	change := models.ChangeCreated
	if prev, ok := i.entries[entry.URL]; ok {
		change = models.ChangeMutated
		entry.LastAccessed = prev.LastAccessed
		entry.AccessCount = prev.AccessCount
	}
	if entry.LastAccessed.IsZero() {
		entry.LastAccessed = i.now()
	}
	i.entries[entry.URL] = entry
	i.mu.Unlock()

	i.publish(ctx, change, entry)
	return nil
}

// Get returns the entry for url and records the access.
func (i *Index) Get(ctx context.Context, url string) (models.MediaFileMetadata, error) {
	i.mu.Lock()
	entry, ok := i.entries[url]
	if !ok {
		i.mu.Unlock()
		return models.MediaFileMetadata{}, fmt.Errorf("%w: media file %q", models.ErrNotFound, url)
	}
	entry.LastAccessed = i.now()
	entry.AccessCount++
	i.entries[url] = entry
	i.mu.Unlock()

	i.publish(ctx, models.ChangeMutated, entry)
	return entry, nil
}

// Peek returns the entry for url without recording an access.
func (i *Index) Peek(url string) (models.MediaFileMetadata, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	entry, ok := i.entries[url]
	return entry, ok
}

// Invalidate removes url from the index.
func (i *Index) Invalidate(ctx context.Context, url string) error {
	i.mu.Lock()
	entry, ok := i.entries[url]
	if ok {
		delete(i.entries, url)
	}
	i.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: media file %q", models.ErrNotFound, url)
	}
	i.publish(ctx, models.ChangeRemoved, entry)
	return nil
}

// Evict frees at least spaceNeeded bytes following the policy and removes
// the selected entries. The returned plan reports any shortfall; the
// selected entries are removed either way.
func (i *Index) Evict(ctx context.Context, spaceNeeded int64) EvictionPlan {
	i.mu.Lock()
	plan := i.policy.SelectForEviction(slices.Collect(maps.Values(i.entries)), spaceNeeded)
	removed := make([]models.MediaFileMetadata, 0, len(plan.URLs))
	for _, url := range plan.URLs {
		removed = append(removed, i.entries[url])
		delete(i.entries, url)
	}
	i.mu.Unlock()

	for _, entry := range removed {
		i.publish(ctx, models.ChangeRemoved, entry)
	}

	if plan.HasShortfall() {
		i.logger.Warn().
			Int64("space_needed", spaceNeeded).
			Int64("freed", plan.Freed).
			Int64("shortfall", plan.Shortfall).
			Msg("cache eviction could not free the requested space")
	}
	return plan
}

// EnforceBudget evicts entries until usage fits the budget again.
func (i *Index) EnforceBudget(ctx context.Context) EvictionPlan {
	return i.Evict(ctx, i.Usage().Overflow())
}

// SyncPlan returns the URLs to download into availableSpace bytes.
func (i *Index) SyncPlan(availableSpace int64) []string {
	return i.policy.SelectForSync(i.Entries(), availableSpace)
}

// Usage returns current totals.
func (i *Index) Usage() Usage {
	i.mu.Lock()
	defer i.mu.Unlock()

	u := Usage{Entries: len(i.entries), BudgetBytes: i.budget}
	for _, e := range i.entries {
		u.UsedBytes += e.FileSize
		if e.IsEssential {
			u.Essential++
		}
	}
	return u
}

// Entries returns a snapshot of all entries ordered by URL.
func (i *Index) Entries() []models.MediaFileMetadata {
	i.mu.Lock()
	out := slices.Collect(maps.Values(i.entries))
	i.mu.Unlock()

	slices.SortFunc(out, func(a, b models.MediaFileMetadata) int { return cmp.Compare(a.URL, b.URL) })
	return out
}

// Restore loads entries, e.g. from persistent storage, without emitting
// events. Existing entries with the same URL are replaced.
func (i *Index) Restore(entries []models.MediaFileMetadata) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, e := range entries {
		i.entries[e.URL] = e
	}
}

func (i *Index) publish(ctx context.Context, change models.ChangeKind, entry models.MediaFileMetadata) {
	i.publisher.Publish(ctx, models.ChangeEvent{
		Entity:   models.EntityMediaFile,
		Change:   change,
		EntityID: entry.URL,
		At:       i.now(),
		Payload:  entry,
	})
}
