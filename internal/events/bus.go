// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package events delivers models.ChangeEvent notifications from the
// engine's in-memory state holders to interested observers (persistence,
// metrics, UI bridges).
//
// Publishing is synchronous: Publish returns after every handler ran, in
// subscription order. Handlers must not publish on the same bus.
package events

import (
	"context"
	"slices"
	"sync"

	"github.com/MKhiriev/timeline-sync/internal/logger"
	"github.com/MKhiriev/timeline-sync/models"
)

// Handler receives one change event.
type Handler func(ctx context.Context, event models.ChangeEvent)

// Publisher emits change events.
type Publisher interface {
	Publish(ctx context.Context, event models.ChangeEvent)
}

// Subscriber registers observers.
type Subscriber interface {
	// Subscribe registers h and returns a function that removes it.
	// Calling the returned function more than once is a no-op.
	Subscribe(h Handler) (unsubscribe func())
}

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is an in-process Publisher and Subscriber.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
	logger *logger.Logger
}

// NewBus constructs an empty Bus.
func NewBus(log *logger.Logger) *Bus {
	if log == nil {
		log = logger.Nop()
	}
	return &Bus{logger: log}
}

// Subscribe registers h.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, handler: h})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.subs = slices.DeleteFunc(b.subs, func(s subscription) bool { return s.id == id })
		})
	}
}

// Publish delivers event to every current subscriber. A panicking handler
// is logged and does not stop delivery to the others.
func (b *Bus) Publish(ctx context.Context, event models.ChangeEvent) {
	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(ctx, s, event)
	}
}

func (b *Bus) deliver(ctx context.Context, s subscription, event models.ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Interface("panic", r).
				Uint64("subscription", s.id).
				Str("entity", string(event.Entity)).
				Str("entity_id", event.EntityID).
				Msg("change event handler panicked")
		}
	}()
	s.handler(ctx, event)
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Nop is a Publisher that drops every event.
type Nop struct{}

// Publish does nothing.
func (Nop) Publish(context.Context, models.ChangeEvent) {}
