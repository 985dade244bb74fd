// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helpers shared by the engine's
// packages: identifier generation, type-safe context values and JSON
// responses.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// ActorCtxKey is the key used to store the acting user or device in the
// context. Conflict resolutions and deferrals are attributed to it when
// the caller does not name an actor explicitly.
var ActorCtxKey = contextKey("actor")

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ActorCtxKey, actor)
}

// GetActorFromContext retrieves the actor stored by WithActor.
//
// Returns the actor and an ok flag:
//   - ok == true  - a non-empty actor is present
//   - ok == false - value is missing, empty or has an unexpected type
func GetActorFromContext(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(ActorCtxKey).(string)
	return actor, ok && actor != ""
}
