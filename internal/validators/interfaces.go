// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators provides input validation for the sync and clustering
// engine.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values or structures.
//     Supports optional field-level scoping for targeted validation.
//   - EntityValidator: the Validator for the domain models, built on
//     struct tags checked by go-playground/validator plus rules that tags
//     cannot express (unique asset ids, cluster thresholds).
//
// Every failure wraps models.ErrValidation so callers match it with
// errors.Is regardless of which rule fired.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
