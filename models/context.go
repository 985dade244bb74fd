// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// ContextType is the kind of timeline subject (a person, a pet, ...) that
// dates and media clusters are attached to. It selects presets such as the
// offered date granularities and the clustering thresholds.
type ContextType string

const (
	ContextPerson   ContextType = "person"
	ContextPet      ContextType = "pet"
	ContextProject  ContextType = "project"
	ContextBusiness ContextType = "business"
)

// IsValid reports whether c is one of the defined contexts.
func (c ContextType) IsValid() bool {
	switch c {
	case ContextPerson, ContextPet, ContextProject, ContextBusiness:
		return true
	}
	return false
}

// UnmarshalText rejects unknown contexts.
func (c *ContextType) UnmarshalText(text []byte) error {
	v := ContextType(text)
	if !v.IsValid() {
		return fmt.Errorf("%w: unknown context type %q", ErrValidation, text)
	}
	*c = v
	return nil
}
