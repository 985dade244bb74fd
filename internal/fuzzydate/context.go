// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package fuzzydate

import (
	"slices"

	"github.com/MKhiriev/timeline-sync/models"
)

// contextGranularities is the fixed table of granularities offered per
// context.
var contextGranularities = map[models.ContextType][]Granularity{
	models.ContextPerson:   {Day, Month, Season, Year},
	models.ContextPet:      {Day, Month, Year},
	models.ContextProject:  {Day, Month, Year},
	models.ContextBusiness: {Year, Season},
}

// GranularitiesFor returns the granularities appropriate for ctx, or nil
// for an unknown context.
func GranularitiesFor(ctx models.ContextType) []Granularity {
	return slices.Clone(contextGranularities[ctx])
}

// Allows reports whether granularity g is offered for ctx.
func Allows(ctx models.ContextType, g Granularity) bool {
	return slices.Contains(contextGranularities[ctx], g)
}
