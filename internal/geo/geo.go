// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package geo provides great-circle distance and centroid helpers on a
// spherical-earth approximation.
package geo

import (
	"math"

	"github.com/MKhiriev/timeline-sync/models"
)

// EarthRadiusMeters is the mean earth radius used by [Distance].
const EarthRadiusMeters = 6_371_000.0

// Distance returns the haversine great-circle distance between a and b in
// meters. It is commutative, zero for identical points and never negative.
func Distance(a, b models.Coordinate) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	// rounding can push h slightly outside [0, 1] for antipodal points
	h = min(max(h, 0), 1)

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Centroid returns the arithmetic mean of latitude and longitude across
// points, or nil when points is empty.
func Centroid(points []models.Coordinate) *models.Coordinate {
	if len(points) == 0 {
		return nil
	}

	var lat, lon float64
	for _, p := range points {
		lat += p.Latitude
		lon += p.Longitude
	}
	n := float64(len(points))

	return &models.Coordinate{Latitude: lat / n, Longitude: lon / n}
}

// IsValid reports whether c lies within latitude [-90, 90] and longitude
// [-180, 180] and holds no NaN component.
func IsValid(c models.Coordinate) bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
