package models

import (
	"fmt"
	"math"
)

// CoordinateTolerance is the delta, in degrees, under which two coordinates
// are treated as the same physical place (roughly 1 km at the equator). The
// interval is open: a delta of exactly 0.01 on either axis does not match.
const CoordinateTolerance = 0.01

// Coordinate is a geographic point. Identity for matching purposes is
// approximate, never exact equality.
type Coordinate struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// CloseTo reports whether other lies within the matching tolerance of c on
// both axes.
func (c Coordinate) CloseTo(other Coordinate) bool {
	return math.Abs(c.Latitude-other.Latitude) < CoordinateTolerance &&
		math.Abs(c.Longitude-other.Longitude) < CoordinateTolerance
}

// Valid reports whether the coordinate lies within WGS84 bounds.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// String formats the coordinate with two decimal places, matching the
// fallback place-name format used when reverse geocoding fails.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", c.Latitude, c.Longitude)
}
