package models

import "time"

// FavoriteLocation is a place the user explicitly saved. AccessCount and
// LastAccessedAt mutate only through the access-recording operation; the
// last-known summary fields are denormalized from the most recent fetch for
// quick list rendering.
type FavoriteLocation struct {
	ID                   int64      `json:"id" db:"id"`
	Name                 string     `json:"name" db:"name"`
	Region               *string    `json:"region,omitempty" db:"region"`
	Country              *string    `json:"country,omitempty" db:"country"`
	Latitude             float64    `json:"latitude" db:"latitude"`
	Longitude            float64    `json:"longitude" db:"longitude"`
	AddedAt              time.Time  `json:"added_at" db:"added_at"`
	LastAccessedAt       *time.Time `json:"last_accessed_at,omitempty" db:"last_accessed_at"`
	AccessCount          int        `json:"access_count" db:"access_count"`
	LastKnownTemperature *float64   `json:"last_known_temperature,omitempty" db:"last_known_temperature"`
	LastKnownCondition   *string    `json:"last_known_condition,omitempty" db:"last_known_condition"`
}

// Coordinate returns the favorite's geographic point.
func (f *FavoriteLocation) Coordinate() Coordinate {
	return Coordinate{Latitude: f.Latitude, Longitude: f.Longitude}
}

// SortTime is the listing sort key: last access when recorded, otherwise the
// time the favorite was added.
func (f *FavoriteLocation) SortTime() time.Time {
	if f.LastAccessedAt != nil {
		return *f.LastAccessedAt
	}
	return f.AddedAt
}
