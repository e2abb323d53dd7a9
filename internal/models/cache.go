package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// CacheFreshness is how long a cache entry serves reads. Staleness is
	// strict: an entry exactly this old is still fresh.
	CacheFreshness = 10 * time.Minute

	// CacheCapacity is the number of most-recently-fetched entries retained
	// after every write, across all locations.
	CacheCapacity = 50
)

// CacheEntry is a stored weather result keyed by approximate coordinate. The
// full snapshot travels as JSON; a handful of fields are denormalized for
// queries that should not pay the deserialization cost.
type CacheEntry struct {
	ID           int64     `json:"id" db:"id"`
	Latitude     float64   `json:"latitude" db:"latitude"`
	Longitude    float64   `json:"longitude" db:"longitude"`
	LocationName string    `json:"location_name" db:"location_name"`
	FetchedAt    time.Time `json:"fetched_at" db:"fetched_at"`
	SnapshotJSON string    `json:"-" db:"snapshot_json"`
	Temperature  float64   `json:"temperature" db:"temperature"`
	FeelsLike    float64   `json:"feels_like" db:"feels_like"`
	Humidity     int       `json:"humidity" db:"humidity"`
	WindSpeed    float64   `json:"wind_speed" db:"wind_speed"`
	Condition    string    `json:"condition" db:"condition"`
}

// Coordinate returns the entry's geographic point.
func (e *CacheEntry) Coordinate() Coordinate {
	return Coordinate{Latitude: e.Latitude, Longitude: e.Longitude}
}

// IsStale reports whether the entry has aged past the freshness window at the
// given instant. The comparison is strictly greater-than.
func (e *CacheEntry) IsStale(now time.Time) bool {
	return now.Sub(e.FetchedAt) > CacheFreshness
}

// NewCacheEntry serializes a snapshot into a storable entry stamped with now.
func NewCacheEntry(snapshot *WeatherSnapshot, now time.Time) (*CacheEntry, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	entry := &CacheEntry{
		Latitude:     snapshot.Coordinate.Latitude,
		Longitude:    snapshot.Coordinate.Longitude,
		LocationName: snapshot.LocationName,
		FetchedAt:    now,
		SnapshotJSON: string(raw),
		Condition:    "Unknown",
	}
	if entry.LocationName == "" {
		entry.LocationName = "Unknown"
	}
	if cur := snapshot.Current; cur != nil {
		entry.Temperature = cur.Temperature
		entry.FeelsLike = cur.FeelsLike
		entry.Humidity = cur.Humidity
		entry.WindSpeed = cur.WindSpeed
		entry.Condition = cur.Condition
	}
	return entry, nil
}

// Snapshot deserializes the stored snapshot.
func (e *CacheEntry) Snapshot() (*WeatherSnapshot, error) {
	if e.SnapshotJSON == "" {
		return nil, fmt.Errorf("cache entry %d has no snapshot payload", e.ID)
	}
	var snapshot WeatherSnapshot
	if err := json.Unmarshal([]byte(e.SnapshotJSON), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to deserialize snapshot: %w", err)
	}
	return &snapshot, nil
}
