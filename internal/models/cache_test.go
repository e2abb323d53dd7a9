package models

import (
	"testing"
	"time"
)

func TestCacheEntry_IsStale(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		fetchedAt time.Time
		stale     bool
	}{
		{
			name:      "just fetched",
			fetchedAt: now,
			stale:     false,
		},
		{
			name:      "five minutes old",
			fetchedAt: now.Add(-5 * time.Minute),
			stale:     false,
		},
		{
			name:      "exactly at the freshness window is still fresh",
			fetchedAt: now.Add(-CacheFreshness),
			stale:     false,
		},
		{
			name:      "one millisecond past the window",
			fetchedAt: now.Add(-CacheFreshness - time.Millisecond),
			stale:     true,
		},
		{
			name:      "an hour old",
			fetchedAt: now.Add(-time.Hour),
			stale:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &CacheEntry{FetchedAt: tt.fetchedAt}
			if got := entry.IsStale(now); got != tt.stale {
				t.Errorf("IsStale() = %v, want %v (fetched %v before now)",
					got, tt.stale, now.Sub(tt.fetchedAt))
			}
		})
	}
}

func TestNewCacheEntry_RoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	snapshot := &WeatherSnapshot{
		LocationName: "Berlin",
		Country:      "Germany",
		Coordinate:   Coordinate{Latitude: 52.52, Longitude: 13.405},
		Current: &CurrentConditions{
			Temperature: 21.5,
			FeelsLike:   20.1,
			Humidity:    55,
			WindSpeed:   12.3,
			Condition:   "Partly cloudy",
		},
		LastUpdated: now,
	}

	entry, err := NewCacheEntry(snapshot, now)
	if err != nil {
		t.Fatalf("NewCacheEntry() error = %v", err)
	}

	if entry.LocationName != "Berlin" {
		t.Errorf("LocationName = %q, want %q", entry.LocationName, "Berlin")
	}
	if entry.Latitude != 52.52 || entry.Longitude != 13.405 {
		t.Errorf("coordinates = (%v, %v), want (52.52, 13.405)", entry.Latitude, entry.Longitude)
	}
	if entry.Temperature != 21.5 {
		t.Errorf("Temperature = %v, want 21.5", entry.Temperature)
	}
	if entry.Condition != "Partly cloudy" {
		t.Errorf("Condition = %q, want %q", entry.Condition, "Partly cloudy")
	}
	if !entry.FetchedAt.Equal(now) {
		t.Errorf("FetchedAt = %v, want %v", entry.FetchedAt, now)
	}

	restored, err := entry.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if restored.LocationName != snapshot.LocationName {
		t.Errorf("restored LocationName = %q, want %q", restored.LocationName, snapshot.LocationName)
	}
	if restored.Current == nil {
		t.Fatal("restored Current should not be nil")
	}
	if restored.Current.Temperature != 21.5 {
		t.Errorf("restored Temperature = %v, want 21.5", restored.Current.Temperature)
	}
}

func TestNewCacheEntry_Defaults(t *testing.T) {
	now := time.Now().UTC()

	// No current block and no name: denormalized fields take their defaults.
	snapshot := &WeatherSnapshot{
		Coordinate: Coordinate{Latitude: 10, Longitude: 20},
	}

	entry, err := NewCacheEntry(snapshot, now)
	if err != nil {
		t.Fatalf("NewCacheEntry() error = %v", err)
	}

	if entry.LocationName != "Unknown" {
		t.Errorf("LocationName = %q, want %q", entry.LocationName, "Unknown")
	}
	if entry.Condition != "Unknown" {
		t.Errorf("Condition = %q, want %q", entry.Condition, "Unknown")
	}
	if entry.Temperature != 0 {
		t.Errorf("Temperature = %v, want 0", entry.Temperature)
	}
}

func TestCacheEntry_Snapshot_EmptyPayload(t *testing.T) {
	entry := &CacheEntry{ID: 7}
	if _, err := entry.Snapshot(); err == nil {
		t.Error("Snapshot() on an entry without payload should error")
	}
}

func TestFavoriteLocation_SortTime(t *testing.T) {
	added := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	accessed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	fav := &FavoriteLocation{AddedAt: added}
	if !fav.SortTime().Equal(added) {
		t.Errorf("SortTime() = %v, want added time %v", fav.SortTime(), added)
	}

	fav.LastAccessedAt = &accessed
	if !fav.SortTime().Equal(accessed) {
		t.Errorf("SortTime() = %v, want last access %v", fav.SortTime(), accessed)
	}
}
