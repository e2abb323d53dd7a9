package models

import "testing"

func TestCoordinate_CloseTo(t *testing.T) {
	tests := []struct {
		name  string
		a     Coordinate
		b     Coordinate
		match bool
	}{
		{
			name:  "identical coordinates",
			a:     Coordinate{Latitude: 37.7749, Longitude: -122.4194},
			b:     Coordinate{Latitude: 37.7749, Longitude: -122.4194},
			match: true,
		},
		{
			name:  "within tolerance on both axes",
			a:     Coordinate{Latitude: 37.7749, Longitude: -122.4194},
			b:     Coordinate{Latitude: 37.7750, Longitude: -122.4195},
			match: true,
		},
		{
			name:  "just under tolerance",
			a:     Coordinate{Latitude: 37.7749, Longitude: -122.4194},
			b:     Coordinate{Latitude: 37.7749 + 0.0099, Longitude: -122.4194},
			match: true,
		},
		{
			name:  "exactly at tolerance does not match",
			a:     Coordinate{Latitude: 0, Longitude: 0},
			b:     Coordinate{Latitude: 0.01, Longitude: 0},
			match: false,
		},
		{
			name:  "latitude within but longitude out",
			a:     Coordinate{Latitude: 37.7749, Longitude: -122.4194},
			b:     Coordinate{Latitude: 37.7749, Longitude: -122.4394},
			match: false,
		},
		{
			name:  "both axes out",
			a:     Coordinate{Latitude: 37.7749, Longitude: -122.4194},
			b:     Coordinate{Latitude: 40.7128, Longitude: -74.0060},
			match: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.CloseTo(tt.b); got != tt.match {
				t.Errorf("CloseTo(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.match)
			}
			// Tolerance matching is symmetric
			if got := tt.b.CloseTo(tt.a); got != tt.match {
				t.Errorf("CloseTo(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.match)
			}
		})
	}
}

func TestCoordinate_Valid(t *testing.T) {
	tests := []struct {
		name  string
		coord Coordinate
		valid bool
	}{
		{"origin", Coordinate{0, 0}, true},
		{"north pole", Coordinate{90, 0}, true},
		{"south pole", Coordinate{-90, 0}, true},
		{"date line", Coordinate{0, 180}, true},
		{"latitude too high", Coordinate{90.1, 0}, false},
		{"latitude too low", Coordinate{-90.1, 0}, false},
		{"longitude too high", Coordinate{0, 180.1}, false},
		{"longitude too low", Coordinate{0, -180.1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.coord.Valid(); got != tt.valid {
				t.Errorf("Valid(%v) = %v, want %v", tt.coord, got, tt.valid)
			}
		})
	}
}

func TestCoordinate_String(t *testing.T) {
	c := Coordinate{Latitude: 37.7749, Longitude: -122.4194}
	want := "(37.77, -122.42)"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
