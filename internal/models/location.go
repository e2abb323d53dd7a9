package models

import "fmt"

// Location is a geocoding search result.
type Location struct {
	Name      string  `json:"name"`
	Region    string  `json:"region,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinate returns the location's geographic point.
func (l Location) Coordinate() Coordinate {
	return Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}

// DisplayName renders "Name, Region, Country", omitting the region when the
// geocoder did not supply one.
func (l Location) DisplayName() string {
	if l.Region != "" {
		return fmt.Sprintf("%s, %s, %s", l.Name, l.Region, l.Country)
	}
	return fmt.Sprintf("%s, %s", l.Name, l.Country)
}
