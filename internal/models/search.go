package models

import "time"

// SearchRecord tracks one free-text location search. The selected fields are
// filled when a search produced a match the caller went on to use.
type SearchRecord struct {
	ID                int64     `json:"id" db:"id"`
	Query             string    `json:"query" db:"query"`
	SearchedAt        time.Time `json:"searched_at" db:"searched_at"`
	SelectedName      *string   `json:"selected_name,omitempty" db:"selected_name"`
	SelectedLatitude  *float64  `json:"selected_latitude,omitempty" db:"selected_latitude"`
	SelectedLongitude *float64  `json:"selected_longitude,omitempty" db:"selected_longitude"`
}
