package models

import (
	"time"
)

// WeatherSnapshot is a fully normalized weather result for one coordinate and
// fetch time. A snapshot is never patched in place; a refresh replaces the
// whole value.
type WeatherSnapshot struct {
	LocationName string             `json:"location_name"`
	Country      string             `json:"country"`
	Coordinate   Coordinate         `json:"coordinate"`
	Current      *CurrentConditions `json:"current,omitempty"`
	Hourly       []HourlyPoint      `json:"hourly"`
	Daily        []DailyPoint       `json:"daily"`
	LastUpdated  time.Time          `json:"last_updated"`
}

// CurrentConditions holds the observed weather at fetch time.
//
// Numeric fields default to zero when the provider omits them, so a missing
// observation is indistinguishable from a genuine zero. That conflation is the
// chosen policy, not an oversight.
type CurrentConditions struct {
	Temperature   float64   `json:"temperature"`
	FeelsLike     float64   `json:"feels_like"`
	Humidity      int       `json:"humidity"`
	WindSpeed     float64   `json:"wind_speed"`
	WindDegree    int       `json:"wind_degree"`
	Pressure      float64   `json:"pressure"`
	CloudCover    int       `json:"cloud_cover"`
	Visibility    float64   `json:"visibility"`
	Condition     string    `json:"condition"`
	ConditionIcon string    `json:"condition_icon"`
	ObservedAt    time.Time `json:"observed_at"`
	Sunrise       time.Time `json:"sunrise"`
	Sunset        time.Time `json:"sunset"`
}

// HourlyPoint is one sample of the hourly forecast series.
type HourlyPoint struct {
	Time          time.Time `json:"time"`
	Temperature   float64   `json:"temperature"`
	FeelsLike     float64   `json:"feels_like"`
	Condition     string    `json:"condition"`
	ConditionIcon string    `json:"condition_icon"`
	Humidity      int       `json:"humidity"`
	WindSpeed     float64   `json:"wind_speed"`
	ChanceOfRain  int       `json:"chance_of_rain"`
	Precipitation float64   `json:"precipitation"`
}

// DailyPoint is one sample of the daily forecast series. AvgTemperature is
// always computed as (max+min)/2 by the normalizer, never provider-supplied.
type DailyPoint struct {
	Date           time.Time `json:"date"`
	MaxTemperature float64   `json:"max_temperature"`
	MinTemperature float64   `json:"min_temperature"`
	AvgTemperature float64   `json:"avg_temperature"`
	Condition      string    `json:"condition"`
	ConditionIcon  string    `json:"condition_icon"`
	ChanceOfRain   int       `json:"chance_of_rain"`
	Precipitation  float64   `json:"precipitation"`
	MaxWindSpeed   float64   `json:"max_wind_speed"`
}
