package provider

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhishektang/WeatherWise/internal/models"
)

const (
	maxHourlyPoints = 24
	maxDailyPoints  = 7

	// Defaults applied when the provider omits a field. Pressure falls back
	// to standard sea-level pressure; Open-Meteo does not report visibility
	// in the current block at all, so it is always the fixed default.
	defaultPressure   = 1013.0
	defaultVisibility = 10.0
)

// forecastPayload mirrors the Open-Meteo forecast response shape. The current
// block uses pointers so that "absent" is observable before defaults apply;
// the series blocks are parallel arrays indexed alongside their time array.
type forecastPayload struct {
	Current *struct {
		Time        string   `json:"time"`
		Temperature *float64 `json:"temperature_2m"`
		Humidity    *int     `json:"relative_humidity_2m"`
		FeelsLike   *float64 `json:"apparent_temperature"`
		WeatherCode *int     `json:"weather_code"`
		CloudCover  *int     `json:"cloud_cover"`
		Pressure    *float64 `json:"pressure_msl"`
		WindSpeed   *float64 `json:"wind_speed_10m"`
		WindDegree  *int     `json:"wind_direction_10m"`
	} `json:"current"`
	Hourly struct {
		Time          []string  `json:"time"`
		Temperature   []float64 `json:"temperature_2m"`
		Humidity      []int     `json:"relative_humidity_2m"`
		FeelsLike     []float64 `json:"apparent_temperature"`
		Precipitation []float64 `json:"precipitation"`
		PrecipProb    []int     `json:"precipitation_probability"`
		WeatherCode   []int     `json:"weather_code"`
		WindSpeed     []float64 `json:"wind_speed_10m"`
	} `json:"hourly"`
	Daily struct {
		Time          []string  `json:"time"`
		TempMax       []float64 `json:"temperature_2m_max"`
		TempMin       []float64 `json:"temperature_2m_min"`
		PrecipSum     []float64 `json:"precipitation_sum"`
		PrecipProbMax []int     `json:"precipitation_probability_max"`
		WeatherCode   []int     `json:"weather_code"`
		WindSpeedMax  []float64 `json:"wind_speed_10m_max"`
		Sunrise       []string  `json:"sunrise"`
		Sunset        []string  `json:"sunset"`
	} `json:"daily"`
}

// normalizeForecast converts a raw forecast body into a snapshot for the
// given coordinate. Individual missing fields take their documented defaults;
// only a malformed top-level payload fails the whole parse.
func normalizeForecast(raw []byte, coord models.Coordinate, locationName string, now time.Time) (*models.WeatherSnapshot, error) {
	var payload forecastPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("malformed forecast payload: %w", err)
	}

	snapshot := &models.WeatherSnapshot{
		LocationName: locationName,
		Coordinate:   coord,
		LastUpdated:  now,
	}

	if payload.Current != nil {
		snapshot.Current = normalizeCurrent(&payload, now)
	}
	snapshot.Hourly = normalizeHourly(&payload)
	snapshot.Daily = normalizeDaily(&payload)

	return snapshot, nil
}

func normalizeCurrent(payload *forecastPayload, now time.Time) *models.CurrentConditions {
	cur := payload.Current

	observedAt := now
	if t := parseProviderTime(cur.Time); !t.IsZero() {
		observedAt = t
	}

	// Sunrise and sunset come from the daily block's first element; when the
	// provider omits them the local 06:00/18:00 defaults stand in.
	sunrise := now.Truncate(24 * time.Hour).Add(6 * time.Hour)
	sunset := now.Truncate(24 * time.Hour).Add(18 * time.Hour)
	if len(payload.Daily.Sunrise) > 0 {
		if t := parseProviderTime(payload.Daily.Sunrise[0]); !t.IsZero() {
			sunrise = t
		}
	}
	if len(payload.Daily.Sunset) > 0 {
		if t := parseProviderTime(payload.Daily.Sunset[0]); !t.IsZero() {
			sunset = t
		}
	}

	code := intOrDefault(cur.WeatherCode, 0)
	text, icon := Condition(code)

	return &models.CurrentConditions{
		Temperature:   floatOrDefault(cur.Temperature, 0),
		FeelsLike:     floatOrDefault(cur.FeelsLike, 0),
		Humidity:      intOrDefault(cur.Humidity, 0),
		WindSpeed:     floatOrDefault(cur.WindSpeed, 0),
		WindDegree:    intOrDefault(cur.WindDegree, 0),
		Pressure:      floatOrDefault(cur.Pressure, defaultPressure),
		CloudCover:    intOrDefault(cur.CloudCover, 0),
		Visibility:    defaultVisibility,
		Condition:     text,
		ConditionIcon: icon,
		ObservedAt:    observedAt,
		Sunrise:       sunrise,
		Sunset:        sunset,
	}
}

func normalizeHourly(payload *forecastPayload) []models.HourlyPoint {
	h := payload.Hourly
	n := len(h.Time)
	if n > maxHourlyPoints {
		n = maxHourlyPoints
	}

	points := make([]models.HourlyPoint, 0, n)
	for i := 0; i < n; i++ {
		code := intAt(h.WeatherCode, i)
		text, icon := Condition(code)

		points = append(points, models.HourlyPoint{
			Time:          parseProviderTime(h.Time[i]),
			Temperature:   floatAt(h.Temperature, i),
			FeelsLike:     floatAt(h.FeelsLike, i),
			Condition:     text,
			ConditionIcon: icon,
			Humidity:      intAt(h.Humidity, i),
			WindSpeed:     floatAt(h.WindSpeed, i),
			ChanceOfRain:  intAt(h.PrecipProb, i),
			Precipitation: floatAt(h.Precipitation, i),
		})
	}
	return points
}

func normalizeDaily(payload *forecastPayload) []models.DailyPoint {
	d := payload.Daily
	n := len(d.Time)
	if n > maxDailyPoints {
		n = maxDailyPoints
	}

	points := make([]models.DailyPoint, 0, n)
	for i := 0; i < n; i++ {
		code := intAt(d.WeatherCode, i)
		text, icon := Condition(code)
		maxTemp := floatAt(d.TempMax, i)
		minTemp := floatAt(d.TempMin, i)

		points = append(points, models.DailyPoint{
			Date:           parseProviderTime(d.Time[i]),
			MaxTemperature: maxTemp,
			MinTemperature: minTemp,
			AvgTemperature: (maxTemp + minTemp) / 2,
			Condition:      text,
			ConditionIcon:  icon,
			ChanceOfRain:   intAt(d.PrecipProbMax, i),
			Precipitation:  floatAt(d.PrecipSum, i),
			MaxWindSpeed:   floatAt(d.WindSpeedMax, i),
		})
	}
	return points
}

// providerTimeLayouts covers the formats Open-Meteo emits with timezone=auto:
// local minute-resolution timestamps and bare dates.
var providerTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// parseProviderTime returns the zero time when no layout matches; callers
// treat that as "not supplied".
func parseProviderTime(s string) time.Time {
	for _, layout := range providerTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// floatAt indexes a parallel value array, yielding the zero default when the
// array is shorter than the time array.
func floatAt(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

func intAt(vals []int, i int) int {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

func floatOrDefault(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func intOrDefault(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}
