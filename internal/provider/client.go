package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/abhishektang/WeatherWise/internal/models"
	"github.com/abhishektang/WeatherWise/pkg/logging"
	"github.com/abhishektang/WeatherWise/pkg/metrics"
)

const (
	defaultForecastURL   = "https://api.open-meteo.com/v1/forecast"
	defaultGeocodingURL  = "https://geocoding-api.open-meteo.com/v1/search"
	defaultReverseGeoURL = "https://nominatim.openstreetmap.org/reverse"

	userAgent      = "WeatherWise/1.0"
	defaultTimeout = 10 * time.Second

	// Forecast variable sets requested from Open-Meteo.
	currentParams = "temperature_2m,relative_humidity_2m,apparent_temperature,precipitation,weather_code,cloud_cover,pressure_msl,wind_speed_10m,wind_direction_10m"
	hourlyParams  = "temperature_2m,relative_humidity_2m,apparent_temperature,precipitation,precipitation_probability,weather_code,wind_speed_10m"
	dailyParams   = "temperature_2m_max,temperature_2m_min,precipitation_sum,precipitation_probability_max,weather_code,wind_speed_10m_max,sunrise,sunset"
)

var (
	// ErrWeatherUnavailable is returned for any transport failure or
	// malformed forecast payload. Callers cannot tell the two apart; the
	// only valid reaction to either is a retry prompt.
	ErrWeatherUnavailable = errors.New("weather data unavailable")

	// ErrSearchUnavailable is returned only when the geocoding call itself
	// failed. A search that succeeded with zero matches returns an empty
	// slice and a nil error; the two outcomes stay distinguishable.
	ErrSearchUnavailable = errors.New("location search unavailable")
)

// Config controls the provider endpoints and call timeout. Zero values take
// the production defaults.
type Config struct {
	ForecastURL         string
	GeocodingURL        string
	ReverseGeocodingURL string
	Timeout             time.Duration
}

// Client fetches weather and geocoding data from Open-Meteo and resolves
// place names through Nominatim. Every external failure is converted to a
// sentinel error at this boundary; nothing else escapes to callers.
type Client struct {
	httpClient   *http.Client
	forecastURL  string
	geocodingURL string
	reverseURL   string
	breaker      *gobreaker.CircuitBreaker
	logger       *logging.StructuredLogger
	metrics      *metrics.Collector
	now          func() time.Time
}

// NewClient creates a provider client.
func NewClient(cfg Config, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *Client {
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = defaultForecastURL
	}
	if cfg.GeocodingURL == "" {
		cfg.GeocodingURL = defaultGeocodingURL
	}
	if cfg.ReverseGeocodingURL == "" {
		cfg.ReverseGeocodingURL = defaultReverseGeoURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "open-meteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		forecastURL:  cfg.ForecastURL,
		geocodingURL: cfg.GeocodingURL,
		reverseURL:   cfg.ReverseGeocodingURL,
		breaker:      cb,
		logger:       logger,
		metrics:      metricsCollector,
		now:          time.Now,
	}
}

// FetchByCoordinate retrieves current conditions plus hourly and daily series
// for a coordinate. The forecast endpoint carries no place name, so the
// snapshot's location name comes from reverse geocoding.
func (c *Client) FetchByCoordinate(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", lat))
	values.Set("longitude", fmt.Sprintf("%f", lon))
	values.Set("current", currentParams)
	values.Set("hourly", hourlyParams)
	values.Set("daily", dailyParams)
	values.Set("timezone", "auto")

	body, err := c.doGet(ctx, "forecast", fmt.Sprintf("%s?%s", c.forecastURL, values.Encode()))
	if err != nil {
		c.logger.Warn(ctx, "[PROVIDER_FORECAST_FAILED] Forecast fetch failed", logging.Fields{
			"latitude":  lat,
			"longitude": lon,
			"reason":    err.Error(),
		})
		return nil, ErrWeatherUnavailable
	}

	coord := models.Coordinate{Latitude: lat, Longitude: lon}
	snapshot, err := normalizeForecast(body, coord, c.locationName(ctx, lat, lon), c.now())
	if err != nil {
		c.logger.Warn(ctx, "[PROVIDER_PARSE_FAILED] Forecast payload rejected", logging.Fields{
			"latitude":  lat,
			"longitude": lon,
			"reason":    err.Error(),
		})
		return nil, ErrWeatherUnavailable
	}

	return snapshot, nil
}

// FetchByQuery resolves a free-text query to a location and fetches its
// weather. The first geocoding match wins; its name and country overwrite
// the reverse-geocoded ones on the snapshot.
func (c *Client) FetchByQuery(ctx context.Context, query string) (*models.WeatherSnapshot, error) {
	locations, err := c.SearchLocations(ctx, query)
	if err != nil {
		return nil, ErrWeatherUnavailable
	}
	if len(locations) == 0 {
		return nil, ErrWeatherUnavailable
	}

	match := locations[0]
	snapshot, err := c.FetchByCoordinate(ctx, match.Latitude, match.Longitude)
	if err != nil {
		return nil, err
	}

	snapshot.LocationName = match.Name
	snapshot.Country = match.Country
	return snapshot, nil
}

// SearchLocations queries the geocoding endpoint for a free-text place name.
// Zero matches is a successful outcome and returns an empty slice.
func (c *Client) SearchLocations(ctx context.Context, query string) ([]models.Location, error) {
	values := url.Values{}
	values.Set("name", query)
	values.Set("count", "5")
	values.Set("language", "en")
	values.Set("format", "json")

	body, err := c.doGet(ctx, "geocoding", fmt.Sprintf("%s?%s", c.geocodingURL, values.Encode()))
	if err != nil {
		c.logger.Warn(ctx, "[PROVIDER_SEARCH_FAILED] Location search failed", logging.Fields{
			"query":  query,
			"reason": err.Error(),
		})
		return nil, ErrSearchUnavailable
	}

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Admin1    string  `json:"admin1"`
			Country   string  `json:"country"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Warn(ctx, "[PROVIDER_SEARCH_FAILED] Geocoding payload rejected", logging.Fields{
			"query":  query,
			"reason": err.Error(),
		})
		return nil, ErrSearchUnavailable
	}

	// Absent "results" means the provider found nothing, not that it failed.
	locations := make([]models.Location, 0, len(payload.Results))
	for _, r := range payload.Results {
		name := r.Name
		if name == "" {
			name = "Unknown"
		}
		locations = append(locations, models.Location{
			Name:      name,
			Region:    r.Admin1,
			Country:   r.Country,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}
	return locations, nil
}

// reverseGeoPriority is the field order for picking a display name from a
// reverse-geocoding result: specific local names win over broad city names.
var reverseGeoPriority = []string{"suburb", "neighbourhood", "town", "village", "city"}

// locationName resolves a human-readable name for a coordinate. Any failure
// falls back to a formatted coordinate string.
func (c *Client) locationName(ctx context.Context, lat, lon float64) string {
	fallback := fmt.Sprintf("Location (%.2f, %.2f)", lat, lon)

	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lon))
	values.Set("format", "json")

	body, err := c.doGet(ctx, "reverse_geocoding", fmt.Sprintf("%s?%s", c.reverseURL, values.Encode()))
	if err != nil {
		c.logger.Debug(ctx, "[PROVIDER_REVERSE_GEO_FAILED] Reverse geocoding failed", logging.Fields{
			"latitude":  lat,
			"longitude": lon,
			"reason":    err.Error(),
		})
		return fallback
	}

	var payload struct {
		Address map[string]string `json:"address"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Address == nil {
		return fallback
	}

	for _, field := range reverseGeoPriority {
		if name := payload.Address[field]; name != "" {
			return name
		}
	}
	return fallback
}

// doGet performs one outbound GET through the circuit breaker and returns the
// response body. Non-2xx statuses are failures.
func (c *Client) doGet(ctx context.Context, endpoint, rawURL string) ([]byte, error) {
	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})

	c.metrics.ProviderRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.RecordProviderError(endpoint)
		return nil, err
	}
	return result.([]byte), nil
}
