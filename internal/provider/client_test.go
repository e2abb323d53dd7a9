package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhishektang/WeatherWise/pkg/logging"
	"github.com/abhishektang/WeatherWise/pkg/metrics"
)

// One collector per test binary; prometheus panics on duplicate registration.
var testCollector = metrics.NewCollector("provider_test")

func testLogger() *logging.StructuredLogger {
	logger := logging.NewStructuredLogger("test", "test", logging.ErrorLevel)
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(forecastURL, geocodingURL, reverseURL string) *Client {
	return NewClient(Config{
		ForecastURL:         forecastURL,
		GeocodingURL:        geocodingURL,
		ReverseGeocodingURL: reverseURL,
	}, testLogger(), testCollector)
}

const validForecastBody = `{
	"current": {
		"time": "2024-06-01T11:45",
		"temperature_2m": 21.5,
		"relative_humidity_2m": 55,
		"apparent_temperature": 20.1,
		"weather_code": 2,
		"cloud_cover": 40,
		"pressure_msl": 1018.2,
		"wind_speed_10m": 12.3,
		"wind_direction_10m": 270
	},
	"hourly": {"time": [], "temperature_2m": []},
	"daily": {"time": []}
}`

func TestSearchLocations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Berlin", r.URL.Query().Get("name"))
		assert.Equal(t, "5", r.URL.Query().Get("count"))
		w.Write([]byte(`{"results": [
			{"name": "Berlin", "admin1": "Berlin", "country": "Germany", "latitude": 52.52, "longitude": 13.405},
			{"name": "Berlin", "admin1": "New Hampshire", "country": "United States", "latitude": 44.47, "longitude": -71.18}
		]}`))
	}))
	defer server.Close()

	client := newTestClient("", server.URL, "")
	locations, err := client.SearchLocations(context.Background(), "Berlin")
	require.NoError(t, err)
	require.Len(t, locations, 2)

	assert.Equal(t, "Berlin", locations[0].Name)
	assert.Equal(t, "Germany", locations[0].Country)
	assert.Equal(t, 52.52, locations[0].Latitude)
	assert.Equal(t, "New Hampshire", locations[1].Region)
}

func TestSearchLocations_ZeroMatches(t *testing.T) {
	// Open-Meteo omits the results key entirely when nothing matched. That is
	// a successful search, not a failure.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generationtime_ms": 0.5}`))
	}))
	defer server.Close()

	client := newTestClient("", server.URL, "")
	locations, err := client.SearchLocations(context.Background(), "xyzzy")
	require.NoError(t, err)
	assert.NotNil(t, locations)
	assert.Empty(t, locations)
}

func TestSearchLocations_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient("", server.URL, "")
	locations, err := client.SearchLocations(context.Background(), "Berlin")
	assert.Nil(t, locations)
	assert.True(t, errors.Is(err, ErrSearchUnavailable))
}

func TestFetchByCoordinate(t *testing.T) {
	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "auto", r.URL.Query().Get("timezone"))
		assert.NotEmpty(t, r.URL.Query().Get("current"))
		assert.NotEmpty(t, r.URL.Query().Get("hourly"))
		assert.NotEmpty(t, r.URL.Query().Get("daily"))
		w.Write([]byte(validForecastBody))
	}))
	defer forecast.Close()

	reverse := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Suburb outranks city in the display-name priority.
		w.Write([]byte(`{"address": {"city": "Berlin", "suburb": "Kreuzberg"}}`))
	}))
	defer reverse.Close()

	client := newTestClient(forecast.URL, "", reverse.URL)
	snapshot, err := client.FetchByCoordinate(context.Background(), 52.52, 13.405)
	require.NoError(t, err)

	assert.Equal(t, "Kreuzberg", snapshot.LocationName)
	assert.Equal(t, 52.52, snapshot.Coordinate.Latitude)
	require.NotNil(t, snapshot.Current)
	assert.Equal(t, 21.5, snapshot.Current.Temperature)
	assert.Equal(t, "Partly cloudy", snapshot.Current.Condition)
}

func TestFetchByCoordinate_ReverseGeoFallback(t *testing.T) {
	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(validForecastBody))
	}))
	defer forecast.Close()

	reverse := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer reverse.Close()

	client := newTestClient(forecast.URL, "", reverse.URL)
	snapshot, err := client.FetchByCoordinate(context.Background(), 10.5, 20.25)
	require.NoError(t, err)

	assert.Equal(t, "Location (10.50, 20.25)", snapshot.LocationName)
}

func TestFetchByCoordinate_ProviderDown(t *testing.T) {
	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer forecast.Close()

	client := newTestClient(forecast.URL, "", forecast.URL)
	snapshot, err := client.FetchByCoordinate(context.Background(), 52.52, 13.405)
	assert.Nil(t, snapshot)
	assert.True(t, errors.Is(err, ErrWeatherUnavailable))
}

func TestFetchByCoordinate_MalformedPayload(t *testing.T) {
	// A malformed body collapses into the same sentinel as a transport
	// failure; callers see one retryable condition.
	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current": 42}`))
	}))
	defer forecast.Close()

	reverse := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address": {"city": "Berlin"}}`))
	}))
	defer reverse.Close()

	client := newTestClient(forecast.URL, "", reverse.URL)
	snapshot, err := client.FetchByCoordinate(context.Background(), 52.52, 13.405)
	assert.Nil(t, snapshot)
	assert.True(t, errors.Is(err, ErrWeatherUnavailable))
}

func TestFetchByQuery(t *testing.T) {
	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(validForecastBody))
	}))
	defer forecast.Close()

	geocoding := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [
			{"name": "Berlin", "country": "Germany", "latitude": 52.52, "longitude": 13.405}
		]}`))
	}))
	defer geocoding.Close()

	reverse := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address": {"suburb": "Kreuzberg"}}`))
	}))
	defer reverse.Close()

	client := newTestClient(forecast.URL, geocoding.URL, reverse.URL)
	snapshot, err := client.FetchByQuery(context.Background(), "berlin")
	require.NoError(t, err)

	// The geocoding match's name and country overwrite the reverse-geocoded
	// display name.
	assert.Equal(t, "Berlin", snapshot.LocationName)
	assert.Equal(t, "Germany", snapshot.Country)
	assert.Equal(t, 52.52, snapshot.Coordinate.Latitude)
}

func TestFetchByQuery_NoMatches(t *testing.T) {
	geocoding := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer geocoding.Close()

	client := newTestClient("", geocoding.URL, "")
	snapshot, err := client.FetchByQuery(context.Background(), "xyzzy")
	assert.Nil(t, snapshot)
	assert.True(t, errors.Is(err, ErrWeatherUnavailable))
}
