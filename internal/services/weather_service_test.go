package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/abhishektang/WeatherWise/internal/models"
	"github.com/abhishektang/WeatherWise/internal/repository"
	"github.com/abhishektang/WeatherWise/pkg/logging"
	"github.com/abhishektang/WeatherWise/pkg/metrics"
)

// One collector per test binary; prometheus panics on duplicate registration.
var testCollector = metrics.NewCollector("services_test")

func testLogger() *logging.StructuredLogger {
	logger := logging.NewStructuredLogger("test", "test", logging.ErrorLevel)
	logger.SetOutput(io.Discard)
	return logger
}

// stubFetcher is a canned WeatherFetcher that counts fetches.
type stubFetcher struct {
	snapshot   *models.WeatherSnapshot
	locations  []models.Location
	fetchErr   error
	searchErr  error
	fetchCalls int
}

func (s *stubFetcher) FetchByCoordinate(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	s.fetchCalls++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	snap := *s.snapshot
	snap.Coordinate = models.Coordinate{Latitude: lat, Longitude: lon}
	return &snap, nil
}

func (s *stubFetcher) FetchByQuery(ctx context.Context, query string) (*models.WeatherSnapshot, error) {
	s.fetchCalls++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	snap := *s.snapshot
	return &snap, nil
}

func (s *stubFetcher) SearchLocations(ctx context.Context, query string) ([]models.Location, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.locations, nil
}

func testSnapshot() *models.WeatherSnapshot {
	return &models.WeatherSnapshot{
		LocationName: "Berlin",
		Country:      "Germany",
		Coordinate:   models.Coordinate{Latitude: 52.52, Longitude: 13.405},
		Current: &models.CurrentConditions{
			Temperature: 21.5,
			Condition:   "Partly cloudy",
		},
		LastUpdated: time.Now().UTC(),
	}
}

type testEnv struct {
	weather   *WeatherService
	cache     *CacheService
	fetcher   *stubFetcher
	favorites *repository.MemoryFavorites
	history   *repository.MemorySearchHistory
}

func newTestEnv(fetcher *stubFetcher) *testEnv {
	logger := testLogger()
	cache := NewCacheService(repository.NewMemoryCache(), repository.NewMemorySettings(), logger, testCollector)
	favorites := repository.NewMemoryFavorites()
	history := repository.NewMemorySearchHistory()
	weather := NewWeatherService(fetcher, cache, favorites, history, logger, testCollector)

	return &testEnv{
		weather:   weather,
		cache:     cache,
		fetcher:   fetcher,
		favorites: favorites,
		history:   history,
	}
}

func TestGetWeather_FetchesThenServesFromCache(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(&stubFetcher{snapshot: testSnapshot()})

	result, err := env.weather.GetWeather(ctx, 52.52, 13.405)
	if err != nil {
		t.Fatalf("GetWeather() error = %v", err)
	}
	if result.FromCache {
		t.Error("first request should not be served from cache")
	}
	if env.fetcher.fetchCalls != 1 {
		t.Errorf("fetchCalls = %d, want 1", env.fetcher.fetchCalls)
	}

	// A second request within tolerance serves the cached snapshot without
	// touching the provider.
	result, err = env.weather.GetWeather(ctx, 52.5205, 13.4055)
	if err != nil {
		t.Fatalf("GetWeather() error = %v", err)
	}
	if !result.FromCache {
		t.Error("second request within tolerance should be a cache hit")
	}
	if env.fetcher.fetchCalls != 1 {
		t.Errorf("fetchCalls = %d, want 1 (cache hit must not fetch)", env.fetcher.fetchCalls)
	}
	if result.Snapshot.LocationName != "Berlin" {
		t.Errorf("LocationName = %q, want Berlin", result.Snapshot.LocationName)
	}
}

func TestGetWeather_StaleEntryTriggersRefetch(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(&stubFetcher{snapshot: testSnapshot()})

	// First fetch stamps the entry eleven minutes in the past.
	past := time.Now().UTC().Add(-11 * time.Minute)
	env.cache.now = func() time.Time { return past }

	if _, err := env.weather.GetWeather(ctx, 52.52, 13.405); err != nil {
		t.Fatalf("GetWeather() error = %v", err)
	}

	env.cache.now = time.Now

	result, err := env.weather.GetWeather(ctx, 52.52, 13.405)
	if err != nil {
		t.Fatalf("GetWeather() error = %v", err)
	}
	if result.FromCache {
		t.Error("stale entry must count as a miss")
	}
	if env.fetcher.fetchCalls != 2 {
		t.Errorf("fetchCalls = %d, want 2 (stale entry forces a refetch)", env.fetcher.fetchCalls)
	}
}

func TestGetWeather_ProviderFailurePropagates(t *testing.T) {
	ctx := context.Background()
	wantErr := errors.New("weather data unavailable")
	env := newTestEnv(&stubFetcher{fetchErr: wantErr})

	result, err := env.weather.GetWeather(ctx, 52.52, 13.405)
	if result != nil {
		t.Errorf("result = %v, want nil", result)
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestGetWeather_AnnotatesFavorite(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(&stubFetcher{snapshot: testSnapshot()})

	fav := &models.FavoriteLocation{Name: "Berlin", Latitude: 52.52, Longitude: 13.405}
	if err := env.favorites.Add(ctx, fav); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	result, err := env.weather.GetWeather(ctx, 52.52, 13.405)
	if err != nil {
		t.Fatalf("GetWeather() error = %v", err)
	}
	if !result.IsFavorite {
		t.Error("IsFavorite = false, want true for a saved coordinate")
	}
	if result.FavoriteID == nil || *result.FavoriteID != fav.ID {
		t.Errorf("FavoriteID = %v, want %d", result.FavoriteID, fav.ID)
	}

	// The fresh fetch also refreshes the favorite's last-known summary.
	updated, err := env.favorites.GetByID(ctx, fav.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if updated.LastKnownTemperature == nil || *updated.LastKnownTemperature != 21.5 {
		t.Errorf("LastKnownTemperature = %v, want 21.5", updated.LastKnownTemperature)
	}
	if updated.LastKnownCondition == nil || *updated.LastKnownCondition != "Partly cloudy" {
		t.Errorf("LastKnownCondition = %v, want Partly cloudy", updated.LastKnownCondition)
	}
}

func TestGetWeather_NonFavoriteCoordinate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(&stubFetcher{snapshot: testSnapshot()})

	result, err := env.weather.GetWeather(ctx, 48.85, 2.35)
	if err != nil {
		t.Fatalf("GetWeather() error = %v", err)
	}
	if result.IsFavorite {
		t.Error("IsFavorite = true, want false with no favorites saved")
	}
	if result.FavoriteID != nil {
		t.Errorf("FavoriteID = %v, want nil", result.FavoriteID)
	}
}

func TestGetWeatherByQuery(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(&stubFetcher{
		snapshot: testSnapshot(),
		locations: []models.Location{
			{Name: "Berlin", Country: "Germany", Latitude: 52.52, Longitude: 13.405},
			{Name: "Berlin", Country: "United States", Latitude: 44.47, Longitude: -71.18},
		},
	})

	result, err := env.weather.GetWeatherByQuery(ctx, "berlin")
	if err != nil {
		t.Fatalf("GetWeatherByQuery() error = %v", err)
	}

	// First match wins and stamps its identity on the snapshot.
	if result.Snapshot.LocationName != "Berlin" {
		t.Errorf("LocationName = %q, want Berlin", result.Snapshot.LocationName)
	}
	if result.Snapshot.Country != "Germany" {
		t.Errorf("Country = %q, want Germany", result.Snapshot.Country)
	}
	if result.Snapshot.Coordinate.Latitude != 52.52 {
		t.Errorf("Latitude = %v, want 52.52", result.Snapshot.Coordinate.Latitude)
	}

	// The search lands in history with the selected match recorded.
	records, err := env.history.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("history has %d records, want 1", len(records))
	}
	if records[0].Query != "berlin" {
		t.Errorf("recorded query = %q, want berlin", records[0].Query)
	}
	if records[0].SelectedName == nil || *records[0].SelectedName != "Berlin" {
		t.Errorf("SelectedName = %v, want Berlin", records[0].SelectedName)
	}
}

func TestGetWeatherByQuery_NoMatches(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(&stubFetcher{snapshot: testSnapshot(), locations: []models.Location{}})

	result, err := env.weather.GetWeatherByQuery(ctx, "xyzzy")
	if result != nil {
		t.Errorf("result = %v, want nil", result)
	}
	if !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("err = %v, want ErrLocationNotFound", err)
	}
	if env.fetcher.fetchCalls != 0 {
		t.Errorf("fetchCalls = %d, want 0 (no match means no fetch)", env.fetcher.fetchCalls)
	}
}

func TestGetWeatherByQuery_SearchFailurePropagates(t *testing.T) {
	ctx := context.Background()
	wantErr := errors.New("location search unavailable")
	env := newTestEnv(&stubFetcher{searchErr: wantErr})

	_, err := env.weather.GetWeatherByQuery(ctx, "berlin")
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestSearch_EmptyResultIsNotAnError(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(&stubFetcher{locations: []models.Location{}})

	locations, err := env.weather.Search(ctx, "xyzzy")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if locations == nil || len(locations) != 0 {
		t.Errorf("Search() = %v, want an empty slice", locations)
	}

	// Even empty searches are recorded, without a selected match.
	records, err := env.history.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("history has %d records, want 1", len(records))
	}
	if records[0].SelectedName != nil {
		t.Errorf("SelectedName = %v, want nil for an empty search", records[0].SelectedName)
	}
}

func TestGetLastViewed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(&stubFetcher{snapshot: testSnapshot()})

	// Nothing viewed yet.
	result, err := env.weather.GetLastViewed(ctx)
	if err != nil {
		t.Fatalf("GetLastViewed() error = %v", err)
	}
	if result != nil {
		t.Errorf("GetLastViewed() = %v, want nil before any request", result)
	}

	if _, err := env.weather.GetWeather(ctx, 52.52, 13.405); err != nil {
		t.Fatalf("GetWeather() error = %v", err)
	}

	result, err = env.weather.GetLastViewed(ctx)
	if err != nil {
		t.Fatalf("GetLastViewed() error = %v", err)
	}
	if result == nil {
		t.Fatal("GetLastViewed() = nil after a request")
	}
	if result.Snapshot.LocationName != "Berlin" {
		t.Errorf("LocationName = %q, want Berlin", result.Snapshot.LocationName)
	}
	if !result.FromCache {
		t.Error("last-viewed restore should come from the cache")
	}
}

func TestGetLastViewed_StalePointerReturnsNil(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(&stubFetcher{snapshot: testSnapshot()})

	past := time.Now().UTC().Add(-time.Hour)
	env.cache.now = func() time.Time { return past }

	if _, err := env.weather.GetWeather(ctx, 52.52, 13.405); err != nil {
		t.Fatalf("GetWeather() error = %v", err)
	}

	env.cache.now = time.Now

	// The pointer survives but resolves through freshness rules, so an aged
	// cache entry yields nothing.
	result, err := env.weather.GetLastViewed(ctx)
	if err != nil {
		t.Fatalf("GetLastViewed() error = %v", err)
	}
	if result != nil {
		t.Errorf("GetLastViewed() = %v, want nil when the cached weather went stale", result)
	}
}
