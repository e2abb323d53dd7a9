package services

import (
	"context"
	"errors"

	"github.com/abhishektang/WeatherWise/internal/models"
	"github.com/abhishektang/WeatherWise/internal/repository"
	"github.com/abhishektang/WeatherWise/pkg/logging"
	"github.com/abhishektang/WeatherWise/pkg/metrics"
)

// ErrLocationNotFound is returned when a free-text query resolves to zero
// geocoding matches. Distinct from the provider being unreachable.
var ErrLocationNotFound = errors.New("location not found")

// WeatherFetcher is the acquisition boundary the service depends on. The
// provider client satisfies it; tests substitute a stub.
type WeatherFetcher interface {
	FetchByCoordinate(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error)
	FetchByQuery(ctx context.Context, query string) (*models.WeatherSnapshot, error)
	SearchLocations(ctx context.Context, query string) ([]models.Location, error)
}

// WeatherResult bundles a snapshot with its request-level annotations.
type WeatherResult struct {
	Snapshot   *models.WeatherSnapshot `json:"snapshot"`
	FromCache  bool                    `json:"from_cache"`
	IsFavorite bool                    `json:"is_favorite"`
	FavoriteID *int64                  `json:"favorite_id,omitempty"`
}

// WeatherService orchestrates a weather request: cache lookup first, then a
// provider fetch on miss, then cache write, last-viewed update, and favorite
// annotation.
type WeatherService struct {
	fetcher   WeatherFetcher
	cache     *CacheService
	favorites repository.FavoritesRepository
	history   repository.SearchHistoryRepository
	logger    *logging.StructuredLogger
	metrics   *metrics.Collector
}

// NewWeatherService creates a new weather service
func NewWeatherService(
	fetcher WeatherFetcher,
	cache *CacheService,
	favorites repository.FavoritesRepository,
	history repository.SearchHistoryRepository,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *WeatherService {
	return &WeatherService{
		fetcher:   fetcher,
		cache:     cache,
		favorites: favorites,
		history:   history,
		logger:    logger,
		metrics:   metricsCollector,
	}
}

// GetWeather returns weather for a coordinate, serving from cache when a
// fresh entry lies within tolerance. Concurrent requests for the same place
// may each fetch and write independently; entries are immutable once written,
// so the duplication is harmless.
func (s *WeatherService) GetWeather(ctx context.Context, lat, lon float64) (*WeatherResult, error) {
	if cached, _ := s.cache.GetCached(ctx, lat, lon); cached != nil {
		s.cache.SaveLastViewed(ctx, lat, lon)
		return s.annotate(ctx, cached, true), nil
	}

	snapshot, err := s.fetcher.FetchByCoordinate(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	s.cache.SaveSnapshot(ctx, snapshot)
	s.cache.SaveLastViewed(ctx, lat, lon)
	s.updateFavoriteSummary(ctx, snapshot)

	return s.annotate(ctx, snapshot, false), nil
}

// GetWeatherByQuery resolves a free-text query through geocoding, then runs
// the coordinate flow against the first match. The matched name and country
// overwrite the reverse-geocoded ones.
func (s *WeatherService) GetWeatherByQuery(ctx context.Context, query string) (*WeatherResult, error) {
	locations, err := s.fetcher.SearchLocations(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, ErrLocationNotFound
	}

	match := locations[0]
	s.recordSearch(ctx, query, &match)

	if cached, _ := s.cache.GetCached(ctx, match.Latitude, match.Longitude); cached != nil {
		s.cache.SaveLastViewed(ctx, match.Latitude, match.Longitude)
		return s.annotate(ctx, cached, true), nil
	}

	snapshot, err := s.fetcher.FetchByCoordinate(ctx, match.Latitude, match.Longitude)
	if err != nil {
		return nil, err
	}

	snapshot.LocationName = match.Name
	snapshot.Country = match.Country

	s.cache.SaveSnapshot(ctx, snapshot)
	s.cache.SaveLastViewed(ctx, match.Latitude, match.Longitude)
	s.updateFavoriteSummary(ctx, snapshot)

	return s.annotate(ctx, snapshot, false), nil
}

// Search exposes raw geocoding results and records the query. An empty result
// list is a successful search, never an error.
func (s *WeatherService) Search(ctx context.Context, query string) ([]models.Location, error) {
	locations, err := s.fetcher.SearchLocations(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(locations) > 0 {
		s.recordSearch(ctx, query, &locations[0])
	} else {
		s.recordSearch(ctx, query, nil)
	}

	return locations, nil
}

// GetLastViewed restores the previous session's weather through the cache.
func (s *WeatherService) GetLastViewed(ctx context.Context) (*WeatherResult, error) {
	snapshot, err := s.cache.GetLastViewed(ctx)
	if err != nil || snapshot == nil {
		return nil, err
	}
	return s.annotate(ctx, snapshot, true), nil
}

// RecentSearches lists the most recent search history records.
func (s *WeatherService) RecentSearches(ctx context.Context, limit int) ([]*models.SearchRecord, error) {
	return s.history.Recent(ctx, limit)
}

// annotate marks whether the snapshot's coordinate is a saved favorite, using
// the same tolerance rule the cache uses.
func (s *WeatherService) annotate(ctx context.Context, snapshot *models.WeatherSnapshot, fromCache bool) *WeatherResult {
	result := &WeatherResult{Snapshot: snapshot, FromCache: fromCache}

	fav, err := s.favorites.GetByCoordinates(ctx, snapshot.Coordinate.Latitude, snapshot.Coordinate.Longitude)
	if err != nil {
		s.logger.Error(ctx, "[FAVORITE_LOOKUP_ERROR] Favorite annotation failed", logging.Fields{
			"latitude":  snapshot.Coordinate.Latitude,
			"longitude": snapshot.Coordinate.Longitude,
		}, err)
		return result
	}
	if fav != nil {
		result.IsFavorite = true
		result.FavoriteID = &fav.ID
	}
	return result
}

// updateFavoriteSummary refreshes the denormalized last-known fields on a
// favorite matching the snapshot's coordinate.
func (s *WeatherService) updateFavoriteSummary(ctx context.Context, snapshot *models.WeatherSnapshot) {
	if snapshot.Current == nil {
		return
	}

	fav, err := s.favorites.GetByCoordinates(ctx, snapshot.Coordinate.Latitude, snapshot.Coordinate.Longitude)
	if err != nil || fav == nil {
		return
	}

	temp := snapshot.Current.Temperature
	condition := snapshot.Current.Condition
	fav.LastKnownTemperature = &temp
	fav.LastKnownCondition = &condition

	if err := s.favorites.Update(ctx, fav); err != nil {
		s.logger.Error(ctx, "[FAVORITE_SUMMARY_ERROR] Failed to update favorite summary", logging.Fields{
			"favorite_id": fav.ID,
		}, err)
	}
}

func (s *WeatherService) recordSearch(ctx context.Context, query string, selected *models.Location) {
	rec := &models.SearchRecord{Query: query}
	if selected != nil {
		rec.SelectedName = &selected.Name
		rec.SelectedLatitude = &selected.Latitude
		rec.SelectedLongitude = &selected.Longitude
	}

	if err := s.history.Record(ctx, rec); err != nil {
		s.logger.Debug(ctx, "[SEARCH_HISTORY_ERROR] Failed to record search", logging.Fields{
			"query": query,
		})
	}
}
