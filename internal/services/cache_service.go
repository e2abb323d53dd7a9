package services

import (
	"context"
	"strconv"
	"time"

	"github.com/abhishektang/WeatherWise/internal/models"
	"github.com/abhishektang/WeatherWise/internal/repository"
	"github.com/abhishektang/WeatherWise/pkg/logging"
	"github.com/abhishektang/WeatherWise/pkg/metrics"
)

const (
	lastLocationLatKey = "last_location_lat"
	lastLocationLonKey = "last_location_lon"
)

// CacheService implements the geospatial weather cache: approximate-coordinate
// lookup, freshness evaluation, capacity pruning, and the single last-viewed
// pointer. Storage faults degrade to cache misses; they never fail a request.
type CacheService struct {
	cache    repository.CacheRepository
	settings repository.SettingsRepository
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
	now      func() time.Time
}

// NewCacheService creates a new cache service
func NewCacheService(
	cache repository.CacheRepository,
	settings repository.SettingsRepository,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *CacheService {
	return &CacheService{
		cache:    cache,
		settings: settings,
		logger:   logger,
		metrics:  metricsCollector,
		now:      time.Now,
	}
}

// GetCached returns the freshest snapshot within tolerance of the query
// point, or nil when nothing fresh is stored. A stale entry counts as a miss
// even though it remains stored until pruning removes it.
func (s *CacheService) GetCached(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	entry, err := s.cache.FindNearest(ctx, lat, lon)
	if err != nil {
		s.logger.Error(ctx, "[CACHE_LOOKUP_ERROR] Cache lookup failed, treating as miss", logging.Fields{
			"latitude":  lat,
			"longitude": lon,
		}, err)
		s.metrics.CacheMissesTotal.Inc()
		return nil, nil
	}

	if entry == nil {
		s.metrics.CacheMissesTotal.Inc()
		return nil, nil
	}

	if entry.IsStale(s.now().UTC()) {
		s.metrics.CacheStaleTotal.Inc()
		s.metrics.CacheMissesTotal.Inc()
		s.logger.Debug(ctx, "[CACHE_STALE] Entry within tolerance but past freshness window", logging.Fields{
			"entry_id":   entry.ID,
			"fetched_at": entry.FetchedAt,
		})
		return nil, nil
	}

	snapshot, err := entry.Snapshot()
	if err != nil {
		s.logger.Error(ctx, "[CACHE_DECODE_ERROR] Stored snapshot unreadable, treating as miss", logging.Fields{
			"entry_id": entry.ID,
		}, err)
		s.metrics.CacheMissesTotal.Inc()
		return nil, nil
	}

	s.metrics.CacheHitsTotal.Inc()
	return snapshot, nil
}

// SaveSnapshot serializes and stores a snapshot stamped with the current
// time, then prunes down to capacity. Pruning runs after every write
// regardless of whether this write overflowed the cache.
func (s *CacheService) SaveSnapshot(ctx context.Context, snapshot *models.WeatherSnapshot) {
	entry, err := models.NewCacheEntry(snapshot, s.now().UTC())
	if err != nil {
		s.logger.Error(ctx, "[CACHE_SAVE_ERROR] Failed to serialize snapshot", logging.Fields{
			"location_name": snapshot.LocationName,
		}, err)
		return
	}

	if err := s.cache.Insert(ctx, entry); err != nil {
		s.logger.Error(ctx, "[CACHE_SAVE_ERROR] Failed to store cache entry", logging.Fields{
			"location_name": entry.LocationName,
		}, err)
		return
	}

	deleted, err := s.cache.Prune(ctx, models.CacheCapacity)
	if err != nil {
		s.logger.Error(ctx, "[CACHE_PRUNE_ERROR] Capacity pruning failed", logging.Fields{}, err)
		return
	}
	if deleted > 0 {
		s.metrics.CachePrunedEntries.Add(float64(deleted))
	}
}

// SaveLastViewed persists the single last-viewed location pointer.
func (s *CacheService) SaveLastViewed(ctx context.Context, lat, lon float64) {
	if err := s.settings.Set(ctx, lastLocationLatKey, strconv.FormatFloat(lat, 'f', -1, 64)); err != nil {
		s.logger.Error(ctx, "[LAST_VIEWED_SAVE_ERROR] Failed to save latitude", logging.Fields{}, err)
		return
	}
	if err := s.settings.Set(ctx, lastLocationLonKey, strconv.FormatFloat(lon, 'f', -1, 64)); err != nil {
		s.logger.Error(ctx, "[LAST_VIEWED_SAVE_ERROR] Failed to save longitude", logging.Fields{}, err)
	}
}

// GetLastViewed resolves the last-viewed pointer through the cache, so the
// result is subject to the same freshness rules as any other lookup. Returns
// nil when no pointer is set or the cached weather has gone stale.
func (s *CacheService) GetLastViewed(ctx context.Context) (*models.WeatherSnapshot, error) {
	latStr, ok, err := s.settings.Get(ctx, lastLocationLatKey)
	if err != nil || !ok {
		return nil, err
	}
	lonStr, ok, err := s.settings.Get(ctx, lastLocationLonKey)
	if err != nil || !ok {
		return nil, err
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lon, lonErr := strconv.ParseFloat(lonStr, 64)
	if latErr != nil || lonErr != nil {
		s.logger.Warn(ctx, "[LAST_VIEWED_CORRUPT] Stored pointer unparsable, ignoring", logging.Fields{
			"lat": latStr,
			"lon": lonStr,
		})
		return nil, nil
	}

	return s.GetCached(ctx, lat, lon)
}
