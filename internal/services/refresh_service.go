package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/abhishektang/WeatherWise/internal/repository"
	"github.com/abhishektang/WeatherWise/pkg/logging"
	"github.com/abhishektang/WeatherWise/pkg/metrics"
)

// RefreshService periodically re-fetches weather for every saved favorite so
// their denormalized last-known summaries stay current between visits.
type RefreshService struct {
	weather   *WeatherService
	favorites repository.FavoritesRepository
	cron      *cron.Cron
	schedule  string
	logger    *logging.ContextLogger
	metrics   *metrics.Collector
}

// NewRefreshService creates a refresh service with a cron schedule spec such
// as "@every 30m".
func NewRefreshService(
	weather *WeatherService,
	favorites repository.FavoritesRepository,
	schedule string,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *RefreshService {
	return &RefreshService{
		weather:   weather,
		favorites: favorites,
		cron:      cron.New(),
		schedule:  schedule,
		logger:    logger.WithFields(logging.Fields{"component": "favorites_refresh"}),
		metrics:   metricsCollector,
	}
}

// Start registers and starts the periodic job.
func (s *RefreshService) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.refreshAll); err != nil {
		return err
	}
	s.cron.Start()

	s.logger.Info(context.Background(), "[REFRESH_START] Favorites refresh scheduled", logging.Fields{
		"schedule": s.schedule,
	})
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *RefreshService) Stop() {
	<-s.cron.Stop().Done()
}

func (s *RefreshService) refreshAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	defer func() {
		s.metrics.FavoritesRefreshDuration.Observe(time.Since(start).Seconds())
	}()

	favorites, err := s.favorites.GetAll(ctx)
	if err != nil {
		s.logger.Error(ctx, "[REFRESH_ERROR] Failed to list favorites", logging.Fields{}, err)
		return
	}
	if len(favorites) == 0 {
		return
	}

	var failed int
	for _, fav := range favorites {
		// GetWeather refreshes the favorite's summary fields as a side
		// effect of a fresh fetch; cache hits mean nothing has changed.
		if _, err := s.weather.GetWeather(ctx, fav.Latitude, fav.Longitude); err != nil {
			failed++
			s.logger.Warn(ctx, "[REFRESH_FETCH_FAILED] Favorite refresh failed", logging.Fields{
				"favorite_id": fav.ID,
				"name":        fav.Name,
			})
		}
	}

	s.logger.Info(ctx, "[REFRESH_COMPLETE] Favorites refresh finished", logging.Fields{
		"total":  len(favorites),
		"failed": failed,
	})
}
