package services

import (
	"context"
	"fmt"

	"github.com/abhishektang/WeatherWise/internal/models"
	"github.com/abhishektang/WeatherWise/internal/repository"
	"github.com/abhishektang/WeatherWise/pkg/logging"
)

// FavoritesService manages the user's saved locations. All operations are
// total: removing or touching an unknown id does nothing rather than failing.
type FavoritesService struct {
	repo   repository.FavoritesRepository
	logger *logging.StructuredLogger
}

// NewFavoritesService creates a new favorites service
func NewFavoritesService(repo repository.FavoritesRepository, logger *logging.StructuredLogger) *FavoritesService {
	return &FavoritesService{repo: repo, logger: logger}
}

// List returns all favorites, most recently accessed first.
func (s *FavoritesService) List(ctx context.Context) ([]*models.FavoriteLocation, error) {
	return s.repo.GetAll(ctx)
}

// Add saves a new favorite after bounds-checking its coordinate.
func (s *FavoritesService) Add(ctx context.Context, fav *models.FavoriteLocation) error {
	if !fav.Coordinate().Valid() {
		return fmt.Errorf("coordinate %s out of bounds", fav.Coordinate())
	}

	if err := s.repo.Add(ctx, fav); err != nil {
		return err
	}

	s.logger.Info(ctx, "[FAVORITE_ADDED] Location saved", logging.Fields{
		"favorite_id": fav.ID,
		"name":        fav.Name,
		"latitude":    fav.Latitude,
		"longitude":   fav.Longitude,
	})
	return nil
}

// Remove deletes a favorite; unknown ids are a no-op.
func (s *FavoritesService) Remove(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// FindByCoordinate answers "is this place saved?" using the shared
// approximate-match tolerance. Returns nil when nothing is within tolerance.
func (s *FavoritesService) FindByCoordinate(ctx context.Context, lat, lon float64) (*models.FavoriteLocation, error) {
	return s.repo.GetByCoordinates(ctx, lat, lon)
}

// RecordAccess stamps the access time and increments the access counter for
// an existing favorite; unknown ids are a no-op.
func (s *FavoritesService) RecordAccess(ctx context.Context, id int64) error {
	return s.repo.RecordAccess(ctx, id)
}
