package repository

import (
	"context"

	"github.com/abhishektang/WeatherWise/internal/models"
)

// FavoritesRepository provides data access for saved locations.
//
// Reads return (nil, nil) when nothing matches, and mutating operations on a
// missing id are no-ops: a favorite being absent is an outcome, not an error.
type FavoritesRepository interface {
	// GetAll returns every favorite, most recently accessed first, falling
	// back to the added time for favorites never accessed.
	GetAll(ctx context.Context) ([]*models.FavoriteLocation, error)
	GetByID(ctx context.Context, id int64) (*models.FavoriteLocation, error)
	// GetByCoordinates matches within the shared coordinate tolerance.
	GetByCoordinates(ctx context.Context, lat, lon float64) (*models.FavoriteLocation, error)
	// Add persists a new favorite and fills in its assigned ID.
	Add(ctx context.Context, fav *models.FavoriteLocation) error
	Update(ctx context.Context, fav *models.FavoriteLocation) error
	Delete(ctx context.Context, id int64) error
	// RecordAccess stamps the access time and increments the counter in one
	// atomic operation.
	RecordAccess(ctx context.Context, id int64) error
}

// CacheRepository stores serialized weather snapshots keyed by approximate
// coordinate.
type CacheRepository interface {
	Insert(ctx context.Context, entry *models.CacheEntry) error
	// FindNearest returns the most recently fetched entry within tolerance
	// of the query point, or (nil, nil) when none exists. Staleness is the
	// caller's concern.
	FindNearest(ctx context.Context, lat, lon float64) (*models.CacheEntry, error)
	// Prune retains only the keep most-recently-fetched entries and reports
	// how many were deleted.
	Prune(ctx context.Context, keep int) (int64, error)
	Count(ctx context.Context) (int, error)
}

// SettingsRepository is a string key-value store for small persisted state
// such as the last-viewed location pointer.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// SearchHistoryRepository tracks free-text location searches.
type SearchHistoryRepository interface {
	Record(ctx context.Context, rec *models.SearchRecord) error
	Recent(ctx context.Context, limit int) ([]*models.SearchRecord, error)
}
