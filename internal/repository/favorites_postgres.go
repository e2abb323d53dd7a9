package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/abhishektang/WeatherWise/internal/models"
	"github.com/abhishektang/WeatherWise/pkg/database"
	"github.com/abhishektang/WeatherWise/pkg/logging"
)

// favoritesRepository implements FavoritesRepository on PostgreSQL
type favoritesRepository struct {
	db     *database.PostgresDB
	logger *logging.StructuredLogger
}

// NewFavoritesRepository creates a new favorites repository
func NewFavoritesRepository(db *database.PostgresDB, logger *logging.StructuredLogger) FavoritesRepository {
	return &favoritesRepository{db: db, logger: logger}
}

const favoriteColumns = `
	id, name, region, country, latitude, longitude,
	added_at, last_accessed_at, access_count,
	last_known_temperature, last_known_condition
`

func (r *favoritesRepository) GetAll(ctx context.Context) ([]*models.FavoriteLocation, error) {
	query := `
		SELECT ` + favoriteColumns + `
		FROM favorite_locations
		ORDER BY COALESCE(last_accessed_at, added_at) DESC
	`

	var favorites []*models.FavoriteLocation
	if err := r.db.SelectContext(ctx, "list_favorites", &favorites, query); err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	return favorites, nil
}

func (r *favoritesRepository) GetByID(ctx context.Context, id int64) (*models.FavoriteLocation, error) {
	query := `
		SELECT ` + favoriteColumns + `
		FROM favorite_locations
		WHERE id = $1
	`

	var fav models.FavoriteLocation
	err := r.db.GetContext(ctx, "get_favorite", &fav, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get favorite: %w", err)
	}

	return &fav, nil
}

func (r *favoritesRepository) GetByCoordinates(ctx context.Context, lat, lon float64) (*models.FavoriteLocation, error) {
	query := `
		SELECT ` + favoriteColumns + `
		FROM favorite_locations
		WHERE ABS(latitude - $1) < $3 AND ABS(longitude - $2) < $3
		LIMIT 1
	`

	var fav models.FavoriteLocation
	err := r.db.GetContext(ctx, "get_favorite_by_coords", &fav, query, lat, lon, models.CoordinateTolerance)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to match favorite by coordinates: %w", err)
	}

	return &fav, nil
}

func (r *favoritesRepository) Add(ctx context.Context, fav *models.FavoriteLocation) error {
	query := `
		INSERT INTO favorite_locations (
			name, region, country, latitude, longitude,
			added_at, access_count, last_known_temperature, last_known_condition
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	if fav.AddedAt.IsZero() {
		fav.AddedAt = time.Now().UTC()
	}

	err := r.db.DB().QueryRowContext(ctx, query,
		fav.Name,
		fav.Region,
		fav.Country,
		fav.Latitude,
		fav.Longitude,
		fav.AddedAt,
		fav.AccessCount,
		fav.LastKnownTemperature,
		fav.LastKnownCondition,
	).Scan(&fav.ID)

	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	r.logger.Debug(ctx, "[REPO_ADD_FAVORITE] Favorite created", logging.Fields{
		"favorite_id": fav.ID,
		"name":        fav.Name,
	})

	return nil
}

func (r *favoritesRepository) Update(ctx context.Context, fav *models.FavoriteLocation) error {
	query := `
		UPDATE favorite_locations SET
			name = $2, region = $3, country = $4,
			latitude = $5, longitude = $6,
			last_accessed_at = $7, access_count = $8,
			last_known_temperature = $9, last_known_condition = $10
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, "update_favorite", query,
		fav.ID,
		fav.Name,
		fav.Region,
		fav.Country,
		fav.Latitude,
		fav.Longitude,
		fav.LastAccessedAt,
		fav.AccessCount,
		fav.LastKnownTemperature,
		fav.LastKnownCondition,
	)
	if err != nil {
		return fmt.Errorf("failed to update favorite: %w", err)
	}

	return nil
}

func (r *favoritesRepository) Delete(ctx context.Context, id int64) error {
	// Deleting a nonexistent id affects zero rows, which is fine.
	query := `DELETE FROM favorite_locations WHERE id = $1`

	_, err := r.db.ExecContext(ctx, "delete_favorite", query, id)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	return nil
}

func (r *favoritesRepository) RecordAccess(ctx context.Context, id int64) error {
	// Single UPDATE so the stamp and the increment cannot diverge under
	// concurrent access. Unknown ids match zero rows and change nothing.
	query := `
		UPDATE favorite_locations
		SET last_accessed_at = $2, access_count = access_count + 1
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, "record_favorite_access", query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record favorite access: %w", err)
	}

	return nil
}
