package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abhishektang/WeatherWise/internal/models"
	"github.com/abhishektang/WeatherWise/pkg/database"
	"github.com/abhishektang/WeatherWise/pkg/logging"
)

// cacheRepository implements CacheRepository on PostgreSQL
type cacheRepository struct {
	db     *database.PostgresDB
	logger *logging.StructuredLogger
}

// NewCacheRepository creates a new weather cache repository
func NewCacheRepository(db *database.PostgresDB, logger *logging.StructuredLogger) CacheRepository {
	return &cacheRepository{db: db, logger: logger}
}

const cacheColumns = `
	id, latitude, longitude, location_name, fetched_at, snapshot_json,
	temperature, feels_like, humidity, wind_speed, condition
`

func (r *cacheRepository) Insert(ctx context.Context, entry *models.CacheEntry) error {
	query := `
		INSERT INTO weather_cache (
			latitude, longitude, location_name, fetched_at, snapshot_json,
			temperature, feels_like, humidity, wind_speed, condition
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		entry.Latitude,
		entry.Longitude,
		entry.LocationName,
		entry.FetchedAt,
		entry.SnapshotJSON,
		entry.Temperature,
		entry.FeelsLike,
		entry.Humidity,
		entry.WindSpeed,
		entry.Condition,
	).Scan(&entry.ID)

	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	r.logger.Debug(ctx, "[REPO_CACHE_INSERT] Cache entry stored", logging.Fields{
		"entry_id":      entry.ID,
		"location_name": entry.LocationName,
		"latitude":      entry.Latitude,
		"longitude":     entry.Longitude,
	})

	return nil
}

func (r *cacheRepository) FindNearest(ctx context.Context, lat, lon float64) (*models.CacheEntry, error) {
	// Approximate match: a linear tolerance scan, not key equality. Two
	// entries within tolerance of each other may coexist; the most recent
	// one wins.
	query := `
		SELECT ` + cacheColumns + `
		FROM weather_cache
		WHERE ABS(latitude - $1) < $3 AND ABS(longitude - $2) < $3
		ORDER BY fetched_at DESC
		LIMIT 1
	`

	var entry models.CacheEntry
	err := r.db.GetContext(ctx, "find_cache_entry", &entry, query, lat, lon, models.CoordinateTolerance)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	return &entry, nil
}

func (r *cacheRepository) Prune(ctx context.Context, keep int) (int64, error) {
	query := `
		DELETE FROM weather_cache
		WHERE id NOT IN (
			SELECT id FROM weather_cache
			ORDER BY fetched_at DESC
			LIMIT $1
		)
	`

	result, err := r.db.ExecContext(ctx, "prune_cache", query, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}

	if deleted > 0 {
		r.logger.Debug(ctx, "[REPO_CACHE_PRUNE] Old cache entries removed", logging.Fields{
			"deleted": deleted,
			"kept":    keep,
		})
	}

	return deleted, nil
}

func (r *cacheRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, "count_cache", &count, `SELECT COUNT(*) FROM weather_cache`); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return count, nil
}
