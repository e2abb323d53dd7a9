package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/abhishektang/WeatherWise/internal/models"
	"github.com/abhishektang/WeatherWise/pkg/database"
	"github.com/abhishektang/WeatherWise/pkg/logging"
)

// searchHistoryRepository implements SearchHistoryRepository on PostgreSQL
type searchHistoryRepository struct {
	db     *database.PostgresDB
	logger *logging.StructuredLogger
}

// NewSearchHistoryRepository creates a new search history repository
func NewSearchHistoryRepository(db *database.PostgresDB, logger *logging.StructuredLogger) SearchHistoryRepository {
	return &searchHistoryRepository{db: db, logger: logger}
}

func (r *searchHistoryRepository) Record(ctx context.Context, rec *models.SearchRecord) error {
	query := `
		INSERT INTO search_history (
			query, searched_at, selected_name, selected_latitude, selected_longitude
		)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	if rec.SearchedAt.IsZero() {
		rec.SearchedAt = time.Now().UTC()
	}

	err := r.db.DB().QueryRowContext(ctx, query,
		rec.Query,
		rec.SearchedAt,
		rec.SelectedName,
		rec.SelectedLatitude,
		rec.SelectedLongitude,
	).Scan(&rec.ID)

	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}

	return nil
}

func (r *searchHistoryRepository) Recent(ctx context.Context, limit int) ([]*models.SearchRecord, error) {
	query := `
		SELECT id, query, searched_at, selected_name, selected_latitude, selected_longitude
		FROM search_history
		ORDER BY searched_at DESC
		LIMIT $1
	`

	var records []*models.SearchRecord
	if err := r.db.SelectContext(ctx, "recent_searches", &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent searches: %w", err)
	}

	return records, nil
}
