package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/abhishektang/WeatherWise/pkg/database"
	"github.com/abhishektang/WeatherWise/pkg/logging"
)

// settingsRepository implements SettingsRepository on PostgreSQL
type settingsRepository struct {
	db     *database.PostgresDB
	logger *logging.StructuredLogger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.PostgresDB, logger *logging.StructuredLogger) SettingsRepository {
	return &settingsRepository{db: db, logger: logger}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM app_settings WHERE key = $1`

	var value string
	err := r.db.GetContext(ctx, "get_setting", &value, query, key)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %q: %w", key, err)
	}

	return value, true, nil
}

func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, "set_setting", query, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}

	return nil
}
