package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ecosort/internal/model"
)

// ThemeKey is the preferences key holding the display theme.
const ThemeKey = "theme"

// PreferenceRepository implements repository.PreferenceRepository for SQLite.
type PreferenceRepository struct {
	db *DB
}

// NewPreferenceRepository creates a new SQLite preference repository.
func NewPreferenceRepository(db *DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get returns the value stored under key.
func (r *PreferenceRepository) Get(ctx context.Context, key string) (string, bool, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var value string
	err := r.db.Conn().QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get preference %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (r *PreferenceRepository) Set(ctx context.Context, key, value string) error {
	r.db.Lock()
	defer r.db.Unlock()

	_, err := r.db.Conn().ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set preference %q: %w", key, err)
	}
	return nil
}

// Theme returns the saved theme; unset or unknown values mean dark.
func (r *PreferenceRepository) Theme(ctx context.Context) (model.Theme, error) {
	value, ok, err := r.Get(ctx, ThemeKey)
	if err != nil {
		return model.ThemeDark, err
	}
	if !ok {
		return model.ThemeDark, nil
	}
	return model.ParseTheme(value), nil
}

// SetTheme saves the display theme.
func (r *PreferenceRepository) SetTheme(ctx context.Context, theme model.Theme) error {
	return r.Set(ctx, ThemeKey, string(theme))
}
