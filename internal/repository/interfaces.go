package repository

import (
	"context"

	"ecosort/internal/model"
)

// PreferenceRepository stores user settings as key/value pairs.
type PreferenceRepository interface {
	// Get returns the value for key and whether it was set.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error

	// Theme returns the saved theme, or the dark default.
	Theme(ctx context.Context) (model.Theme, error)
	SetTheme(ctx context.Context, theme model.Theme) error
}
