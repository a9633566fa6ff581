package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"ecosort/internal/model"
	"ecosort/internal/repository"
)

var _ repository.PreferenceRepository = (*PreferenceRepository)(nil)

func setupTestDB(t *testing.T) (*DB, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, dbPath
}

// ========================================
// Preference Tests
// ========================================

func TestPreferences_GetMissing(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewPreferenceRepository(db)

	value, ok, err := repo.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok || value != "" {
		t.Errorf("Expected no value, got %q (ok=%v)", value, ok)
	}
}

func TestPreferences_SetOverwrites(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewPreferenceRepository(db)
	ctx := context.Background()

	if err := repo.Set(ctx, "k", "one"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := repo.Set(ctx, "k", "two"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := repo.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get failed: %v (ok=%v)", err, ok)
	}
	if value != "two" {
		t.Errorf("Expected two, got %s", value)
	}
}

func TestPreferences_ThemeDefaultsToDark(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewPreferenceRepository(db)

	theme, err := repo.Theme(context.Background())
	if err != nil {
		t.Fatalf("Theme failed: %v", err)
	}
	if theme != model.ThemeDark {
		t.Errorf("Expected dark default, got %s", theme)
	}
}

func TestPreferences_ThemeSurvivesReopen(t *testing.T) {
	db, dbPath := setupTestDB(t)
	repo := NewPreferenceRepository(db)

	if err := repo.SetTheme(context.Background(), model.ThemeLight); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	db.Close()

	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer reopened.Close()

	theme, err := NewPreferenceRepository(reopened).Theme(context.Background())
	if err != nil {
		t.Fatalf("Theme failed: %v", err)
	}
	if theme != model.ThemeLight {
		t.Errorf("Expected light after reopen, got %s", theme)
	}
}

func TestPreferences_UnknownThemeValue(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewPreferenceRepository(db)
	ctx := context.Background()

	repo.Set(ctx, ThemeKey, "neon")
	theme, err := repo.Theme(ctx)
	if err != nil {
		t.Fatalf("Theme failed: %v", err)
	}
	if theme != model.ThemeDark {
		t.Errorf("Expected unknown value to read as dark, got %s", theme)
	}
}
