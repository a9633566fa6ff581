package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, key := range []string{"PORT", "BACKEND_URL", "HTTP_TIMEOUT", "HISTORY_LIMIT", "MAX_UPLOAD_BYTES", "DEMO_RESULT_HOLD"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Port)
	}
	if cfg.BackendURL != "http://localhost:5000" {
		t.Errorf("Expected default backend URL, got %s", cfg.BackendURL)
	}
	if cfg.HistoryLimit != 5 {
		t.Errorf("Expected history limit 5, got %d", cfg.HistoryLimit)
	}
	if cfg.MaxUploadBytes != 5*1024*1024 {
		t.Errorf("Expected 5 MiB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.DemoResultHold != 6*time.Second {
		t.Errorf("Expected 6s demo hold, got %s", cfg.DemoResultHold)
	}
	if cfg.DemoPreviewDelay != 1500*time.Millisecond {
		t.Errorf("Expected 1.5s preview delay, got %s", cfg.DemoPreviewDelay)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	content := "BACKEND_URL=http://classifier:9000\nPORT=9090\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	t.Setenv("ENV_FILE", envFile)
	// godotenv never overrides variables that are already set, so clear them
	// through t.Setenv (restored after the test) and unset them for Load.
	t.Setenv("BACKEND_URL", "")
	t.Setenv("PORT", "")
	os.Unsetenv("BACKEND_URL")
	os.Unsetenv("PORT")

	cfg := Load()

	if cfg.BackendURL != "http://classifier:9000" {
		t.Errorf("Expected backend URL from env file, got %s", cfg.BackendURL)
	}
	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090 from env file, got %d", cfg.Port)
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Duration
	}{
		{"", 3 * time.Second},
		{"250ms", 250 * time.Millisecond},
		{"45", 45 * time.Second},
		{"abc", 3 * time.Second},
	}

	for _, tt := range tests {
		t.Setenv("TEST_DURATION", tt.value)
		result := getEnvAsDuration("TEST_DURATION", 3*time.Second)
		if result != tt.expected {
			t.Errorf("getEnvAsDuration(%q) = %s, expected %s", tt.value, result, tt.expected)
		}
	}
}

func TestGetEnvAsInt_Invalid(t *testing.T) {
	t.Setenv("TEST_INT", "twelve")
	if got := getEnvAsInt("TEST_INT", 7); got != 7 {
		t.Errorf("Expected fallback 7, got %d", got)
	}
}
