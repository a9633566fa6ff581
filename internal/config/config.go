package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// MaxUploadBytes is the largest accepted upload (5 MiB).
	MaxUploadBytes = 5 * 1024 * 1024
	// HistoryLimit is how many recent predictions the page shows.
	HistoryLimit = 5
)

type Config struct {
	Port             int
	BackendURL       string        // Base URL of the classification/history API
	HTTPTimeout      time.Duration // Timeout for every backend call
	CameraDevice     string        // Device index ("0") or a stream/file path
	CameraPreviewFPS int
	DBPath           string
	LogDirectory     string
	HistoryLimit     int
	MaxUploadBytes   int64
	DemoPreviewDelay time.Duration // How long the demo image is shown before processing
	DemoProcessDelay time.Duration // Simulated processing time in demo mode
	DemoResultHold   time.Duration // How long a demo result stays on screen
	EnvFile          string
}

// Load reads an optional .env file and builds the config from the environment.
func Load() *Config {
	envFile := getEnv("ENV_FILE", ".env")
	// A missing .env is normal outside development.
	_ = godotenv.Load(envFile)

	return &Config{
		Port:             getEnvAsInt("PORT", 8080),
		BackendURL:       getEnv("BACKEND_URL", "http://localhost:5000"),
		HTTPTimeout:      getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
		CameraDevice:     getEnv("CAMERA_DEVICE", "0"),
		CameraPreviewFPS: getEnvAsInt("CAMERA_PREVIEW_FPS", 10),
		DBPath:           getEnv("DB_PATH", filepath.Join(".", "data", "ecosort.db")),
		LogDirectory:     getEnv("LOG_DIR", filepath.Join(".", "logs")),
		HistoryLimit:     getEnvAsInt("HISTORY_LIMIT", HistoryLimit),
		MaxUploadBytes:   getEnvAsInt64("MAX_UPLOAD_BYTES", MaxUploadBytes),
		DemoPreviewDelay: getEnvAsDuration("DEMO_PREVIEW_DELAY", 1500*time.Millisecond),
		DemoProcessDelay: getEnvAsDuration("DEMO_PROCESSING_DELAY", 2*time.Second),
		DemoResultHold:   getEnvAsDuration("DEMO_RESULT_HOLD", 6*time.Second),
		EnvFile:          envFile,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("1500ms") or plain seconds ("30").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
