package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dukerupert/menuboard/internal/export"
)

type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string

	// Debounce is the coalescing window for color edits in the editor.
	Debounce time.Duration

	// PreviewRateLimit is the number of preview requests allowed per
	// minute per client IP.
	PreviewRateLimit int

	Export export.S3Config
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	debounceMS, err := getInt("MENUBOARD_DEBOUNCE_MS", 175)
	if err != nil {
		return nil, err
	}
	if debounceMS < 0 {
		return nil, fmt.Errorf("MENUBOARD_DEBOUNCE_MS must not be negative")
	}
	rateLimit, err := getInt("MENUBOARD_PREVIEW_RATE_LIMIT", 120)
	if err != nil {
		return nil, err
	}
	if rateLimit <= 0 {
		return nil, fmt.Errorf("MENUBOARD_PREVIEW_RATE_LIMIT must be positive")
	}

	return &Config{
		Port:             getEnv("MENUBOARD_PORT", "8080"),
		DBPath:           getEnv("MENUBOARD_DB_PATH", "menuboard.db"),
		LogLevel:         getEnv("MENUBOARD_LOG_LEVEL", "info"),
		LogFormat:        getEnv("MENUBOARD_LOG_FORMAT", "text"),
		Debounce:         time.Duration(debounceMS) * time.Millisecond,
		PreviewRateLimit: rateLimit,
		Export: export.S3Config{
			Endpoint:  getEnv("MENUBOARD_EXPORT_S3_ENDPOINT", ""),
			Bucket:    getEnv("MENUBOARD_EXPORT_S3_BUCKET", ""),
			Region:    getEnv("MENUBOARD_EXPORT_S3_REGION", "auto"),
			AccessKey: getEnv("MENUBOARD_EXPORT_S3_ACCESS_KEY", ""),
			SecretKey: getEnv("MENUBOARD_EXPORT_S3_SECRET_KEY", ""),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
