package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DatabaseURL      string
	SessionJWTSecret string
	UploadsDir       string
	UploadsBaseURL   string
	VideoGenAPIKey   string
	VideoGenBaseURL  string
	VideoGenModel    string
	PollInterval     time.Duration
	PollMaxTicks     int
	DefaultVideoCap  int
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. The session secret and provider API key are required
// and have no fallback values.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SessionJWTSecret: os.Getenv("SESSION_JWT_SECRET"),
		UploadsDir:       getEnv("UPLOADS_DIR", "uploads"),
		UploadsBaseURL:   getEnv("UPLOADS_BASE_URL", "/uploads"),
		VideoGenAPIKey:   os.Getenv("VIDEOGEN_API_KEY"),
		VideoGenBaseURL:  getEnv("VIDEOGEN_BASE_URL", "https://api.videogen.example.com/v1"),
		VideoGenModel:    getEnv("VIDEOGEN_MODEL", "i2v-1.5-pro"),
		PollInterval:     time.Second * time.Duration(getEnvInt("VIDEOGEN_POLL_INTERVAL_SECONDS", 5)),
		PollMaxTicks:     getEnvInt("VIDEOGEN_POLL_MAX_TICKS", 60),
		DefaultVideoCap:  getEnvInt("DEFAULT_VIDEO_LIMIT", 10),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 330)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.SessionJWTSecret == "" {
		return nil, fmt.Errorf("SESSION_JWT_SECRET is required")
	}

	if cfg.VideoGenAPIKey == "" {
		return nil, fmt.Errorf("VIDEOGEN_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
