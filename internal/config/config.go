package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config captures the runtime configuration for the TubePort service.
type Config struct {
	AppPort      int
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// SessionSecret signs the session cookie. When left empty a random
	// secret is generated at startup, which means sessions do not survive
	// a process restart.
	SessionSecret string
	SessionTTL    time.Duration

	UploadDir   string
	DatabaseURL string
	LogLevel    string

	UploadRatePerMinute int
	UploadBurst         int

	Archive ArchiveConfig
}

// ArchiveConfig describes the optional object-store bucket that published
// uploads are copied into. An empty bucket disables archiving.
type ArchiveConfig struct {
	Bucket   string
	Region   string
	Endpoint string
}

// Load reads configuration from environment variables, applying sensible
// defaults for local development while allowing overrides through environment
// variables.
func Load() (Config, error) {
	cfg := Config{
		AppPort:             getInt("TUBEPORT_PORT", 8080),
		ClientID:            getString("TUBEPORT_CLIENT_ID", ""),
		ClientSecret:        getString("TUBEPORT_CLIENT_SECRET", ""),
		RedirectURL:         getString("TUBEPORT_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
		SessionSecret:       getString("TUBEPORT_SESSION_SECRET", ""),
		SessionTTL:          getDuration("TUBEPORT_SESSION_TTL", 24*time.Hour),
		UploadDir:           getString("TUBEPORT_UPLOAD_DIR", "uploads"),
		DatabaseURL:         getString("TUBEPORT_DATABASE_URL", ""),
		LogLevel:            getString("TUBEPORT_LOG_LEVEL", "info"),
		UploadRatePerMinute: getInt("TUBEPORT_UPLOAD_RATE", 10),
		UploadBurst:         getInt("TUBEPORT_UPLOAD_BURST", 3),
		Archive: ArchiveConfig{
			Bucket:   getString("TUBEPORT_ARCHIVE_BUCKET", ""),
			Region:   getString("TUBEPORT_ARCHIVE_REGION", "us-east-1"),
			Endpoint: getString("TUBEPORT_ARCHIVE_ENDPOINT", ""),
		},
	}

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return Config{}, fmt.Errorf("TUBEPORT_CLIENT_ID and TUBEPORT_CLIENT_SECRET must be set")
	}

	if cfg.SessionSecret == "" {
		secret, err := generateSecret()
		if err != nil {
			return Config{}, fmt.Errorf("generate session secret: %w", err)
		}
		cfg.SessionSecret = secret
	}

	return cfg, nil
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
