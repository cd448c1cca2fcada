// ABOUTME: Configuration loader for the coffee client
// ABOUTME: Reads settings from the environment and an optional .env file, with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/CleanMatyx/ApiRestCoffee/internal/client"
	"github.com/CleanMatyx/ApiRestCoffee/internal/session"
)

// DefaultEnvFile is read from the working directory when present
const DefaultEnvFile = ".env"

type Config struct {
	// API
	APIURL      string
	HTTPTimeout time.Duration
	MaxRPS      float64 // 0 disables client-side throttling

	// Storage
	ConfigDir string

	// Logging
	LogLevel  string // debug, info, warn, error (default: info)
	LogFormat string // text, json (default: text)

	// Connectivity
	SkipNetworkCheck bool
}

// Load reads configuration from the environment. Files named in envFiles are
// loaded first; with none given, DefaultEnvFile is tried. A missing file is
// not an error. Variables already set in the environment win over file values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("No env file found, using environment variables", "file", f)
				continue
			}
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{
		APIURL:      EnsureScheme(getEnv("COFFEE_API_URL", client.DefaultBaseURL)),
		HTTPTimeout: getEnvDuration("COFFEE_HTTP_TIMEOUT", client.DefaultTimeout),
		MaxRPS:      getEnvFloat("COFFEE_MAX_RPS", 0),

		ConfigDir: getEnv("COFFEE_CONFIG_DIR", session.DefaultConfigDir()),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		SkipNetworkCheck: getEnvBool("COFFEE_SKIP_NETWORK_CHECK", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values a command cannot run without
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("COFFEE_API_URL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("COFFEE_API_URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("COFFEE_API_URL has no host")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("COFFEE_HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.ConfigDir == "" {
		return fmt.Errorf("COFFEE_CONFIG_DIR is required when no home directory is available")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration accepts Go duration syntax ("45s") or a plain number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
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

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// EnsureScheme adds an https:// prefix when raw has no scheme
func EnsureScheme(raw string) string {
	if raw == "" {
		return raw
	}
	if !strings.Contains(raw, "://") {
		return "https://" + raw
	}
	return raw
}
