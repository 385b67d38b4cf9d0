// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Logging     LoggingConfig
	CORS        CORSConfig
	Upload      UploadConfig
	ExternalAPI ExternalAPIConfig
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port               int
	BaseURL            string
	RateLimitPerMinute int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// UploadConfig holds upload storage settings
type UploadConfig struct {
	// PublicRoot is the directory containing the uploads/ tree
	PublicRoot string
	// MaxRequestSize is the request body limit in bytes, zero means unlimited
	MaxRequestSize int64
}

// ExternalAPIConfig holds settings of the external store receiving upload records
type ExternalAPIConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	return loadFromEnv("")
}

// loadFromEnv reads every variable with the given prefix prepended to its name
func loadFromEnv(prefix string) (*Config, error) {
	getenv := func(key string) string {
		return os.Getenv(prefix + key)
	}

	cfg := &Config{}

	// Server configuration
	serverPortStr := getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "3000" // default port
	}
	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	cfg.Server.Port = serverPort

	cfg.Server.BaseURL = getenv("BASE_URL")
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")

	rateLimitStr := getenv("RATE_LIMIT_PER_MINUTE")
	if rateLimitStr == "" {
		rateLimitStr = "100"
	}
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil || rateLimit < 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %q", rateLimitStr)
	}
	cfg.Server.RateLimitPerMinute = rateLimit

	// Logging configuration
	logLevel := getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(getenv("CORS_ALLOWED_ORIGINS"))

	// Upload configuration
	publicRoot := getenv("PUBLIC_ROOT")
	if publicRoot == "" {
		publicRoot = "public"
	}
	cfg.Upload.PublicRoot = publicRoot

	maxUploadStr := getenv("MAX_UPLOAD_MB")
	if maxUploadStr == "" {
		maxUploadStr = "0" // unlimited
	}
	maxUploadMB, err := strconv.ParseInt(maxUploadStr, 10, 64)
	if err != nil || maxUploadMB < 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %q", maxUploadStr)
	}
	cfg.Upload.MaxRequestSize = maxUploadMB << 20

	// External store configuration (optional)
	cfg.ExternalAPI.URL = getenv("EXTERNAL_API_URL")
	cfg.ExternalAPI.APIKey = getenv("API_KEY")

	timeoutStr := getenv("EXTERNAL_API_TIMEOUT")
	if timeoutStr == "" {
		timeoutStr = "10s"
	}
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid EXTERNAL_API_TIMEOUT: %w", err)
	}
	cfg.ExternalAPI.Timeout = timeout

	return cfg, nil
}

// parseOrigins parses comma-separated origins, allowing all origins when none are given
func parseOrigins(raw string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	// Default to allow all origins if not specified (for development)
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
