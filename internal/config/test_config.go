package config

import (
	"github.com/joho/godotenv"
)

// LoadTestConfig loads the configuration for integration tests from TEST_ prefixed variables.
// Unset variables fall back to the same defaults as Load.
func LoadTestConfig() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist - it's optional)
	// Try loading from project root
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	return loadFromEnv("TEST_")
}
