package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variables read by ApplyEnv.
const (
	EnvImage             = "MEMCACHED_IMAGE"
	EnvRetryMaxAttempts  = "MEMCACHED_WATCH_RETRY_MAX_ATTEMPTS"
	EnvRetryInitialDelay = "MEMCACHED_WATCH_RETRY_INITIAL_DELAY"
)

// ApplyEnv overrides configuration values from environment variables.
// Unset or unparsable variables leave the current value untouched.
//
// Environment Variables:
//   - MEMCACHED_IMAGE
//   - MEMCACHED_WATCH_RETRY_MAX_ATTEMPTS
//   - MEMCACHED_WATCH_RETRY_INITIAL_DELAY
func ApplyEnv(cfg *Config) {
	if image := os.Getenv(EnvImage); image != "" {
		cfg.Memcached.Image = image
	}
	cfg.Watch.RetryMaxAttempts = parseInt(EnvRetryMaxAttempts, cfg.Watch.RetryMaxAttempts)
	cfg.Watch.RetryInitialDelay = parseDuration(EnvRetryInitialDelay, cfg.Watch.RetryInitialDelay)
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
