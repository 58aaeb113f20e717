package config

import (
	"testing"
	"time"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvImage, "memcached:custom")
	t.Setenv(EnvRetryMaxAttempts, "9")
	t.Setenv(EnvRetryInitialDelay, "3s")

	cfg := Default()
	ApplyEnv(cfg)

	if cfg.Memcached.Image != "memcached:custom" {
		t.Errorf("Image = %q, want %q", cfg.Memcached.Image, "memcached:custom")
	}
	if cfg.Watch.RetryMaxAttempts != 9 {
		t.Errorf("RetryMaxAttempts = %d, want 9", cfg.Watch.RetryMaxAttempts)
	}
	if cfg.Watch.RetryInitialDelay != 3*time.Second {
		t.Errorf("RetryInitialDelay = %v, want 3s", cfg.Watch.RetryInitialDelay)
	}
}

func TestApplyEnv_UnsetKeepsValues(t *testing.T) {
	cfg := Default()
	cfg.Memcached.Image = "keep-me"
	ApplyEnv(cfg)

	if cfg.Memcached.Image != "keep-me" {
		t.Errorf("Image = %q, want %q", cfg.Memcached.Image, "keep-me")
	}
	if cfg.Watch.RetryMaxAttempts != Default().Watch.RetryMaxAttempts {
		t.Errorf("RetryMaxAttempts changed without env override: %d", cfg.Watch.RetryMaxAttempts)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name       string
		envValue   string
		defaultVal time.Duration
		expected   time.Duration
	}{
		{"empty uses default", "", 5 * time.Second, 5 * time.Second},
		{"valid duration", "10s", 5 * time.Second, 10 * time.Second},
		{"invalid duration uses default", "invalid", 5 * time.Second, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.envValue)
			if got := parseDuration("TEST_DURATION", tt.defaultVal); got != tt.expected {
				t.Errorf("parseDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name       string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"empty uses default", "", 5, 5},
		{"valid int", "10", 5, 10},
		{"invalid int uses default", "ten", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.envValue)
			if got := parseInt("TEST_INT", tt.defaultVal); got != tt.expected {
				t.Errorf("parseInt() = %v, want %v", got, tt.expected)
			}
		})
	}
}
