package config

import "time"

// Config holds the operator configuration.
type Config struct {
	// MetricsBindAddress is the address the metrics endpoint binds to.
	// "0" disables the endpoint.
	MetricsBindAddress string `yaml:"metrics_bind_address"`

	// HealthProbeBindAddress is the address the health probe endpoint binds to.
	HealthProbeBindAddress string `yaml:"health_probe_bind_address"`

	// LeaderElection enables leader election for the controller manager.
	LeaderElection bool `yaml:"leader_election"`

	// LeaderElectionID is the name of the leader election lease.
	LeaderElectionID string `yaml:"leader_election_id"`

	// MaxConcurrentReconciles bounds how many Memcached resources are
	// reconciled in parallel. A single resource is never reconciled twice
	// at the same time.
	MaxConcurrentReconciles int `yaml:"max_concurrent_reconciles"`

	// EnableMetrics toggles the operator's Prometheus collectors.
	EnableMetrics bool `yaml:"enable_metrics"`

	Memcached MemcachedConfig `yaml:"memcached"`
	Watch     WatchConfig     `yaml:"watch"`
}

// MemcachedConfig configures the workload built for every Memcached.
type MemcachedConfig struct {
	// Image overrides the default memcached image.
	Image string `yaml:"image"`
}

// WatchConfig configures the dependent Deployment watch.
type WatchConfig struct {
	// RetryMaxAttempts is the total number of subscription attempts,
	// the first one included, before the watch is declared terminated.
	RetryMaxAttempts int `yaml:"retry_max_attempts"`

	// RetryInitialDelay is the first backoff between subscription attempts.
	RetryInitialDelay time.Duration `yaml:"retry_initial_delay"`

	// RetryMaxDelay caps the backoff between subscription attempts.
	RetryMaxDelay time.Duration `yaml:"retry_max_delay"`

	// EventBuffer is the capacity of the trigger channel feeding the controller.
	EventBuffer int `yaml:"event_buffer"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		MetricsBindAddress:      ":8080",
		HealthProbeBindAddress:  ":8081",
		LeaderElection:          true,
		LeaderElectionID:        "memcached-operator",
		MaxConcurrentReconciles: 1,
		EnableMetrics:           true,
		Watch: WatchConfig{
			RetryMaxAttempts:  5,
			RetryInitialDelay: 1 * time.Second,
			RetryMaxDelay:     30 * time.Second,
			EventBuffer:       256,
		},
	}
}
