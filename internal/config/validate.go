package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration. All problems are reported at once.
func (c *Config) Validate() error {
	var errs []error

	if c.MetricsBindAddress == "" {
		errs = append(errs, errors.New("metrics_bind_address is required (use \"0\" to disable)"))
	}
	if c.LeaderElection && c.LeaderElectionID == "" {
		errs = append(errs, errors.New("leader_election_id is required when leader election is enabled"))
	}
	if c.MaxConcurrentReconciles < 1 {
		errs = append(errs, fmt.Errorf("max_concurrent_reconciles must be at least 1, got %d", c.MaxConcurrentReconciles))
	}
	if err := c.Watch.validate(); err != nil {
		errs = append(errs, fmt.Errorf("watch: %w", err))
	}

	return errors.Join(errs...)
}

func (w *WatchConfig) validate() error {
	var errs []error

	if w.RetryMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry_max_attempts must be at least 1, got %d", w.RetryMaxAttempts))
	}
	if w.RetryInitialDelay < 0 {
		errs = append(errs, fmt.Errorf("retry_initial_delay must not be negative, got %s", w.RetryInitialDelay))
	}
	if w.RetryMaxDelay < w.RetryInitialDelay {
		errs = append(errs, fmt.Errorf("retry_max_delay (%s) must not be smaller than retry_initial_delay (%s)", w.RetryMaxDelay, w.RetryInitialDelay))
	}
	if w.EventBuffer < 1 {
		errs = append(errs, fmt.Errorf("event_buffer must be at least 1, got %d", w.EventBuffer))
	}

	return errors.Join(errs...)
}
