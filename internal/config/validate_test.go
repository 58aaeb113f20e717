package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		wantErrs []string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:     "empty metrics address",
			mutate:   func(c *Config) { c.MetricsBindAddress = "" },
			wantErrs: []string{"metrics_bind_address is required"},
		},
		{
			name:     "leader election without id",
			mutate:   func(c *Config) { c.LeaderElectionID = "" },
			wantErrs: []string{"leader_election_id is required"},
		},
		{
			name: "no id needed without leader election",
			mutate: func(c *Config) {
				c.LeaderElection = false
				c.LeaderElectionID = ""
			},
		},
		{
			name:     "zero concurrency",
			mutate:   func(c *Config) { c.MaxConcurrentReconciles = 0 },
			wantErrs: []string{"max_concurrent_reconciles must be at least 1"},
		},
		{
			name: "watch settings",
			mutate: func(c *Config) {
				c.Watch.RetryMaxAttempts = 0
				c.Watch.RetryInitialDelay = time.Minute
				c.Watch.RetryMaxDelay = time.Second
				c.Watch.EventBuffer = 0
			},
			wantErrs: []string{
				"watch: retry_max_attempts must be at least 1",
				"retry_max_delay (1s) must not be smaller than retry_initial_delay (1m0s)",
				"event_buffer must be at least 1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if len(tt.wantErrs) == 0 {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				for _, want := range tt.wantErrs {
					assert.Contains(t, err.Error(), want)
				}
			}
		})
	}
}
