package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_EmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile_OverridesOnlyGivenKeys(t *testing.T) {
	path := writeConfig(t, `
metrics_bind_address: ":9090"
max_concurrent_reconciles: 4
memcached:
  image: registry.local/memcached:1.6
watch:
  retry_initial_delay: 250ms
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.MetricsBindAddress)
	assert.Equal(t, 4, cfg.MaxConcurrentReconciles)
	assert.Equal(t, "registry.local/memcached:1.6", cfg.Memcached.Image)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.RetryInitialDelay)

	// untouched keys keep their defaults
	assert.Equal(t, ":8081", cfg.HealthProbeBindAddress)
	assert.True(t, cfg.LeaderElection)
	assert.Equal(t, "memcached-operator", cfg.LeaderElectionID)
	assert.Equal(t, 256, cfg.Watch.EventBuffer)
}

func TestLoadFile_DisableLeaderElection(t *testing.T) {
	path := writeConfig(t, "leader_election: false\nleader_election_id: \"\"\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.False(t, cfg.LeaderElection)
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			wantErr: "failed to read config file",
		},
		{
			name:    "invalid yaml",
			path:    func(t *testing.T) string { return writeConfig(t, "metrics_bind_address: [unterminated") },
			wantErr: "failed to unmarshal yaml",
		},
		{
			name:    "invalid values",
			path:    func(t *testing.T) string { return writeConfig(t, "max_concurrent_reconciles: 0\n") },
			wantErr: "configuration validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(tt.path(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile_EnvWinsOverFile(t *testing.T) {
	path := writeConfig(t, "memcached:\n  image: from-file\n")
	t.Setenv(EnvImage, "from-env")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Memcached.Image)
}
