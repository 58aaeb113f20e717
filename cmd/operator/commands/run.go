package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/imamik/memcached-operator/cmd/operator/handlers"
	"github.com/imamik/memcached-operator/internal/config"
)

// Flag names of the run command.
const (
	flagConfig                  = "config"
	flagMetricsBindAddress      = "metrics-bind-address"
	flagHealthProbeBindAddress  = "health-probe-bind-address"
	flagLeaderElect             = "leader-elect"
	flagLeaderElectionID        = "leader-election-id"
	flagMaxConcurrentReconciles = "max-concurrent-reconciles"
	flagImage                   = "image"
	flagEnableMetrics           = "enable-metrics"
)

// runFlags holds flag values. Only flags set on the command line override
// the configuration file.
type runFlags struct {
	configPath              string
	metricsBindAddress      string
	healthProbeBindAddress  string
	leaderElect             bool
	leaderElectionID        string
	maxConcurrentReconciles int
	image                   string
	enableMetrics           bool
}

// Run returns the command that starts the controller manager.
//
// Optional flags:
//
//	--config: Path to an operator configuration YAML file
//	--metrics-bind-address, --health-probe-bind-address
//	--leader-elect, --leader-election-id
//	--max-concurrent-reconciles, --image, --enable-metrics
func Run() *cobra.Command {
	return newRunCommand(&runFlags{})
}

func newRunCommand(f *runFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the operator",
		Long: `Start the controller manager reconciling Memcached resources.

Configuration is read from defaults, the optional --config file and the
MEMCACHED_* environment variables. Flags given on the command line win.

The process exits with status 2 when the dependent Deployment watch fails
with an unrecoverable error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Run(cmd.Context(), handlers.RunOptions{
				ConfigPath: f.configPath,
				Overrides:  f.overrides(cmd.Flags()),
			})
		},
	}

	defaults := config.Default()
	fs := cmd.Flags()
	fs.StringVar(&f.configPath, flagConfig, "", "Path to operator configuration file")
	fs.StringVar(&f.metricsBindAddress, flagMetricsBindAddress, defaults.MetricsBindAddress, "The address the metric endpoint binds to.")
	fs.StringVar(&f.healthProbeBindAddress, flagHealthProbeBindAddress, defaults.HealthProbeBindAddress, "The address the probe endpoint binds to.")
	fs.BoolVar(&f.leaderElect, flagLeaderElect, defaults.LeaderElection, "Enable leader election for controller manager.")
	fs.StringVar(&f.leaderElectionID, flagLeaderElectionID, defaults.LeaderElectionID, "The name of the leader election resource.")
	fs.IntVar(&f.maxConcurrentReconciles, flagMaxConcurrentReconciles, defaults.MaxConcurrentReconciles, "Number of Memcached resources reconciled in parallel.")
	fs.StringVar(&f.image, flagImage, "", "Override the memcached image.")
	fs.BoolVar(&f.enableMetrics, flagEnableMetrics, defaults.EnableMetrics, "Record operator Prometheus metrics.")

	return cmd
}

// overrides returns a function applying every explicitly set flag.
func (f *runFlags) overrides(fs *pflag.FlagSet) func(*config.Config) {
	return func(cfg *config.Config) {
		if fs.Changed(flagMetricsBindAddress) {
			cfg.MetricsBindAddress = f.metricsBindAddress
		}
		if fs.Changed(flagHealthProbeBindAddress) {
			cfg.HealthProbeBindAddress = f.healthProbeBindAddress
		}
		if fs.Changed(flagLeaderElect) {
			cfg.LeaderElection = f.leaderElect
		}
		if fs.Changed(flagLeaderElectionID) {
			cfg.LeaderElectionID = f.leaderElectionID
		}
		if fs.Changed(flagMaxConcurrentReconciles) {
			cfg.MaxConcurrentReconciles = f.maxConcurrentReconciles
		}
		if fs.Changed(flagImage) {
			cfg.Memcached.Image = f.image
		}
		if fs.Changed(flagEnableMetrics) {
			cfg.EnableMetrics = f.enableMetrics
		}
	}
}
