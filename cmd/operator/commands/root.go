// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"flag"
	"os"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Root returns the root command for the memcached-operator.
//
// Invoked without a subcommand it runs the operator, so the container
// entrypoint needs no arguments.
func Root() *cobra.Command {
	zapOpts := zap.Options{
		Development: os.Getenv("DEBUG") == "true",
	}

	cmd := Run()
	cmd.Use = "memcached-operator"
	cmd.Short = "Kubernetes operator for memcached clusters"
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	goFlags := flag.NewFlagSet("zap", flag.ContinueOnError)
	zapOpts.BindFlags(goFlags)
	cmd.PersistentFlags().AddGoFlagSet(goFlags)

	cmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		ctrl.SetLogger(zap.New(zap.UseFlagOptions(&zapOpts)))
	}

	cmd.AddCommand(Run())
	cmd.AddCommand(Render())
	cmd.AddCommand(Version())

	return cmd
}
