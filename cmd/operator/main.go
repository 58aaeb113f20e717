// Package main is the entrypoint for the memcached-operator.
//
// The operator reconciles Memcached custom resources into a Deployment of
// memcached pods and reports the pods backing each instance in its status.
//
// For detailed usage information, run:
//
//	memcached-operator --help
package main

import (
	"fmt"
	"os"

	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/imamik/memcached-operator/cmd/operator/commands"
	"github.com/imamik/memcached-operator/internal/operator/eventsource"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes.
const (
	exitOK              = 0
	exitError           = 1
	exitWatchTerminated = 2
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	err := commands.Root().ExecuteContext(ctrl.SetupSignalHandler())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a run error to the process exit status. A terminated
// dependent watch gets its own code so supervisors can tell it apart.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case eventsource.IsTerminated(err):
		return exitWatchTerminated
	default:
		return exitError
	}
}
