// Command analyticsctl computes reports from a dataset export and manages
// the pieces the worker manager depends on.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	logLevel string
	registry string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "analyticsctl",
		Short:         "Placement analytics tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.registry, "registry", "configs/activity-registry.json", "path to the activity registry")

	root.AddCommand(
		newReportCmd(opts),
		newRegistryCmd(opts),
		newCacheCmd(opts),
	)
	return root
}
