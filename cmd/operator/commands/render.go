package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/memcached-operator/cmd/operator/handlers"
)

// Render returns the command printing the Deployment the operator would
// create for a Memcached.
//
// Required flags:
//
//	--name: Name of the Memcached
//
// Optional flags:
//
//	--namespace, --size, --uid, --image
func Render() *cobra.Command {
	opts := handlers.RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the Deployment built for a Memcached",
		Long: `Print the Deployment the operator creates for a Memcached, as YAML.

Examples:
  # Render the deployment for a three node cluster
  memcached-operator render --name example --size 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Render(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Name of the Memcached")
	cmd.Flags().StringVarP(&opts.Namespace, "namespace", "n", "default", "Namespace of the Memcached")
	cmd.Flags().Int32Var(&opts.Size, "size", 1, "Desired number of memcached pods")
	cmd.Flags().StringVar(&opts.UID, "uid", "", "UID of the Memcached (default: random)")
	cmd.Flags().StringVar(&opts.Image, "image", "", "Override the memcached image")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
