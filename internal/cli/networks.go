package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/lvgdeploy/internal/cli/render"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List networks configured in lvgdeploy.toml",
		Long: `List every network in lvgdeploy.toml with its chain id, whether its RPC
endpoint and signing credential are available, whether explorer
verification is configured, and how many deployments are recorded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewNetworksRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	return cmd
}
