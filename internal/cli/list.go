package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/lvgdeploy/internal/cli/render"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		network      string
		contractName string
		variant      string
		format       string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List deployments from addresses.json",
		Long: `List every recorded deployment with its latest verification status.

The list can be filtered by network, contract name or constructor variant.`,
		Example: `  # List all deployments
  lvgdeploy list

  # List fantom deployments as JSON
  lvgdeploy list --network fantom --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			outFormat, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

			result, err := app.ListDeployments.Run(cmd.Context(), usecase.DeploymentFilter{
				NetworkID:    network,
				ContractName: contractName,
				Variant:      models.Variant(variant),
			})
			if err != nil {
				return err
			}

			return render.NewDeploymentsRenderer(cmd.OutOrStdout(), outFormat).Render(result)
		},
	}

	cmd.Flags().StringVar(&network, "network", "", "Filter by network")
	cmd.Flags().StringVar(&contractName, "contract", "", "Filter by contract name")
	cmd.Flags().StringVar(&variant, "variant", "", "Filter by constructor variant")
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")

	return cmd
}
