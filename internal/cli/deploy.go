package cli

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/lvgdeploy/internal/cli/render"
	"github.com/trebuchet-org/lvgdeploy/internal/domain"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		argFlags []string
		verify   bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "deploy <variant> [network...]",
		Short: "Deploy Leverager to one or more networks",
		Long: `Deploy the Leverager contract with the given constructor variant.

Constructor arguments come from [networks.<id>.addresses] in lvgdeploy.toml and
can be overridden with --arg. Every network runs its own pipeline in parallel;
a failure on one network does not stop the others.`,
		Example: `  # Deploy with (lendingPool, provider) to fantom and optimism
  lvgdeploy deploy pool+provider fantom optimism

  # Deploy and verify on the explorer
  lvgdeploy deploy pool fantom --verify

  # Show the encoded constructor arguments without sending anything
  lvgdeploy deploy provider+weth metis --dry-run

  # Override an address
  lvgdeploy deploy pool avalanche --arg lending_pool=0x4F01AeD16D97E3aB5ab2B501154DC9bb0F1A5A2C`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			overrides, err := parseArgOverrides(argFlags)
			if err != nil {
				return err
			}

			networks := args[1:]
			if len(networks) == 0 {
				if app.Config.NonInteractive {
					return domain.NewError(domain.ErrUnknownNetwork, "no networks given", nil)
				}
				available, err := app.ListNetworks.Run(cmd.Context())
				if err != nil {
					return err
				}
				candidates := lo.FilterMap(available.Networks, func(s usecase.NetworkStatus, _ int) (*config.Network, bool) {
					return s.Network, s.HasRPC && s.CredentialAvailable
				})
				network, err := app.Selector.SelectNetwork(cmd.Context(), candidates, "Select network")
				if err != nil {
					return err
				}
				networks = []string{network.Name}
			}

			result, err := app.RunPipeline.Run(cmd.Context(), usecase.RunPipelineParams{
				Variant:   args[0],
				Networks:  networks,
				Overrides: overrides,
				Verify:    verify,
				DryRun:    dryRun,
			})
			if renderErr := render.NewPipelineRenderer(cmd.OutOrStdout()).Render(result); renderErr != nil && err == nil {
				return renderErr
			}
			return err
		},
	}

	cmd.Flags().StringArrayVar(&argFlags, "arg", nil, "Constructor argument override as name=value (repeatable)")
	cmd.Flags().BoolVar(&verify, "verify", false, "Verify each deployment on the network's block explorer")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and encode constructor arguments without deploying")

	return cmd
}
