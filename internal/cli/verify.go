package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/lvgdeploy/internal/cli/render"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var argFlags []string

	cmd := &cobra.Command{
		Use:   "verify <network> <address>",
		Short: "Verify a recorded deployment on the block explorer",
		Long: `Verify the source of a deployment recorded in addresses.json.

The constructor arguments are taken from the ledger. Any --arg given must
match the recorded value, otherwise verification is refused. A deployment
that is already verified is reported without contacting the explorer.`,
		Example: `  lvgdeploy verify fantom 0x5fbdb2315678afecb367f032d93f642f64180aa3`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			overrides, err := parseArgOverrides(argFlags)
			if err != nil {
				return err
			}

			result, err := app.VerifyDeployment.VerifyAddress(cmd.Context(), usecase.VerifyAddressParams{
				NetworkID: args[0],
				Address:   args[1],
				Overrides: overrides,
			})
			if err != nil {
				return err
			}

			if err := render.NewVerifyRenderer(cmd.OutOrStdout()).Render(args[0], result); err != nil {
				return err
			}
			return usecase.VerificationError(args[0], result)
		},
	}

	cmd.Flags().StringArrayVar(&argFlags, "arg", nil, "Expected constructor argument as name=value (repeatable)")

	return cmd
}
