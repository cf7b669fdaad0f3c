package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/lvgdeploy/internal/cli/render"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
)

// NewVariantsCmd lists the supported constructor variants
func NewVariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the Leverager constructor variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render.RenderVariants(cmd.OutOrStdout(), models.Variants())
		},
	}
}
