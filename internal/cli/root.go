package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/lvgdeploy/internal/adapters/progress"
	"github.com/trebuchet-org/lvgdeploy/internal/app"
	"github.com/trebuchet-org/lvgdeploy/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// commands that run without a project
var projectless = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
	"variants":   true,
}

// commands whose output may be piped as json/yaml report no progress
var readOnly = map[string]bool{
	"list":     true,
	"networks": true,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lvgdeploy",
		Short: "Deploy and verify the Leverager contract across EVM networks",
		Long: `lvgdeploy deploys the Leverager contract with one of its constructor
variants to one or more configured networks, records every deployment in
addresses.json and verifies the source on the network's block explorer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if projectless[cmd.Name()] {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			sink := progress.NewNopSink()
			if !readOnly[cmd.Name()] {
				interactive := !v.GetBool("non_interactive") && term.IsTerminal(int(os.Stderr.Fd()))
				sink = progress.NewPipelineProgress(cmd.ErrOrStderr(), interactive)
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Skip the deployment confirmation")
	rootCmd.PersistentFlags().String("config", "", "Path to lvgdeploy.toml (defaults to the project root)")
	rootCmd.PersistentFlags().Duration("deploy-timeout", 5*time.Minute, "Maximum wait for a deployment receipt")
	rootCmd.PersistentFlags().Duration("verify-timeout", 5*time.Minute, "Maximum wait for explorer verification")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	verifyCmd := NewVerifyCmd()
	verifyCmd.GroupID = "main"
	rootCmd.AddCommand(verifyCmd)

	listCmd := NewListCmd()
	listCmd.GroupID = "main"
	rootCmd.AddCommand(listCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	variantsCmd := NewVariantsCmd()
	variantsCmd.GroupID = "management"
	rootCmd.AddCommand(variantsCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
