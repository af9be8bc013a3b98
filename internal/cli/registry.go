package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-soroban/internal/cli/render"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// NewRegistryCmd creates the registry command group
func NewRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the contract address book",
	}
	cmd.AddCommand(newRegistryShowCmd())
	return cmd
}

func newRegistryShowCmd() *cobra.Command {
	var external string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List the contracts recorded for the active network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer app.Progress.Stop()

			result, err := app.ShowRegistry.Run(cmd.Context(), usecase.ShowRegistryParams{External: external})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			return render.NewRegistryRenderer(cmd.OutOrStdout()).RenderRegistry(result)
		},
	}

	cmd.Flags().StringVar(&external, "external", "", "Show a configured external registry instead")
	return cmd
}
