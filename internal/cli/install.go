package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-soroban/internal/cli/render"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// NewInstallCmd creates the install command
func NewInstallCmd() *cobra.Command {
	var signer string

	cmd := &cobra.Command{
		Use:   "install <contract>...",
		Short: "Upload contract code",
		Long: `Upload compiled contract code and record its wasm hash in the registry.
Contracts whose recorded hash matches the artifact are skipped.`,
		Example: `  treb-soroban install defindex_vault defindex_factory -n testnet`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer app.Progress.Stop()

			result, err := app.InstallContracts.Run(cmd.Context(), usecase.InstallContractsParams{
				Names:  args,
				Signer: signer,
			})
			if err != nil {
				return err
			}

			return output(cmd, app, result, func() {
				render.NewStepsRenderer(cmd.OutOrStdout()).RenderSteps(result.Steps)
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Installed %d contract(s) on %s", len(args), app.Config.Network.Name)))
			})
		},
	}

	cmd.Flags().StringVar(&signer, "signer", "", "Signer to pay for the upload (defaults to admin)")
	return cmd
}
