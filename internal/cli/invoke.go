package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-soroban/internal/cli/render"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// NewInvokeCmd creates the invoke command
func NewInvokeCmd() *cobra.Command {
	var (
		args     []string
		signer   string
		simulate bool
	)

	cmd := &cobra.Command{
		Use:   "invoke <contract> <method>",
		Short: "Call a contract method",
		Long: `Call a method on a contract given by registry name or C... address.
With --simulate the call is only simulated and nothing is submitted.`,
		Example: `  treb-soroban invoke usdc_blend_strategy harvest --arg from=@admin
  treb-soroban invoke defindex_factory defindex_fee --simulate`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, positional []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer app.Progress.Stop()

			result, err := app.InvokeContract.Run(cmd.Context(), usecase.InvokeContractParams{
				Target:   positional[0],
				Method:   positional[1],
				Args:     args,
				Signer:   signer,
				Simulate: simulate,
			})
			if err != nil {
				return withSuggestion(cmd, app, err)
			}

			return output(cmd, app, result, func() {
				render.NewStepsRenderer(cmd.OutOrStdout()).RenderInvoke(result)
			})
		},
	}

	cmd.Flags().StringArrayVar(&args, "arg", nil, "Method argument as name=value (repeatable)")
	cmd.Flags().StringVar(&signer, "signer", "", "Signer to use (defaults to admin)")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "Simulate only, do not submit")
	return cmd
}
