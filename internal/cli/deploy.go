package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-soroban/internal/cli/render"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		wasm       string
		args       []string
		initMethod string
		initArgs   []string
		signer     string
	)

	cmd := &cobra.Command{
		Use:   "deploy <name>",
		Short: "Install, deploy and initialize a contract",
		Long: `Deploy a contract instance and record its address under <name>.

The code is installed first when the registry has no hash for it. With --init
the named method is called once after deployment; the call is skipped when the
registry already records the contract as initialized.

Argument values are typed by prefix: @name resolves a registry entry, numbers
become i128, true/false become bools, G/C addresses become addresses and
anything else is passed as a string.`,
		Example: `  treb-soroban deploy defindex_factory --init initialize \
      --init-arg admin=@admin --init-arg defindex_fee=2000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer app.Progress.Stop()

			ctorArgs, err := usecase.SplitAssignments(args)
			if err != nil {
				return err
			}
			callArgs, err := usecase.SplitAssignments(initArgs)
			if err != nil {
				return err
			}
			if len(callArgs) > 0 && initMethod == "" {
				return fmt.Errorf("--init-arg requires --init")
			}

			result, err := app.DeployContract.Run(cmd.Context(), usecase.DeployContractParams{
				Name:       positional[0],
				Wasm:       wasm,
				Args:       ctorArgs,
				InitMethod: initMethod,
				InitArgs:   callArgs,
				Signer:     signer,
			})
			if err != nil {
				return withSuggestion(cmd, app, err)
			}

			return output(cmd, app, result, func() {
				render.NewStepsRenderer(cmd.OutOrStdout()).RenderSteps(result.Steps)
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("%s deployed at %s", positional[0], result.ContractID)))
			})
		},
	}

	cmd.Flags().StringVar(&wasm, "wasm", "", "Registry name of the code to deploy (defaults to <name>)")
	cmd.Flags().StringArrayVar(&args, "arg", nil, "Constructor argument as name=value (repeatable)")
	cmd.Flags().StringVar(&initMethod, "init", "", "Method to call once after deployment")
	cmd.Flags().StringArrayVar(&initArgs, "init-arg", nil, "Init argument as name=value (repeatable)")
	cmd.Flags().StringVar(&signer, "signer", "", "Signer to use (defaults to admin)")
	return cmd
}
