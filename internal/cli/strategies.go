package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-soroban/internal/cli/render"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// NewStrategiesCmd creates the strategies command group
func NewStrategiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "Resolve and deploy yield strategies for an asset",
	}
	cmd.AddCommand(newStrategiesResolveCmd(), newStrategiesDeployCmd())
	return cmd
}

func addKindFlag(cmd *cobra.Command, kinds *[]string) {
	cmd.Flags().StringSliceVar(kinds, "kind", nil, "Strategy kinds to include: hodl, fixed-apr, blend (defaults to all)")
}

func newStrategiesResolveCmd() *cobra.Command {
	var kinds []string

	cmd := &cobra.Command{
		Use:   "resolve <asset>",
		Short: "Show the strategies that would be deployed",
		Long: `Resolve strategy parameters for an asset from the local registry and the
configured external registry without contacting the network.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer app.Progress.Stop()

			plan, err := app.DeployStrategies.Resolve(cmd.Context(), usecase.DeployStrategiesParams{
				Asset: args[0],
				Kinds: usecase.StrategyKindsOrDefault(kinds),
			})
			if err != nil {
				return withSuggestion(cmd, app, err)
			}

			return output(cmd, app, plan, func() {
				render.NewStrategiesRenderer(cmd.OutOrStdout()).RenderPlan(plan)
			})
		},
	}

	addKindFlag(cmd, &kinds)
	return cmd
}

func newStrategiesDeployCmd() *cobra.Command {
	var (
		kinds  []string
		signer string
	)

	cmd := &cobra.Command{
		Use:   "deploy <asset>",
		Short: "Install and deploy strategies for an asset",
		Long: `Resolve strategy parameters for an asset, then install and deploy each
strategy contract in order, recording it under <asset>_<kind>_strategy.`,
		Example: `  treb-soroban strategies deploy usdc --kind hodl --kind blend -n testnet`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer app.Progress.Stop()

			result, err := app.DeployStrategies.Run(cmd.Context(), usecase.DeployStrategiesParams{
				Asset:  args[0],
				Kinds:  usecase.StrategyKindsOrDefault(kinds),
				Signer: signer,
			})
			if err != nil {
				return withSuggestion(cmd, app, err)
			}

			return output(cmd, app, result, func() {
				out := cmd.OutOrStdout()
				render.NewStrategiesRenderer(out).RenderPlan(result.Plan)
				fmt.Fprintln(out)
				render.NewStepsRenderer(out).RenderSteps(result.Steps)
				fmt.Fprintln(out, render.FormatSuccess(fmt.Sprintf("Deployed %d strategies for %s", len(result.Plan.Strategies), result.Plan.Asset)))
			})
		},
	}

	addKindFlag(cmd, &kinds)
	cmd.Flags().StringVar(&signer, "signer", "", "Signer to use (defaults to admin)")
	return cmd
}
