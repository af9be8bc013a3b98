package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-soroban/internal/cli/render"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// NewPlanCmd creates the plan command group
func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run multi-contract deployment plans",
	}
	cmd.AddCommand(newPlanRunCmd())
	return cmd
}

func newPlanRunCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run <plan.yaml>",
		Short: "Deploy every component of a plan in dependency order",
		Long: `Load a YAML plan, order its components by their dependencies and run the
install, deploy, init and invoke steps of each. Completed steps recorded in
the registry are skipped, so an interrupted plan can simply be run again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer app.Progress.Stop()

			result, err := app.RunPlan.Run(cmd.Context(), usecase.RunPlanParams{Path: args[0], DryRun: dryRun})
			if err != nil {
				return withSuggestion(cmd, app, err)
			}

			return output(cmd, app, result, func() {
				out := cmd.OutOrStdout()
				steps := render.NewStepsRenderer(out)
				steps.RenderPlan(result.Plan)
				if dryRun {
					fmt.Fprintln(out, render.FormatWarning("Dry run: nothing was submitted"))
					return
				}
				fmt.Fprintln(out)
				steps.RenderSteps(result.Steps)
				for _, invoke := range result.Invokes {
					steps.RenderInvoke(invoke)
				}
				fmt.Fprintln(out, render.FormatSuccess(fmt.Sprintf("Plan %s complete on %s", result.Plan.Group, app.Config.Network.Name)))
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only load and order the plan")
	return cmd
}
