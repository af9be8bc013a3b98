package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-soroban/internal/cli/render"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// NewFundCmd creates the fund command
func NewFundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fund [address|signer]",
		Short: "Fund a test account from friendbot",
		Long: `Fund an account from the network's friendbot. The target is a G... address
or a configured signer name; it defaults to the admin signer. Accounts that
already exist count as funded. Refused on mainnet.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer app.Progress.Stop()

			target := "admin"
			if len(args) == 1 {
				target = args[0]
			}

			result, err := app.FundAccount.Run(cmd.Context(), usecase.FundAccountParams{Target: target})
			if err != nil {
				return err
			}

			return output(cmd, app, result, func() {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Funded %s on %s", result.Address, app.Config.Network.Name)))
			})
		},
	}
}
