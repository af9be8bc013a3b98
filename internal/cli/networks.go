package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-soroban/internal/cli/render"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	var skipHealth bool

	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List configured networks",
		Long: `List the built-in and configured networks and check that each RPC
endpoint answers getHealth. The active network is marked with *.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer app.Progress.Stop()

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{SkipHealth: skipHealth})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), networksJSON(result))
			}
			return render.NewNetworksRenderer(cmd.OutOrStdout()).RenderNetworksList(result)
		},
	}

	cmd.Flags().BoolVar(&skipHealth, "skip-health", false, "Only list configuration, do not contact RPC endpoints")
	return cmd
}

type networkJSON struct {
	Name         string `json:"name"`
	Active       bool   `json:"active"`
	RPCURL       string `json:"rpcUrl"`
	Passphrase   string `json:"passphrase"`
	HasFriendbot bool   `json:"friendbot"`
	Health       string `json:"health,omitempty"`
	LatestLedger uint32 `json:"latestLedger,omitempty"`
	Error        string `json:"error,omitempty"`
}

// networksJSON flattens statuses; error values do not marshal on their own
func networksJSON(result *usecase.ListNetworksResult) []networkJSON {
	out := make([]networkJSON, 0, len(result.Networks))
	for _, n := range result.Networks {
		entry := networkJSON{
			Name:         n.Name,
			Active:       n.Name == result.Active,
			RPCURL:       n.RPCURL,
			Passphrase:   n.Passphrase,
			HasFriendbot: n.HasFriendbot,
			Health:       n.Health,
			LatestLedger: n.LatestLedger,
		}
		if n.Error != nil {
			entry.Error = n.Error.Error()
		}
		out = append(out, entry)
	}
	return out
}
