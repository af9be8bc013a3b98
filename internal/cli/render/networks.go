package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// RenderNetworksList renders the configured networks and their health
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, headerStyle.Sprint("🌐 Available Networks:"))
	fmt.Fprintln(r.out)

	t := newTable(table.Row{"", "Network", "RPC", "Friendbot", "Health"})
	for _, network := range result.Networks {
		marker := " "
		if network.Name == result.Active {
			marker = "*"
		}

		friendbot := faintStyle.Sprint("no")
		if network.HasFriendbot {
			friendbot = "yes"
		}

		var health string
		switch {
		case network.Error != nil:
			health = failStyle.Sprintf("❌ %v", network.Error)
		case network.Health == "":
			health = faintStyle.Sprint("unchecked")
		default:
			health = okStyle.Sprintf("✅ %s (ledger %d)", network.Health, network.LatestLedger)
		}

		t.AppendRow(table.Row{marker, network.Name, orDash(network.RPCURL), friendbot, health})
	}
	renderTable(r.out, t)
	return nil
}
