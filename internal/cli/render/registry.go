package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// RegistryRenderer renders registry listings
type RegistryRenderer struct {
	out io.Writer
}

// NewRegistryRenderer creates a new registry renderer
func NewRegistryRenderer(out io.Writer) *RegistryRenderer {
	return &RegistryRenderer{out: out}
}

// RenderRegistry renders one registry as a table of entries
func (r *RegistryRenderer) RenderRegistry(result *usecase.ShowRegistryResult) error {
	fmt.Fprintln(r.out, headerStyle.Sprintf("📒 %s registry (%s)", result.Source, result.Network))
	fmt.Fprintln(r.out)

	if len(result.Entries) == 0 {
		fmt.Fprintln(r.out, "No contracts recorded")
		return nil
	}

	t := newTable(table.Row{"Name", "State", "Contract", "Wasm Hash"})
	for _, entry := range result.Entries {
		t.AppendRow(table.Row{
			entry.Name,
			stateLabel(entry.State),
			orDash(addressStyle.Sprint(entry.ContractID)),
			orDash(entry.WasmHash),
		})
	}
	renderTable(r.out, t)
	return nil
}

func stateLabel(state models.DeploymentState) string {
	label := titleCaser.String(string(state))
	switch state {
	case models.StateInitialized:
		return okStyle.Sprint(label)
	case models.StateForeign:
		return faintStyle.Sprint(label)
	case models.StateInstalled:
		return skippedStyle.Sprint(label)
	default:
		return label
	}
}
