package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// StrategiesRenderer renders resolved strategy plans
type StrategiesRenderer struct {
	out io.Writer
}

// NewStrategiesRenderer creates a new strategies renderer
func NewStrategiesRenderer(out io.Writer) *StrategiesRenderer {
	return &StrategiesRenderer{out: out}
}

// RenderPlan renders the strategies that would be deployed for an asset
func (r *StrategiesRenderer) RenderPlan(plan *usecase.StrategyPlan) {
	fmt.Fprintln(r.out, headerStyle.Sprintf("🧮 Strategies for %s", plan.Asset))
	fmt.Fprintf(r.out, "  Asset: %s (%s)\n\n", addressStyle.Sprint(plan.AssetAddress), plan.AssetKey)

	t := newTable(table.Row{"Strategy", "Kind", "Wasm"})
	for _, s := range plan.Strategies {
		t.AppendRow(table.Row{s.Name, titleCaser.String(string(s.InitArgs.Kind())), s.WasmKey})
	}
	renderTable(r.out, t)
}
