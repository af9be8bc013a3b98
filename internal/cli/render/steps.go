package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// StepsRenderer renders lifecycle step outcomes and invocation results
type StepsRenderer struct {
	out io.Writer
}

// NewStepsRenderer creates a new steps renderer
func NewStepsRenderer(out io.Writer) *StepsRenderer {
	return &StepsRenderer{out: out}
}

// RenderSteps renders the outcome of each lifecycle step
func (r *StepsRenderer) RenderSteps(steps []*usecase.StepResult) {
	if len(steps) == 0 {
		fmt.Fprintln(r.out, "Nothing to do")
		return
	}

	t := newTable(table.Row{"Step", "Name", "Result", "Value"})
	for _, step := range steps {
		outcome := okStyle.Sprint("done")
		switch {
		case step.Skipped:
			outcome = skippedStyle.Sprint("skipped")
		case step.Attempts > 1:
			outcome = okStyle.Sprintf("done (%d attempts)", step.Attempts)
		}
		t.AppendRow(table.Row{titleCaser.String(string(step.Op)), step.Name, outcome, orDash(step.Value)})
	}
	renderTable(r.out, t)
}

// RenderInvoke renders the result of a contract call
func (r *StepsRenderer) RenderInvoke(result *models.InvokeResult) {
	verb := "Invoked"
	if result.Simulated {
		verb = "Simulated"
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s %s on %s", verb, result.Method, result.ContractID)))

	if result.Hash != "" {
		fmt.Fprintf(r.out, "  Transaction: %s\n", result.Hash)
	}
	if result.MinResourceFee != "" {
		fmt.Fprintf(r.out, "  Min resource fee: %s stroops\n", result.MinResourceFee)
	}
	switch {
	case len(result.ReturnValue) > 0:
		fmt.Fprintf(r.out, "  Returned: %s\n", strings.TrimSpace(string(result.ReturnValue)))
	case result.ReturnXDR != "":
		fmt.Fprintf(r.out, "  Returned (xdr): %s\n", result.ReturnXDR)
	}
}

// RenderPlan renders a plan's components in execution order
func (r *StepsRenderer) RenderPlan(plan *models.ExecutionPlan) {
	fmt.Fprintln(r.out, headerStyle.Sprintf("📋 Plan %s (%d components)", plan.Group, len(plan.Steps)))
	fmt.Fprintln(r.out)

	t := newTable(table.Row{"#", "Component", "Wasm", "Depends On"})
	for i, step := range plan.Steps {
		wasm := step.Component.WasmKey(step.Name)
		if step.Component.Address != "" {
			wasm = faintStyle.Sprint("external")
		}
		t.AppendRow(table.Row{i + 1, step.Name, wasm, orDash(strings.Join(step.Dependencies, ", "))})
	}
	renderTable(r.out, t)
}
