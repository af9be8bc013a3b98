package models

import (
	"fmt"
	"sort"
)

// PlanConfig is a declarative deployment plan loaded from YAML
type PlanConfig struct {
	Group      string                      `yaml:"group"`
	Components map[string]*ComponentConfig `yaml:"components"`
}

// ComponentConfig describes one contract in the plan. A component either
// references a foreign contract by Address, or is built from Wasm and
// optionally deployed and initialized.
type ComponentConfig struct {
	Wasm        string            `yaml:"wasm,omitempty"`
	Address     string            `yaml:"address,omitempty"`
	InstallOnly bool              `yaml:"install_only,omitempty"`
	Signer      string            `yaml:"signer,omitempty"`
	Args        map[string]string `yaml:"args,omitempty"`
	Init        *CallConfig       `yaml:"init,omitempty"`
	Invoke      []*CallConfig     `yaml:"invoke,omitempty"`
	Deps        []string          `yaml:"deps,omitempty"`
}

// CallConfig is a contract call with raw, unresolved arguments.
// Invoke calls are not tracked in the registry and run on every plan run.
type CallConfig struct {
	Method   string            `yaml:"method"`
	Args     map[string]string `yaml:"args,omitempty"`
	Signer   string            `yaml:"signer,omitempty"`
	Simulate bool              `yaml:"simulate,omitempty"`
}

// ExecutionPlan is the linearized plan
type ExecutionPlan struct {
	Group string
	Steps []*PlanStep
}

// PlanStep is a single component in execution order
type PlanStep struct {
	Name         string
	Component    *ComponentConfig
	Dependencies []string
}

// WasmKey is the registry name of the code the component deploys from
func (c *ComponentConfig) WasmKey(name string) string {
	if c.Wasm != "" {
		return c.Wasm
	}
	return name
}

// IsForeign reports whether the component only records an existing address
func (c *ComponentConfig) IsForeign() bool {
	return c.Address != ""
}

// Validate checks the plan for structural errors
func (p *PlanConfig) Validate() error {
	if p.Group == "" {
		return fmt.Errorf("group name is required")
	}

	if len(p.Components) == 0 {
		return fmt.Errorf("at least one component is required")
	}

	for name, component := range p.Components {
		if component == nil {
			return fmt.Errorf("component '%s' is empty", name)
		}

		if component.IsForeign() {
			if component.Wasm != "" || component.InstallOnly || len(component.Args) > 0 || component.Init != nil {
				return fmt.Errorf("component '%s' has an address and cannot also be built or deployed", name)
			}
		}

		if component.InstallOnly && component.Init != nil {
			return fmt.Errorf("component '%s' is install_only and cannot be initialized", name)
		}

		if component.Init != nil && len(component.Args) > 0 {
			return fmt.Errorf("component '%s' has constructor args and an init call; use one or the other", name)
		}

		if component.Init != nil && component.Init.Method == "" {
			return fmt.Errorf("component '%s' init must specify a method", name)
		}

		for i, call := range component.Invoke {
			if call == nil || call.Method == "" {
				return fmt.Errorf("component '%s' invoke[%d] must specify a method", name, i)
			}
			if component.InstallOnly {
				return fmt.Errorf("component '%s' is install_only and cannot be invoked", name)
			}
		}

		for _, dep := range component.Deps {
			if dep == name {
				return fmt.Errorf("component '%s' cannot depend on itself", name)
			}

			if _, exists := p.Components[dep]; !exists {
				return fmt.Errorf("component '%s' depends on non-existent component '%s'", name, dep)
			}
		}
	}

	return nil
}

// TopologicalSort orders components so every dependency runs first.
// Ties are broken alphabetically for deterministic output.
func (p *PlanConfig) TopologicalSort() (*ExecutionPlan, error) {
	inDegree := make(map[string]int, len(p.Components))
	dependents := make(map[string][]string)
	for name, component := range p.Components {
		inDegree[name] += 0
		for _, dep := range component.Deps {
			if _, exists := p.Components[dep]; !exists {
				return nil, fmt.Errorf("component '%s' depends on non-existent component '%s'", name, dep)
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	plan := &ExecutionPlan{Group: p.Group}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		component := p.Components[current]
		plan.Steps = append(plan.Steps, &PlanStep{
			Name:         current,
			Component:    component,
			Dependencies: component.Deps,
		})

		next := dependents[current]
		sort.Strings(next)
		for _, dependent := range next {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
				sort.Strings(queue)
			}
		}
	}

	if len(plan.Steps) != len(p.Components) {
		var cycle []string
		for name, degree := range inDegree {
			if degree > 0 {
				cycle = append(cycle, name)
			}
		}
		sort.Strings(cycle)
		return nil, fmt.Errorf("circular dependency detected involving components: %v", cycle)
	}

	return plan, nil
}
