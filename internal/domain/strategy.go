package domain

import (
	"fmt"
	"strings"
)

// StrategyKind is one of the supported yield-source adapters
type StrategyKind string

const (
	StrategyHodl     StrategyKind = "HODL"
	StrategyFixedApr StrategyKind = "FIXED_APR"
	StrategyBlend    StrategyKind = "BLEND"
)

// AllStrategyKinds lists the kinds in their canonical order
var AllStrategyKinds = []StrategyKind{StrategyHodl, StrategyFixedApr, StrategyBlend}

// ParseStrategyKind accepts upper, lower or dashed spellings ("fixed-apr").
func ParseStrategyKind(s string) (StrategyKind, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	switch StrategyKind(normalized) {
	case StrategyHodl, StrategyFixedApr, StrategyBlend:
		return StrategyKind(normalized), nil
	}
	return "", fmt.Errorf("%w: unknown strategy kind '%s' (expected hodl, fixed_apr or blend)", ErrConfig, s)
}

// WasmKey is the registry name of the installed code for this kind.
func (k StrategyKind) WasmKey() string {
	return strings.ToLower(string(k)) + "_strategy"
}

// InitArgs is the closed set of strategy initialization arguments.
// Each variant owns its wire encoding.
type InitArgs interface {
	Kind() StrategyKind
	Encode() []ScVal
	isInitArgs()
}

// HodlArgs initializes a passive strategy with an empty allocation list.
type HodlArgs struct{}

func (HodlArgs) Kind() StrategyKind { return StrategyHodl }
func (HodlArgs) Encode() []ScVal    { return []ScVal{} }
func (HodlArgs) isInitArgs()        {}

// FixedAprArgs initializes a fixed-rate strategy.
type FixedAprArgs struct {
	RateBps uint32
}

func (FixedAprArgs) Kind() StrategyKind { return StrategyFixedApr }
func (a FixedAprArgs) Encode() []ScVal  { return []ScVal{U32(a.RateBps)} }
func (FixedAprArgs) isInitArgs()        {}

// BlendArgs wires a strategy to an external lending pool and its reward token.
type BlendArgs struct {
	Pool        string
	RewardToken string
}

func (BlendArgs) Kind() StrategyKind { return StrategyBlend }
func (a BlendArgs) Encode() []ScVal {
	return []ScVal{Address(a.Pool), Address(a.RewardToken)}
}
func (BlendArgs) isInitArgs() {}

// StrategyData is the transient deploy input produced by the resolver.
type StrategyData struct {
	Name     string
	WasmKey  string
	InitArgs InitArgs
}

// ConstructorArgs are the arguments handed to deploy for this strategy.
func (s StrategyData) ConstructorArgs(asset string) []Arg {
	return []Arg{
		{Name: "asset", Value: Address(asset)},
		{Name: "init_args", Value: Vec(s.InitArgs.Encode()...)},
	}
}
