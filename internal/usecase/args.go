package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
)

// ArgParser turns raw name=value arguments into typed contract arguments.
//
// Accepted value forms:
//
//	u32:1000, i128:-5, bool:true, string:x, symbol:x, bytes:<hex>, address:<C|G...>
//	@name      contract id recorded in the registry under name
//	$signer    public key of a configured signer ($admin for the admin key)
//	C... / G...  bare addresses
//	[a, b]     JSON array; string elements use the forms above, numbers become i128
type ArgParser struct {
	reg     *models.Registry
	network *config.Network
	txs     TransactionBuilder
}

// NewArgParser creates a parser resolving references against reg
func NewArgParser(reg *models.Registry, network *config.Network, txs TransactionBuilder) *ArgParser {
	return &ArgParser{reg: reg, network: network, txs: txs}
}

// ParseArgs parses a map of raw arguments, ordered by name
func (p *ArgParser) ParseArgs(ctx context.Context, raw map[string]string) ([]domain.Arg, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]domain.Arg, 0, len(names))
	for _, name := range names {
		value, err := p.ParseValue(ctx, raw[name])
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", name, err)
		}
		args = append(args, domain.Arg{Name: name, Value: value})
	}
	return args, nil
}

// ParseAssignments parses name=value pairs as given on the command line
func (p *ArgParser) ParseAssignments(ctx context.Context, pairs []string) ([]domain.Arg, error) {
	raw, err := SplitAssignments(pairs)
	if err != nil {
		return nil, err
	}
	return p.ParseArgs(ctx, raw)
}

// SplitAssignments turns ["a=1", "b=2"] into a map, rejecting duplicates
func SplitAssignments(pairs []string) (map[string]string, error) {
	raw := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: argument '%s' must be name=value", domain.ErrConfig, pair)
		}
		if _, exists := raw[name]; exists {
			return nil, fmt.Errorf("%w: argument '%s' given twice", domain.ErrConfig, name)
		}
		raw[name] = value
	}
	return raw, nil
}

// ParseValue parses a single raw value
func (p *ArgParser) ParseValue(ctx context.Context, raw string) (domain.ScVal, error) {
	raw = strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(raw, "@"):
		if p.reg == nil {
			return domain.ScVal{}, fmt.Errorf("%w: no registry to resolve '%s'", domain.ErrConfig, raw)
		}
		id, err := p.reg.GetContractID(raw[1:])
		if err != nil {
			return domain.ScVal{}, err
		}
		return domain.Address(id), nil

	case strings.HasPrefix(raw, "$"):
		return p.signerAddress(ctx, raw[1:])

	case strings.HasPrefix(raw, "["):
		if !gjson.Valid(raw) {
			return domain.ScVal{}, fmt.Errorf("%w: invalid array '%s'", domain.ErrConfig, raw)
		}
		return p.parseJSON(ctx, gjson.Parse(raw))

	case domain.IsContractAddress(raw) || domain.IsAccountAddress(raw):
		return domain.Address(raw), nil
	}

	kind, value, ok := strings.Cut(raw, ":")
	if !ok {
		return domain.ScVal{}, fmt.Errorf("%w: cannot infer the type of '%s' (use type:value, @name or $signer)", domain.ErrConfig, raw)
	}

	v := domain.ScVal{Kind: domain.ScValKind(strings.ToLower(kind)), Value: value}
	switch v.Kind {
	case domain.KindVec:
		return domain.ScVal{}, fmt.Errorf("%w: vectors are written as JSON arrays", domain.ErrConfig)
	case domain.KindBytes:
		v.Value = strings.ToLower(strings.TrimPrefix(value, "0x"))
	case domain.KindAddress:
		if strings.HasPrefix(value, "@") || strings.HasPrefix(value, "$") {
			return p.ParseValue(ctx, value)
		}
	}

	if err := v.Validate(); err != nil {
		return domain.ScVal{}, fmt.Errorf("%w: %w", domain.ErrConfig, err)
	}
	return v, nil
}

func (p *ArgParser) parseJSON(ctx context.Context, node gjson.Result) (domain.ScVal, error) {
	switch {
	case node.IsArray():
		var items []domain.ScVal
		var err error
		node.ForEach(func(_, item gjson.Result) bool {
			var v domain.ScVal
			v, err = p.parseJSON(ctx, item)
			if err != nil {
				return false
			}
			items = append(items, v)
			return true
		})
		if err != nil {
			return domain.ScVal{}, err
		}
		return domain.Vec(items...), nil
	case node.Type == gjson.String:
		return p.ParseValue(ctx, node.String())
	case node.Type == gjson.Number:
		v := domain.I128(node.Raw)
		if err := v.Validate(); err != nil {
			return domain.ScVal{}, fmt.Errorf("%w: %w", domain.ErrConfig, err)
		}
		return v, nil
	case node.Type == gjson.True || node.Type == gjson.False:
		return domain.Bool(node.Bool()), nil
	default:
		return domain.ScVal{}, fmt.Errorf("%w: unsupported array element %s", domain.ErrConfig, node.Raw)
	}
}

func (p *ArgParser) signerAddress(ctx context.Context, name string) (domain.ScVal, error) {
	if p.network == nil || p.txs == nil {
		return domain.ScVal{}, fmt.Errorf("%w: cannot resolve signer '%s' here", domain.ErrConfig, name)
	}
	signer, err := p.network.Signer(name)
	if err != nil {
		return domain.ScVal{}, err
	}
	address, err := p.txs.Address(ctx, signer)
	if err != nil {
		return domain.ScVal{}, fmt.Errorf("failed to resolve address of signer %s: %w", name, err)
	}
	return domain.Address(address), nil
}
