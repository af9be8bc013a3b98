package usecase

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
)

// StrategyPlan is the resolved deploy input for one asset
type StrategyPlan struct {
	Asset        string
	AssetKey     string
	AssetAddress string
	Strategies   []domain.StrategyData
}

// StrategyResolver computes strategy deployment parameters from the local
// registry and an external registry. It performs no I/O.
type StrategyResolver struct{}

// NewStrategyResolver creates a new StrategyResolver
func NewStrategyResolver() *StrategyResolver {
	return &StrategyResolver{}
}

// Resolve maps an asset symbol and strategy kinds to ordered StrategyData.
// external may be nil when no external registry is available.
func (r *StrategyResolver) Resolve(
	asset string,
	kinds []string,
	local *models.Registry,
	external *models.Registry,
	network *config.Network,
) (*StrategyPlan, error) {
	symbol := strings.ToLower(strings.TrimSpace(asset))
	if symbol == "" {
		return nil, fmt.Errorf("%w: asset symbol is required", domain.ErrConfig)
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("%w: at least one strategy kind is required", domain.ErrConfig)
	}

	parsed := make([]domain.StrategyKind, 0, len(kinds))
	for _, raw := range kinds {
		kind, err := domain.ParseStrategyKind(raw)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, kind)
	}
	parsed = lo.Uniq(parsed)

	key := network.AssetKey(symbol)
	assetAddress, err := local.GetContractID(key)
	if err != nil {
		return nil, domain.NotFoundError{Network: string(network.Name), Name: key, Field: "asset"}
	}

	plan := &StrategyPlan{
		Asset:        symbol,
		AssetKey:     key,
		AssetAddress: assetAddress,
		Strategies:   make([]domain.StrategyData, 0, len(parsed)),
	}

	for _, kind := range parsed {
		initArgs, err := r.initArgs(kind, external, network)
		if err != nil {
			return nil, err
		}
		plan.Strategies = append(plan.Strategies, domain.StrategyData{
			Name:     fmt.Sprintf("%s_%s_strategy", symbol, strings.ToLower(string(kind))),
			WasmKey:  kind.WasmKey(),
			InitArgs: initArgs,
		})
	}

	return plan, nil
}

func (r *StrategyResolver) initArgs(kind domain.StrategyKind, external *models.Registry, network *config.Network) (domain.InitArgs, error) {
	switch kind {
	case domain.StrategyHodl:
		return domain.HodlArgs{}, nil
	case domain.StrategyFixedApr:
		return domain.FixedAprArgs{RateBps: network.Strategies.FixedAprBps}, nil
	case domain.StrategyBlend:
		pool, err := r.externalID(external, network, network.Strategies.BlendPoolKey)
		if err != nil {
			return nil, err
		}
		token, err := r.externalID(external, network, network.Strategies.BlendTokenKey)
		if err != nil {
			return nil, err
		}
		return domain.BlendArgs{Pool: pool, RewardToken: token}, nil
	}
	return nil, fmt.Errorf("%w: unsupported strategy kind '%s'", domain.ErrConfig, kind)
}

func (r *StrategyResolver) externalID(external *models.Registry, network *config.Network, entry string) (string, error) {
	missing := domain.MissingDependencyError{
		Network:  string(network.Name),
		Registry: network.Strategies.BlendRegistry,
		Entry:    entry,
	}
	if external == nil || entry == "" {
		return "", missing
	}
	id, err := external.GetContractID(entry)
	if err != nil {
		return "", missing
	}
	return id, nil
}
