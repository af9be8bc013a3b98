package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
)

// DeployStrategiesParams contains parameters for strategy deployment
type DeployStrategiesParams struct {
	Asset  string
	Kinds  []string
	Signer string
}

// DeployStrategiesResult contains the resolved plan and executed steps
type DeployStrategiesResult struct {
	Plan  *StrategyPlan
	Steps []*StepResult
}

// DeployStrategies resolves and deploys the strategies for one asset
type DeployStrategies struct {
	cfg       *config.RuntimeConfig
	repo      RegistryRepository
	resolver  *StrategyResolver
	lifecycle *Lifecycle
	confirmer Confirmer
	log       *slog.Logger
}

// NewDeployStrategies creates a new DeployStrategies use case
func NewDeployStrategies(
	cfg *config.RuntimeConfig,
	repo RegistryRepository,
	resolver *StrategyResolver,
	lifecycle *Lifecycle,
	confirmer Confirmer,
	log *slog.Logger,
) *DeployStrategies {
	return &DeployStrategies{
		cfg:       cfg,
		repo:      repo,
		resolver:  resolver,
		lifecycle: lifecycle,
		confirmer: confirmer,
		log:       log.With("component", "strategies"),
	}
}

// Resolve computes the strategy plan without touching the network
func (uc *DeployStrategies) Resolve(ctx context.Context, params DeployStrategiesParams) (*StrategyPlan, error) {
	reg, err := uc.repo.Load(ctx, uc.cfg.Network.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s registry: %w", uc.cfg.Network.Name, err)
	}
	return uc.resolve(ctx, reg, params)
}

func (uc *DeployStrategies) resolve(ctx context.Context, reg *models.Registry, params DeployStrategiesParams) (*StrategyPlan, error) {
	external, err := uc.loadExternal(ctx)
	if err != nil {
		return nil, err
	}
	return uc.resolver.Resolve(params.Asset, params.Kinds, reg, external, uc.cfg.Network)
}

// loadExternal reads the configured external registry; nil when none is configured
func (uc *DeployStrategies) loadExternal(ctx context.Context) (*models.Registry, error) {
	name := uc.cfg.Network.Strategies.BlendRegistry
	path, ok := uc.cfg.Network.External[name]
	if !ok || path == "" {
		uc.log.Debug("no external registry configured", "registry", name)
		return nil, nil
	}

	external, err := uc.repo.LoadExternal(ctx, path, uc.cfg.Network.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s registry: %w", name, err)
	}
	return external, nil
}

// Run resolves the plan, then installs and deploys every strategy in order
func (uc *DeployStrategies) Run(ctx context.Context, params DeployStrategiesParams) (result *DeployStrategiesResult, err error) {
	signer, err := uc.cfg.Network.Signer(params.Signer)
	if err != nil {
		return nil, err
	}

	s, err := openSession(ctx, uc.repo, uc.cfg.Network.Name)
	if err != nil {
		return nil, err
	}
	defer func() { err = s.close(ctx, err) }()

	plan, err := uc.resolve(ctx, s.reg, params)
	if err != nil {
		return nil, err
	}
	result = &DeployStrategiesResult{Plan: plan}

	pending := 0
	for _, strategy := range plan.Strategies {
		if _, err := s.reg.GetContractID(strategy.Name); err != nil {
			pending++
		}
	}
	if pending > 0 {
		action := fmt.Sprintf("Deploy %d %s strategies", pending, plan.Asset)
		if err := confirmProduction(ctx, uc.cfg, uc.confirmer, action); err != nil {
			return result, err
		}
	}

	for _, strategy := range plan.Strategies {
		step, err := uc.lifecycle.Install(ctx, strategy.WasmKey, s.reg, signer)
		if err != nil {
			return result, err
		}
		result.Steps = append(result.Steps, step)
		if err := s.record(ctx, step); err != nil {
			return result, err
		}

		step, err = uc.lifecycle.Deploy(ctx, strategy.Name, strategy.WasmKey, s.reg, strategy.ConstructorArgs(plan.AssetAddress), signer)
		if err != nil {
			return result, err
		}
		result.Steps = append(result.Steps, step)
		if err := s.record(ctx, step); err != nil {
			return result, err
		}
	}

	uc.log.Info("strategies ready", "asset", plan.Asset, "count", len(plan.Strategies))
	return result, nil
}

// StrategyKindsOrDefault returns kinds, or every kind when none were given
func StrategyKindsOrDefault(kinds []string) []string {
	if len(kinds) > 0 {
		return kinds
	}
	all := make([]string, len(domain.AllStrategyKinds))
	for i, kind := range domain.AllStrategyKinds {
		all[i] = string(kind)
	}
	return all
}
