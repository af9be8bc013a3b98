package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
)

// DeployContractParams contains parameters for deploying one contract
type DeployContractParams struct {
	Name       string
	Wasm       string            // registry name of the code; defaults to Name
	Args       map[string]string // raw constructor arguments
	InitMethod string
	InitArgs   map[string]string
	Signer     string
}

// DeployContractResult contains the executed steps
type DeployContractResult struct {
	ContractID string
	Steps      []*StepResult
}

// DeployContract installs (if needed), deploys and optionally initializes a contract
type DeployContract struct {
	cfg       *config.RuntimeConfig
	repo      RegistryRepository
	lifecycle *Lifecycle
	txs       TransactionBuilder
	confirmer Confirmer
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(cfg *config.RuntimeConfig, repo RegistryRepository, lifecycle *Lifecycle, txs TransactionBuilder, confirmer Confirmer) *DeployContract {
	return &DeployContract{cfg: cfg, repo: repo, lifecycle: lifecycle, txs: txs, confirmer: confirmer}
}

// Run executes the use case
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (result *DeployContractResult, err error) {
	if params.Name == "" {
		return nil, fmt.Errorf("%w: contract name is required", domain.ErrConfig)
	}
	if len(params.Args) > 0 && params.InitMethod != "" {
		return nil, fmt.Errorf("%w: constructor arguments already initialize %s; drop the init call", domain.ErrConfig, params.Name)
	}
	wasmKey := params.Wasm
	if wasmKey == "" {
		wasmKey = params.Name
	}

	signer, err := uc.cfg.Network.Signer(params.Signer)
	if err != nil {
		return nil, err
	}

	s, err := openSession(ctx, uc.repo, uc.cfg.Network.Name)
	if err != nil {
		return nil, err
	}
	defer func() { err = s.close(ctx, err) }()

	result = &DeployContractResult{}
	_, hashErr := s.reg.GetWasmHash(wasmKey)
	_, idErr := s.reg.GetContractID(params.Name)
	pendingInit := params.InitMethod != "" && !s.reg.IsInitialized(params.Name)
	if hashErr != nil || idErr != nil || pendingInit {
		if err := confirmProduction(ctx, uc.cfg, uc.confirmer, "Deploy "+params.Name); err != nil {
			return result, err
		}
	}

	step, err := uc.lifecycle.Install(ctx, wasmKey, s.reg, signer)
	if err != nil {
		return result, err
	}
	result.Steps = append(result.Steps, step)
	if err := s.record(ctx, step); err != nil {
		return result, err
	}

	parser := NewArgParser(s.reg, uc.cfg.Network, uc.txs)
	args, err := parser.ParseArgs(ctx, params.Args)
	if err != nil {
		return result, err
	}

	step, err = uc.lifecycle.Deploy(ctx, params.Name, wasmKey, s.reg, args, signer)
	if err != nil {
		return result, err
	}
	result.Steps = append(result.Steps, step)
	result.ContractID = step.Value
	if err := s.record(ctx, step); err != nil {
		return result, err
	}

	if params.InitMethod == "" {
		return result, nil
	}

	initArgs, err := parser.ParseArgs(ctx, params.InitArgs)
	if err != nil {
		return result, err
	}

	step, err = uc.lifecycle.Initialize(ctx, params.Name, s.reg, params.InitMethod, initArgs, signer)
	if err != nil {
		return result, err
	}
	result.Steps = append(result.Steps, step)
	return result, s.record(ctx, step)
}
