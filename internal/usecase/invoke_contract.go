package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
)

// InvokeContractParams contains parameters for a contract call
type InvokeContractParams struct {
	Target   string // registry name or contract address
	Method   string
	Args     []string // name=value pairs
	Signer   string
	Simulate bool
}

// InvokeContract calls a method on a registry contract or a raw address
type InvokeContract struct {
	cfg       *config.RuntimeConfig
	repo      RegistryRepository
	lifecycle *Lifecycle
	txs       TransactionBuilder
	confirmer Confirmer
}

// NewInvokeContract creates a new InvokeContract use case
func NewInvokeContract(cfg *config.RuntimeConfig, repo RegistryRepository, lifecycle *Lifecycle, txs TransactionBuilder, confirmer Confirmer) *InvokeContract {
	return &InvokeContract{cfg: cfg, repo: repo, lifecycle: lifecycle, txs: txs, confirmer: confirmer}
}

// Run executes the use case
func (uc *InvokeContract) Run(ctx context.Context, params InvokeContractParams) (*models.InvokeResult, error) {
	if params.Target == "" || params.Method == "" {
		return nil, fmt.Errorf("%w: contract and method are required", domain.ErrConfig)
	}

	signer, err := uc.cfg.Network.Signer(params.Signer)
	if err != nil {
		return nil, err
	}

	reg, err := uc.repo.Load(ctx, uc.cfg.Network.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s registry: %w", uc.cfg.Network.Name, err)
	}

	args, err := NewArgParser(reg, uc.cfg.Network, uc.txs).ParseAssignments(ctx, params.Args)
	if err != nil {
		return nil, err
	}

	if !params.Simulate {
		action := fmt.Sprintf("Invoke %s.%s", params.Target, params.Method)
		if err := confirmProduction(ctx, uc.cfg, uc.confirmer, action); err != nil {
			return nil, err
		}
	}

	if domain.IsContractAddress(params.Target) {
		return uc.lifecycle.InvokeDirect(ctx, params.Target, params.Method, args, signer, params.Simulate)
	}
	return uc.lifecycle.Invoke(ctx, params.Target, reg, params.Method, args, signer, params.Simulate)
}
