package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
)

// FundAccountParams contains parameters for funding a test account
type FundAccountParams struct {
	// Target is an account address (G...) or a configured signer name
	Target string
}

// FundAccountResult contains the funded address
type FundAccountResult struct {
	Address string
}

// FundAccount requests faucet funds. It refuses production networks.
type FundAccount struct {
	cfg       *config.RuntimeConfig
	lifecycle *Lifecycle
	txs       TransactionBuilder
}

// NewFundAccount creates a new FundAccount use case
func NewFundAccount(cfg *config.RuntimeConfig, lifecycle *Lifecycle, txs TransactionBuilder) *FundAccount {
	return &FundAccount{cfg: cfg, lifecycle: lifecycle, txs: txs}
}

// Run executes the use case
func (uc *FundAccount) Run(ctx context.Context, params FundAccountParams) (*FundAccountResult, error) {
	if uc.cfg.Network.Name.IsProduction() {
		return nil, fmt.Errorf("%w: refusing to call a faucet on %s", domain.ErrConfig, uc.cfg.Network.Name)
	}
	if uc.cfg.Network.FriendbotURL == "" {
		return nil, fmt.Errorf("%w: no friendbot_url configured for %s", domain.ErrConfig, uc.cfg.Network.Name)
	}

	address := params.Target
	if !domain.IsAccountAddress(address) {
		signer, err := uc.cfg.Network.Signer(params.Target)
		if err != nil {
			return nil, err
		}
		address, err = uc.txs.Address(ctx, signer)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve address of signer %s: %w", signer.Name, err)
		}
	}

	if err := uc.lifecycle.FundTestAccount(ctx, address); err != nil {
		return nil, err
	}
	return &FundAccountResult{Address: address}, nil
}
