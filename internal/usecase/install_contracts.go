package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
)

// InstallContractsParams contains parameters for installing contracts
type InstallContractsParams struct {
	Names  []string
	Signer string
}

// InstallContractsResult contains one step per requested name, in order
type InstallContractsResult struct {
	Steps []*StepResult
}

// InstallContracts uploads contract code for several names
type InstallContracts struct {
	cfg       *config.RuntimeConfig
	repo      RegistryRepository
	lifecycle *Lifecycle
	confirmer Confirmer
}

// NewInstallContracts creates a new InstallContracts use case
func NewInstallContracts(cfg *config.RuntimeConfig, repo RegistryRepository, lifecycle *Lifecycle, confirmer Confirmer) *InstallContracts {
	return &InstallContracts{cfg: cfg, repo: repo, lifecycle: lifecycle, confirmer: confirmer}
}

// Run executes the use case. Steps completed before a failure are returned
// alongside the error.
func (uc *InstallContracts) Run(ctx context.Context, params InstallContractsParams) (result *InstallContractsResult, err error) {
	if len(params.Names) == 0 {
		return nil, fmt.Errorf("%w: at least one contract name is required", domain.ErrConfig)
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

	result = &InstallContractsResult{}
	for _, name := range params.Names {
		if _, err := s.reg.GetWasmHash(name); err != nil {
			if err := confirmProduction(ctx, uc.cfg, uc.confirmer, "Install "+name); err != nil {
				return result, err
			}
		}

		step, err := uc.lifecycle.Install(ctx, name, s.reg, signer)
		if err != nil {
			return result, err
		}
		result.Steps = append(result.Steps, step)

		if err := s.record(ctx, step); err != nil {
			return result, err
		}
	}

	return result, nil
}
