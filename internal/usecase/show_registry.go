package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
)

// ShowRegistryParams contains parameters for showing a registry
type ShowRegistryParams struct {
	// External names a configured external registry instead of the local one
	External string
}

// RegistryEntry is one row of a registry listing
type RegistryEntry struct {
	Name       string                 `json:"name"`
	State      models.DeploymentState `json:"state"`
	ContractID string                 `json:"contractId,omitempty"`
	WasmHash   string                 `json:"wasmHash,omitempty"`
}

// ShowRegistryResult contains the entries in name order
type ShowRegistryResult struct {
	Network domain.NetworkName `json:"network"`
	Source  string             `json:"source"`
	Entries []RegistryEntry    `json:"entries"`
}

// ShowRegistry lists the entries of the local or an external registry
type ShowRegistry struct {
	cfg  *config.RuntimeConfig
	repo RegistryRepository
}

// NewShowRegistry creates a new ShowRegistry use case
func NewShowRegistry(cfg *config.RuntimeConfig, repo RegistryRepository) *ShowRegistry {
	return &ShowRegistry{cfg: cfg, repo: repo}
}

// Run executes the use case
func (uc *ShowRegistry) Run(ctx context.Context, params ShowRegistryParams) (*ShowRegistryResult, error) {
	network := uc.cfg.Network

	var (
		reg    *models.Registry
		source = "local"
		err    error
	)
	if params.External != "" {
		path, ok := network.External[params.External]
		if !ok {
			return nil, fmt.Errorf("%w: no external registry '%s' configured for %s", domain.ErrConfig, params.External, network.Name)
		}
		source = params.External
		reg, err = uc.repo.LoadExternal(ctx, path, network.Name)
	} else {
		reg, err = uc.repo.Load(ctx, network.Name)
	}
	if err != nil {
		return nil, err
	}

	result := &ShowRegistryResult{Network: network.Name, Source: source}
	for _, name := range reg.Names() {
		result.Entries = append(result.Entries, RegistryEntry{
			Name:       name,
			State:      reg.State(name),
			ContractID: reg.IDs[name],
			WasmHash:   reg.Hashes[name],
		})
	}
	return result, nil
}

// Names lists the local registry names, used for suggestions
func (uc *ShowRegistry) Names(ctx context.Context) ([]string, error) {
	reg, err := uc.repo.Load(ctx, uc.cfg.Network.Name)
	if err != nil {
		return nil, err
	}
	return reg.Names(), nil
}
