package usecase

import (
	"context"

	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// SkipHealth lists configuration only
	SkipHealth bool
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Active   string
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name         string
	RPCURL       string
	Passphrase   string
	HasFriendbot bool
	LatestLedger uint32
	Health       string
	Error        error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	cfg      *config.RuntimeConfig
	resolver NetworkResolver
	health   HealthChecker
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver, health HealthChecker) *ListNetworks {
	return &ListNetworks{
		cfg:      cfg,
		resolver: resolver,
		health:   health,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	names := uc.resolver.Names()

	// Check each network's status
	networks := make([]NetworkStatus, 0, len(names))
	for _, name := range names {
		status := NetworkStatus{
			Name: string(name),
		}

		network, err := uc.resolver.Resolve(name)
		if err != nil {
			status.Error = err
			networks = append(networks, status)
			continue
		}
		status.RPCURL = network.RPCURL
		status.Passphrase = network.Passphrase
		status.HasFriendbot = network.FriendbotURL != "" && !name.IsProduction()

		if !params.SkipHealth && uc.health != nil {
			health, err := uc.health.Check(ctx, network)
			if err != nil {
				status.Error = err
			} else {
				status.Health = health.Status
				status.LatestLedger = health.LatestLedger
			}
		}

		networks = append(networks, status)
	}

	result := &ListNetworksResult{Networks: networks}
	if uc.cfg != nil && uc.cfg.Network != nil {
		result.Active = string(uc.cfg.Network.Name)
	}
	return result, nil
}
