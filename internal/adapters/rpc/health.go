package rpc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// HealthChecker queries getHealth on any configured network
type HealthChecker struct {
	rpc config.RPCConfig
	log *slog.Logger
}

// NewHealthChecker creates a checker using the configured RPC tuning
func NewHealthChecker(cfg *config.RuntimeConfig, log *slog.Logger) *HealthChecker {
	return &HealthChecker{rpc: cfg.RPC, log: log}
}

// Check returns the health of network's RPC server
func (h *HealthChecker) Check(ctx context.Context, network *config.Network) (*models.NetworkHealth, error) {
	if network.RPCURL == "" {
		return nil, fmt.Errorf("%w: no RPC URL configured for %s", domain.ErrConfig, network.Name)
	}
	return NewClient(network.RPCURL, h.rpc, nil, h.log).GetHealth(ctx)
}

var _ usecase.HealthChecker = (*HealthChecker)(nil)
