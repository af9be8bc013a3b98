//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-soroban/internal/adapters"
	"github.com/trebuchet-org/treb-soroban/internal/config"
	"github.com/trebuchet-org/treb-soroban/internal/logging"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Lifecycle core
		usecase.NewLifecycle,
		usecase.NewStrategyResolver,

		// Use cases
		usecase.NewInstallContracts,
		usecase.NewDeployContract,
		usecase.NewInvokeContract,
		usecase.NewDeployStrategies,
		usecase.NewRunPlan,
		usecase.NewFundAccount,
		usecase.NewShowRegistry,
		usecase.NewListNetworks,

		// App
		NewApp,
	)
	return nil, nil
}
