package app

import (
	"github.com/trebuchet-org/treb-soroban/internal/adapters/progress"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Progress progress.Reporter

	// Use cases
	InstallContracts *usecase.InstallContracts
	DeployContract   *usecase.DeployContract
	InvokeContract   *usecase.InvokeContract
	DeployStrategies *usecase.DeployStrategies
	RunPlan          *usecase.RunPlan
	FundAccount      *usecase.FundAccount
	ShowRegistry     *usecase.ShowRegistry
	ListNetworks     *usecase.ListNetworks
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	reporter progress.Reporter,
	installContracts *usecase.InstallContracts,
	deployContract *usecase.DeployContract,
	invokeContract *usecase.InvokeContract,
	deployStrategies *usecase.DeployStrategies,
	runPlan *usecase.RunPlan,
	fundAccount *usecase.FundAccount,
	showRegistry *usecase.ShowRegistry,
	listNetworks *usecase.ListNetworks,
) (*App, error) {
	return &App{
		Config:           cfg,
		Progress:         reporter,
		InstallContracts: installContracts,
		DeployContract:   deployContract,
		InvokeContract:   invokeContract,
		DeployStrategies: deployStrategies,
		RunPlan:          runPlan,
		FundAccount:      fundAccount,
		ShowRegistry:     showRegistry,
		ListNetworks:     listNetworks,
	}, nil
}
