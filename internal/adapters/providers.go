package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/treb-soroban/internal/adapters/fs"
	"github.com/trebuchet-org/treb-soroban/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-soroban/internal/adapters/plan"
	"github.com/trebuchet-org/treb-soroban/internal/adapters/progress"
	"github.com/trebuchet-org/treb-soroban/internal/adapters/rpc"
	"github.com/trebuchet-org/treb-soroban/internal/adapters/stellar"
	"github.com/trebuchet-org/treb-soroban/internal/config"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewRegistryStoreAdapter,
	wire.Bind(new(usecase.RegistryRepository), new(*fs.RegistryStore)),

	fs.NewArtifactStoreAdapter,
	wire.Bind(new(usecase.ArtifactStore), new(*fs.ArtifactStore)),
)

// PlanSet provides the YAML plan loader
var PlanSet = wire.NewSet(
	plan.NewParser,
	wire.Bind(new(usecase.PlanLoader), new(*plan.Parser)),
)

// StellarSet provides stellar CLI-based implementations
var StellarSet = wire.NewSet(
	stellar.NewCLIAdapter,
	wire.Bind(new(usecase.TransactionBuilder), new(*stellar.CLI)),
	wire.Bind(new(rpc.MetaDecoder), new(*stellar.CLI)),
)

// RPCSet provides Soroban RPC and friendbot implementations
var RPCSet = wire.NewSet(
	rpc.NewClientAdapter,
	wire.Bind(new(usecase.RPCClient), new(*rpc.Client)),

	rpc.NewFriendbotAdapter,
	wire.Bind(new(usecase.Faucet), new(*rpc.Friendbot)),

	rpc.NewHealthChecker,
	wire.Bind(new(usecase.HealthChecker), new(*rpc.HealthChecker)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewConfirmerAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.ConfirmerAdapter)),

	progress.NewReporter,
	wire.Bind(new(usecase.ProgressSink), new(progress.Reporter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	PlanSet,
	StellarSet,
	RPCSet,
	InteractiveSet,
	ConfigSet,
)
