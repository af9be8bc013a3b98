package usecase

import (
	"context"
	"encoding/json"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
)

// RegistryRepository handles persistence of per-network address books
type RegistryRepository interface {
	// Load returns an empty registry when the network has no file yet
	Load(ctx context.Context, network domain.NetworkName) (*models.Registry, error)
	// LoadExternal reads a third-party registry leniently
	LoadExternal(ctx context.Context, path string, network domain.NetworkName) (*models.Registry, error)
	// Save durably replaces the network's file
	Save(ctx context.Context, registry *models.Registry) error
}

// ArtifactStore provides access to compiled contract code
type ArtifactStore interface {
	Resolve(ctx context.Context, name string) (*models.Artifact, error)
}

// TransactionBuilder builds, prepares and signs transaction envelopes.
// Envelopes are opaque base64 XDR strings.
type TransactionBuilder interface {
	BuildUpload(ctx context.Context, artifact *models.Artifact, signer config.Signer) (string, error)
	BuildCreate(ctx context.Context, wasmHash string, args []domain.Arg, signer config.Signer) (string, error)
	BuildInvoke(ctx context.Context, contractID, method string, args []domain.Arg, signer config.Signer) (string, error)
	// Prepare simulates the envelope and attaches footprint and resource fees
	Prepare(ctx context.Context, envelope string) (string, error)
	Sign(ctx context.Context, envelope string, signer config.Signer) (string, error)
	// DecodeValue renders an ScVal XDR as JSON
	DecodeValue(ctx context.Context, xdr string) (json.RawMessage, error)
	// Address returns the public key (G...) of a signer
	Address(ctx context.Context, signer config.Signer) (string, error)
}

// RPCClient is the subset of Soroban JSON-RPC the pipeline needs
type RPCClient interface {
	SimulateTransaction(ctx context.Context, envelope string) (*models.Simulation, error)
	SendTransaction(ctx context.Context, envelope string) (*models.Submission, error)
	GetTransaction(ctx context.Context, hash string) (*models.TransactionInfo, error)
	GetHealth(ctx context.Context) (*models.NetworkHealth, error)
}

// Faucet funds test accounts
type Faucet interface {
	Fund(ctx context.Context, address string) error
}

// HealthChecker queries RPC health for any configured network
type HealthChecker interface {
	Check(ctx context.Context, network *config.Network) (*models.NetworkHealth, error)
}

// NetworkResolver resolves configured networks
type NetworkResolver interface {
	Names() []domain.NetworkName
	Resolve(name domain.NetworkName) (*config.Network, error)
}

// PlanLoader reads deployment plans
type PlanLoader interface {
	Load(ctx context.Context, path string) (*models.PlanConfig, error)
}

// Confirmer asks the operator before state changes on production networks
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// Use case result types

// StepResult describes one lifecycle step of an orchestration run
type StepResult struct {
	Op       domain.Operation
	Name     string
	Value    string // wasm hash, contract id or transaction hash
	Skipped  bool
	Attempts int
}
