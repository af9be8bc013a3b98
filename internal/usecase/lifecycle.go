package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
)

// Lifecycle drives install, deploy, initialize and invoke against a registry.
// Every state-changing step is a no-op when the registry shows it already
// happened, so a failed run can simply be repeated.
type Lifecycle struct {
	cfg       *config.RuntimeConfig
	artifacts ArtifactStore
	txs       TransactionBuilder
	rpc       RPCClient
	faucet    Faucet
	progress  ProgressSink
	log       *slog.Logger
}

// NewLifecycle creates a new Lifecycle
func NewLifecycle(
	cfg *config.RuntimeConfig,
	artifacts ArtifactStore,
	txs TransactionBuilder,
	rpc RPCClient,
	faucet Faucet,
	progress ProgressSink,
	log *slog.Logger,
) *Lifecycle {
	if progress == nil {
		progress = NopProgress{}
	}
	return &Lifecycle{
		cfg:       cfg,
		artifacts: artifacts,
		txs:       txs,
		rpc:       rpc,
		faucet:    faucet,
		progress:  progress,
		log:       log.With("component", "lifecycle"),
	}
}

// Install uploads the compiled code for name unless its hash is already recorded.
func (l *Lifecycle) Install(ctx context.Context, name string, reg *models.Registry, signer config.Signer) (*StepResult, error) {
	if hash, err := reg.GetWasmHash(name); err == nil {
		l.log.Debug("already installed", "name", name, "hash", hash)
		return &StepResult{Op: domain.OpInstall, Name: name, Value: hash, Skipped: true}, nil
	}

	artifact, err := l.artifacts.Resolve(ctx, name)
	if err != nil {
		return nil, &domain.OperationError{Op: domain.OpInstall, Name: name, Err: err}
	}

	l.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "install",
		Message: fmt.Sprintf("Installing %s (%d bytes)", name, artifact.Size),
		Spinner: true,
	})

	info, attempts, err := l.submit(ctx, domain.OpInstall, name, signer, func(ctx context.Context) (string, error) {
		return l.txs.BuildUpload(ctx, artifact, signer)
	})
	if err != nil {
		return nil, &domain.OperationError{Op: domain.OpInstall, Name: name, Attempts: attempts, Err: err}
	}

	if info.ReturnValueXDR != "" {
		if onChain := l.decodeField(ctx, info.ReturnValueXDR, "bytes"); onChain != "" && onChain != artifact.Hash {
			return nil, &domain.OperationError{
				Op:       domain.OpInstall,
				Name:     name,
				Attempts: attempts,
				Err:      fmt.Errorf("network reported wasm hash %s, local artifact hashes to %s", onChain, artifact.Hash),
			}
		}
	}

	reg.SetWasmHash(name, artifact.Hash)
	l.log.Info("installed", "name", name, "hash", artifact.Hash, "tx", info.Hash, "attempts", attempts)
	return &StepResult{Op: domain.OpInstall, Name: name, Value: artifact.Hash, Attempts: attempts}, nil
}

// Deploy creates an instance of the code installed under wasmKey and records
// it as contractName. Constructor arguments count as initialization.
func (l *Lifecycle) Deploy(ctx context.Context, contractName, wasmKey string, reg *models.Registry, args []domain.Arg, signer config.Signer) (*StepResult, error) {
	if id, err := reg.GetContractID(contractName); err == nil {
		l.log.Debug("already deployed", "name", contractName, "id", id)
		return &StepResult{Op: domain.OpDeploy, Name: contractName, Value: id, Skipped: true}, nil
	}

	hash, err := reg.GetWasmHash(wasmKey)
	if err != nil {
		return nil, &domain.OperationError{Op: domain.OpDeploy, Name: contractName, Err: err}
	}

	if err := validateArgs(args); err != nil {
		return nil, &domain.OperationError{Op: domain.OpDeploy, Name: contractName, Err: err}
	}

	l.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "deploy",
		Message: fmt.Sprintf("Deploying %s from %s", contractName, wasmKey),
		Spinner: true,
	})

	info, attempts, err := l.submit(ctx, domain.OpDeploy, contractName, signer, func(ctx context.Context) (string, error) {
		return l.txs.BuildCreate(ctx, hash, args, signer)
	})
	if err != nil {
		return nil, &domain.OperationError{Op: domain.OpDeploy, Name: contractName, Attempts: attempts, Err: err}
	}

	id := l.decodeField(ctx, info.ReturnValueXDR, "address")
	if !domain.IsContractAddress(id) {
		return nil, &domain.OperationError{
			Op:       domain.OpDeploy,
			Name:     contractName,
			Attempts: attempts,
			Err:      fmt.Errorf("transaction %s did not return a contract address (got %q)", info.Hash, id),
		}
	}

	reg.SetContractID(contractName, id)
	if len(args) > 0 {
		reg.MarkInitialized(contractName)
	}
	l.log.Info("deployed", "name", contractName, "wasm", wasmKey, "id", id, "tx", info.Hash, "attempts", attempts)
	return &StepResult{Op: domain.OpDeploy, Name: contractName, Value: id, Attempts: attempts}, nil
}

// Initialize performs the first state-setting call on name once.
func (l *Lifecycle) Initialize(ctx context.Context, name string, reg *models.Registry, method string, args []domain.Arg, signer config.Signer) (*StepResult, error) {
	if reg.IsInitialized(name) {
		l.log.Debug("already initialized", "name", name)
		return &StepResult{Op: domain.OpInitialize, Name: name, Skipped: true}, nil
	}

	id, err := reg.GetContractID(name)
	if err != nil {
		return nil, &domain.OperationError{Op: domain.OpInitialize, Name: name, Err: err}
	}

	if err := validateArgs(args); err != nil {
		return nil, &domain.OperationError{Op: domain.OpInitialize, Name: name, Err: err}
	}

	l.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "initialize",
		Message: fmt.Sprintf("Initializing %s.%s", name, method),
		Spinner: true,
	})

	info, attempts, err := l.submit(ctx, domain.OpInitialize, name, signer, func(ctx context.Context) (string, error) {
		return l.txs.BuildInvoke(ctx, id, method, args, signer)
	})
	if err != nil {
		return nil, &domain.OperationError{Op: domain.OpInitialize, Name: name, Attempts: attempts, Err: err}
	}

	reg.MarkInitialized(name)
	l.log.Info("initialized", "name", name, "method", method, "tx", info.Hash, "attempts", attempts)
	return &StepResult{Op: domain.OpInitialize, Name: name, Value: info.Hash, Attempts: attempts}, nil
}

// Invoke calls method on the contract recorded as name.
func (l *Lifecycle) Invoke(ctx context.Context, name string, reg *models.Registry, method string, args []domain.Arg, signer config.Signer, simulateOnly bool) (*models.InvokeResult, error) {
	id, err := reg.GetContractID(name)
	if err != nil {
		return nil, &domain.OperationError{Op: domain.OpInvoke, Name: name, Err: err}
	}
	return l.invoke(ctx, name, id, method, args, signer, simulateOnly)
}

// InvokeDirect calls method on a contract the registry does not track.
func (l *Lifecycle) InvokeDirect(ctx context.Context, address, method string, args []domain.Arg, signer config.Signer, simulateOnly bool) (*models.InvokeResult, error) {
	if !domain.IsContractAddress(address) {
		return nil, &domain.OperationError{
			Op:   domain.OpInvoke,
			Name: address,
			Err:  fmt.Errorf("%w: '%s' is not a contract address", domain.ErrConfig, address),
		}
	}
	return l.invoke(ctx, address, address, method, args, signer, simulateOnly)
}

func (l *Lifecycle) invoke(ctx context.Context, label, contractID, method string, args []domain.Arg, signer config.Signer, simulateOnly bool) (*models.InvokeResult, error) {
	opName := label + "." + method

	if err := validateArgs(args); err != nil {
		return nil, &domain.OperationError{Op: domain.OpInvoke, Name: opName, Err: err}
	}

	result := &models.InvokeResult{
		ContractID: contractID,
		Method:     method,
		Simulated:  simulateOnly,
	}

	if simulateOnly {
		var sim *models.Simulation
		attempts, err := l.retry(ctx, domain.OpInvoke, opName, func(ctx context.Context) error {
			envelope, err := l.txs.BuildInvoke(ctx, contractID, method, args, signer)
			if err != nil {
				return fmt.Errorf("failed to build transaction: %w", err)
			}
			sim, err = l.rpc.SimulateTransaction(ctx, envelope)
			return err
		})
		if err != nil {
			return nil, &domain.OperationError{Op: domain.OpInvoke, Name: opName, Attempts: attempts, Err: err}
		}
		if sim.Error != "" {
			return nil, &domain.OperationError{
				Op:       domain.OpInvoke,
				Name:     opName,
				Attempts: attempts,
				Err: domain.RevertError{
					Status:      "SIMULATION_FAILED: " + sim.Error,
					Diagnostics: sim.EventsXDR,
				},
			}
		}

		result.Status = "SIMULATED"
		result.ReturnXDR = sim.ResultXDR
		result.MinResourceFee = sim.MinResourceFee
		result.ReturnValue = l.decodeValue(ctx, sim.ResultXDR)
		return result, nil
	}

	l.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "invoke",
		Message: fmt.Sprintf("Invoking %s", opName),
		Spinner: true,
	})

	info, attempts, err := l.submit(ctx, domain.OpInvoke, opName, signer, func(ctx context.Context) (string, error) {
		return l.txs.BuildInvoke(ctx, contractID, method, args, signer)
	})
	if err != nil {
		return nil, &domain.OperationError{Op: domain.OpInvoke, Name: opName, Attempts: attempts, Err: err}
	}

	result.Status = string(info.Status)
	result.Hash = info.Hash
	result.ReturnXDR = info.ReturnValueXDR
	result.ReturnValue = l.decodeValue(ctx, info.ReturnValueXDR)
	l.log.Info("invoked", "contract", label, "method", method, "tx", info.Hash, "attempts", attempts)
	return result, nil
}

// FundTestAccount asks the network faucet for test funds. Callers must refuse
// production networks before getting here.
func (l *Lifecycle) FundTestAccount(ctx context.Context, address string) error {
	if !domain.IsAccountAddress(address) {
		return fmt.Errorf("%w: '%s' is not an account address", domain.ErrConfig, address)
	}

	l.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "fund",
		Message: fmt.Sprintf("Funding %s", address),
		Spinner: true,
	})

	_, err := l.retry(ctx, domain.OpInvoke, "friendbot", func(ctx context.Context) error {
		return l.faucet.Fund(ctx, address)
	})
	if err != nil {
		return fmt.Errorf("failed to fund %s: %w", address, err)
	}
	l.log.Info("funded", "address", address)
	return nil
}

// decodeValue renders a return value as JSON; decode failures are logged and
// leave the raw XDR as the only result.
func (l *Lifecycle) decodeValue(ctx context.Context, xdr string) json.RawMessage {
	if xdr == "" {
		return nil
	}
	value, err := l.txs.DecodeValue(ctx, xdr)
	if err != nil {
		l.log.Warn("could not decode return value", "error", err)
		return nil
	}
	return value
}

func (l *Lifecycle) decodeField(ctx context.Context, xdr, field string) string {
	value := l.decodeValue(ctx, xdr)
	if value == nil {
		return ""
	}
	return gjson.GetBytes(value, field).String()
}

func validateArgs(args []domain.Arg) error {
	var errs []error
	for _, arg := range args {
		if arg.Name == "" {
			errs = append(errs, errors.New("argument name is required"))
			continue
		}
		if err := arg.Value.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("argument %s: %w", arg.Name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrConfig, errors.Join(errs...))
	}
	return nil
}
