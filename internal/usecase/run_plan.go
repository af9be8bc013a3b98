package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
)

// RunPlanParams contains parameters for running a deployment plan
type RunPlanParams struct {
	Path string
	// DryRun only loads and orders the plan
	DryRun bool
}

// RunPlanResult contains the ordered plan and what happened per step
type RunPlanResult struct {
	Plan    *models.ExecutionPlan
	Steps   []*StepResult
	Invokes []*models.InvokeResult
}

// RunPlan executes a YAML deployment plan in dependency order
type RunPlan struct {
	cfg       *config.RuntimeConfig
	loader    PlanLoader
	repo      RegistryRepository
	lifecycle *Lifecycle
	txs       TransactionBuilder
	confirmer Confirmer
	log       *slog.Logger
}

// NewRunPlan creates a new RunPlan use case
func NewRunPlan(
	cfg *config.RuntimeConfig,
	loader PlanLoader,
	repo RegistryRepository,
	lifecycle *Lifecycle,
	txs TransactionBuilder,
	confirmer Confirmer,
	log *slog.Logger,
) *RunPlan {
	return &RunPlan{
		cfg:       cfg,
		loader:    loader,
		repo:      repo,
		lifecycle: lifecycle,
		txs:       txs,
		confirmer: confirmer,
		log:       log.With("component", "plan"),
	}
}

// Run executes the use case
func (uc *RunPlan) Run(ctx context.Context, params RunPlanParams) (result *RunPlanResult, err error) {
	planConfig, err := uc.loader.Load(ctx, params.Path)
	if err != nil {
		return nil, err
	}

	plan, err := planConfig.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfig, err)
	}
	result = &RunPlanResult{Plan: plan}
	if params.DryRun {
		return result, nil
	}

	if err := confirmProduction(ctx, uc.cfg, uc.confirmer, fmt.Sprintf("Run plan %s", plan.Group)); err != nil {
		return result, err
	}

	s, err := openSession(ctx, uc.repo, uc.cfg.Network.Name)
	if err != nil {
		return result, err
	}
	defer func() { err = s.close(ctx, err) }()

	parser := NewArgParser(s.reg, uc.cfg.Network, uc.txs)
	for i, step := range plan.Steps {
		uc.log.Debug("plan step", "index", i+1, "total", len(plan.Steps), "component", step.Name)
		if err := uc.runStep(ctx, s, parser, step, result); err != nil {
			return result, fmt.Errorf("component %s: %w", step.Name, err)
		}
	}

	return result, nil
}

func (uc *RunPlan) runStep(ctx context.Context, s *session, parser *ArgParser, step *models.PlanStep, result *RunPlanResult) error {
	component := step.Component

	if component.IsForeign() {
		if err := uc.recordForeign(ctx, s, step.Name, component.Address, result); err != nil {
			return err
		}
		return uc.runInvokes(ctx, s, parser, step.Name, component, result)
	}

	signer, err := uc.cfg.Network.Signer(component.Signer)
	if err != nil {
		return err
	}

	wasmKey := component.WasmKey(step.Name)
	installed, err := uc.lifecycle.Install(ctx, wasmKey, s.reg, signer)
	if err != nil {
		return err
	}
	if err := uc.record(ctx, s, installed, result); err != nil {
		return err
	}
	if component.InstallOnly {
		return nil
	}

	args, err := parser.ParseArgs(ctx, component.Args)
	if err != nil {
		return err
	}
	deployed, err := uc.lifecycle.Deploy(ctx, step.Name, wasmKey, s.reg, args, signer)
	if err != nil {
		return err
	}
	if err := uc.record(ctx, s, deployed, result); err != nil {
		return err
	}

	if component.Init != nil {
		initSigner, err := uc.callSigner(component, component.Init)
		if err != nil {
			return err
		}
		initArgs, err := parser.ParseArgs(ctx, component.Init.Args)
		if err != nil {
			return err
		}
		initialized, err := uc.lifecycle.Initialize(ctx, step.Name, s.reg, component.Init.Method, initArgs, initSigner)
		if err != nil {
			return err
		}
		if err := uc.record(ctx, s, initialized, result); err != nil {
			return err
		}
	}

	return uc.runInvokes(ctx, s, parser, step.Name, component, result)
}

func (uc *RunPlan) runInvokes(ctx context.Context, s *session, parser *ArgParser, name string, component *models.ComponentConfig, result *RunPlanResult) error {
	for _, call := range component.Invoke {
		signer, err := uc.callSigner(component, call)
		if err != nil {
			return err
		}
		args, err := parser.ParseArgs(ctx, call.Args)
		if err != nil {
			return err
		}
		var invoked *models.InvokeResult
		if component.IsForeign() {
			invoked, err = uc.lifecycle.InvokeDirect(ctx, component.Address, call.Method, args, signer, call.Simulate)
		} else {
			invoked, err = uc.lifecycle.Invoke(ctx, name, s.reg, call.Method, args, signer, call.Simulate)
		}
		if err != nil {
			return err
		}
		result.Invokes = append(result.Invokes, invoked)
	}
	return nil
}

// recordForeign stores the address of a contract the plan does not build
func (uc *RunPlan) recordForeign(ctx context.Context, s *session, name, address string, result *RunPlanResult) error {
	if !domain.IsContractAddress(address) {
		return fmt.Errorf("%w: '%s' is not a contract address", domain.ErrConfig, address)
	}

	step := &StepResult{Op: domain.OpDeploy, Name: name, Value: address, Skipped: true}
	if existing, err := s.reg.GetContractID(name); err != nil || existing != address {
		if err == nil {
			uc.log.Warn("replacing recorded address", "name", name, "old", existing, "new", address)
		}
		s.reg.SetContractID(name, address)
		step.Skipped = false
	}
	return uc.record(ctx, s, step, result)
}

func (uc *RunPlan) record(ctx context.Context, s *session, step *StepResult, result *RunPlanResult) error {
	result.Steps = append(result.Steps, step)
	return s.record(ctx, step)
}

func (uc *RunPlan) callSigner(component *models.ComponentConfig, call *models.CallConfig) (config.Signer, error) {
	if call.Signer != "" {
		return uc.cfg.Network.Signer(call.Signer)
	}
	return uc.cfg.Network.Signer(component.Signer)
}
