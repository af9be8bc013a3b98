package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
)

// session owns the registry for one orchestration run. Every successful
// mutation is checkpointed immediately, so a later failure never loses
// earlier progress.
type session struct {
	repo  RegistryRepository
	reg   *models.Registry
	dirty bool
}

func openSession(ctx context.Context, repo RegistryRepository, network domain.NetworkName) (*session, error) {
	reg, err := repo.Load(ctx, network)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s registry: %w", network, err)
	}
	return &session{repo: repo, reg: reg}, nil
}

// record checkpoints the registry when step changed it
func (s *session) record(ctx context.Context, step *StepResult) error {
	if step == nil || step.Skipped {
		return nil
	}
	s.dirty = true
	return s.checkpoint(ctx)
}

func (s *session) checkpoint(ctx context.Context) error {
	if !s.dirty {
		return nil
	}
	// Saves must land even when the run is being cancelled
	if err := s.repo.Save(context.WithoutCancel(ctx), s.reg); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}
	s.dirty = false
	return nil
}

// close performs the final checkpoint and merges its error into runErr
func (s *session) close(ctx context.Context, runErr error) error {
	if err := s.checkpoint(ctx); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// confirmProduction asks before changing state on a production network
func confirmProduction(ctx context.Context, cfg *config.RuntimeConfig, confirmer Confirmer, action string) error {
	if !cfg.IsProduction() || cfg.NonInteractive || confirmer == nil {
		return nil
	}
	ok, err := confirmer.Confirm(ctx, fmt.Sprintf("%s on %s", action, cfg.Network.Name))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: cancelled by operator", domain.ErrConfig)
	}
	return nil
}
