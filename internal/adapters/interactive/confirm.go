package interactive

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// promptFunc runs a yes/no prompt and returns the raw answer
type promptFunc func(label string) (string, error)

// ConfirmerAdapter asks the operator before state changes on production networks
type ConfirmerAdapter struct {
	config *config.RuntimeConfig
	prompt promptFunc
}

// NewConfirmerAdapter creates a new confirmer adapter
func NewConfirmerAdapter(cfg *config.RuntimeConfig) *ConfirmerAdapter {
	return &ConfirmerAdapter{config: cfg, prompt: runPrompt}
}

func runPrompt(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	return prompt.Run()
}

// Confirm returns true when the operator accepts. Non-interactive runs never
// reach the prompt; they are refused unless confirmation was waived upstream.
func (c *ConfirmerAdapter) Confirm(ctx context.Context, label string) (bool, error) {
	if c.config.NonInteractive {
		return false, fmt.Errorf("%w: confirmation required for %q but running non-interactively", domain.ErrConfig, label)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := c.prompt(label)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort), errors.Is(err, promptui.ErrInterrupt):
		return false, nil
	default:
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
}

var _ usecase.Confirmer = (*ConfirmerAdapter)(nil)
