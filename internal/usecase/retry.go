package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
)

// newBackOff builds the bounded exponential policy for one lifecycle step.
// MaxAttempts counts the first try, so the policy allows MaxAttempts-1 retries.
func newBackOff(ctx context.Context, cfg config.LifecycleConfig) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialBackoff
	b.MaxInterval = cfg.MaxBackoff
	b.MaxElapsedTime = 0
	b.Reset()

	retries := cfg.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// retry runs fn until it succeeds, fails permanently, or the attempt cap is
// reached. Only errors matching domain.ErrTransient are retried. It returns the
// number of attempts made.
func (l *Lifecycle) retry(ctx context.Context, op domain.Operation, name string, fn func(ctx context.Context) error) (int, error) {
	attempts := 0
	operation := func() error {
		attempts++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrTransient) && ctx.Err() == nil {
			return err
		}
		return backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		l.log.Warn("transient failure, retrying",
			"op", op,
			"name", name,
			"attempt", attempts,
			"max_attempts", l.cfg.Lifecycle.MaxAttempts,
			"wait", wait,
			"error", err)
	}

	err := backoff.RetryNotify(operation, newBackOff(ctx, l.cfg.Lifecycle), notify)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
		err = fmt.Errorf("%w (%v)", ctx.Err(), err)
	}
	return attempts, err
}

// submit runs the build, prepare, sign and send sequence with retries, then
// waits for the transaction to reach a terminal status.
func (l *Lifecycle) submit(ctx context.Context, op domain.Operation, name string, signer config.Signer, build func(ctx context.Context) (string, error)) (*models.TransactionInfo, int, error) {
	var submission *models.Submission

	attempts, err := l.retry(ctx, op, name, func(ctx context.Context) error {
		envelope, err := build(ctx)
		if err != nil {
			return fmt.Errorf("failed to build transaction: %w", err)
		}

		prepared, err := l.txs.Prepare(ctx, envelope)
		if err != nil {
			return fmt.Errorf("failed to prepare transaction: %w", err)
		}

		signed, err := l.txs.Sign(ctx, prepared, signer)
		if err != nil {
			return fmt.Errorf("failed to sign transaction: %w", err)
		}

		sent, err := l.rpc.SendTransaction(ctx, signed)
		if err != nil {
			return fmt.Errorf("failed to send transaction: %w", err)
		}

		switch sent.Status {
		case models.SendStatusPending, models.SendStatusDuplicate:
			submission = sent
			return nil
		case models.SendStatusTryAgainLater:
			return fmt.Errorf("%w: rpc asked to try again later", domain.ErrTransient)
		default:
			return domain.RevertError{
				Hash:        sent.Hash,
				Status:      string(sent.Status),
				ResultXDR:   sent.ErrorResultXDR,
				Diagnostics: sent.DiagnosticEventsXDR,
			}
		}
	})
	if err != nil {
		return nil, attempts, err
	}

	l.log.Debug("transaction submitted", "op", op, "name", name, "hash", submission.Hash, "attempts", attempts)

	info, err := l.waitForTransaction(ctx, submission.Hash)
	return info, attempts, err
}
