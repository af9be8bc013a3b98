package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
)

// waitForTransaction polls getTransaction at a fixed interval until the
// transaction is final or the wall-clock bound elapses.
func (l *Lifecycle) waitForTransaction(ctx context.Context, hash string) (*models.TransactionInfo, error) {
	start := time.Now()
	deadline := start.Add(l.cfg.Lifecycle.PollTimeout)

	l.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "polling",
		Message: fmt.Sprintf("Waiting for %s", shortHash(hash)),
		Spinner: true,
	})

	ticker := time.NewTicker(l.cfg.Lifecycle.PollInterval)
	defer ticker.Stop()

	for {
		info, err := l.rpc.GetTransaction(ctx, hash)
		switch {
		case err != nil && !errors.Is(err, domain.ErrTransient):
			return nil, fmt.Errorf("failed to get transaction %s: %w", hash, err)
		case err != nil:
			l.log.Debug("transient error while polling", "hash", hash, "error", err)
		case info.Status == models.TransactionStatusSuccess:
			l.log.Debug("transaction succeeded", "hash", hash, "ledger", info.Ledger, "waited", time.Since(start))
			return info, nil
		case info.Status == models.TransactionStatusFailed:
			return info, domain.RevertError{
				Hash:        hash,
				Status:      string(info.Status),
				ResultXDR:   info.ResultXDR,
				Diagnostics: info.DiagnosticEventsXDR,
			}
		}

		if !time.Now().Before(deadline) {
			return nil, domain.TimeoutError{Hash: hash, Waited: time.Since(start).Round(time.Millisecond)}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func shortHash(hash string) string {
	if len(hash) <= 12 {
		return hash
	}
	return hash[:6] + "..." + hash[len(hash)-4:]
}
