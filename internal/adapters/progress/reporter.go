package progress

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// Reporter is a progress sink the CLI stops once a command returns
type Reporter interface {
	usecase.ProgressSink
	Stop()
}

// NewReporter picks the spinner for interactive terminals and discards
// progress otherwise, so JSON output stays machine readable.
func NewReporter(cfg *config.RuntimeConfig) Reporter {
	if cfg.JSON || cfg.NonInteractive || !isatty.IsTerminal(os.Stderr.Fd()) {
		return NewNopSink()
	}
	return NewSpinnerProgressReporter()
}
