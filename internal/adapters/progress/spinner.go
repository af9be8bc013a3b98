package progress

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// SpinnerProgressReporter shows a spinner while transactions are in flight
type SpinnerProgressReporter struct {
	spinner *spinner.Spinner
	out     io.Writer
}

// NewSpinnerProgressReporter creates a spinner writing to stderr
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr, spinner.WithWriterFile(os.Stderr))
}

func newSpinnerProgressReporter(w io.Writer, opts ...spinner.Option) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, opts...)
	s.HideCursor = false

	return &SpinnerProgressReporter{spinner: s, out: w}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if !event.Spinner {
		r.Stop()
		if event.Message != "" {
			color.New(color.FgWhite).Fprintln(r.out, event.Message)
		}
		return
	}

	r.spinner.Suffix = " " + event.Message
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.pause(func() {
		color.New(color.FgCyan).Fprintln(r.out, message)
	})
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.pause(func() {
		color.New(color.FgRed).Fprintln(r.out, message)
	})
}

// Stop clears the spinner line
func (r *SpinnerProgressReporter) Stop() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// pause stops the spinner around fn and restarts it if it was running
func (r *SpinnerProgressReporter) pause(fn func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	fn()

	if wasActive {
		r.spinner.Start()
	}
}

var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
