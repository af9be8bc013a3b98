package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/briandowns/spinner"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

func TestSpinnerProgressReporter(t *testing.T) {
	var out bytes.Buffer
	r := newSpinnerProgressReporter(&out, spinner.WithWriter(&out))
	ctx := context.Background()

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: "install", Message: "Installing vault", Spinner: true})
	assert.Equal(t, " Installing vault", r.spinner.Suffix)

	r.Info("registry saved")
	assert.Contains(t, out.String(), "registry saved")

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: "done", Message: "all done"})
	assert.False(t, r.spinner.Active())
	assert.Contains(t, out.String(), "all done")

	r.Stop()
	assert.False(t, r.spinner.Active())
}

func TestNewReporter(t *testing.T) {
	_, ok := NewReporter(&config.RuntimeConfig{JSON: true}).(*NopSink)
	assert.True(t, ok)

	_, ok = NewReporter(&config.RuntimeConfig{NonInteractive: true}).(*NopSink)
	assert.True(t, ok)
}
