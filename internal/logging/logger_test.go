package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
)

func TestNewLoggerCarriesRunContext(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.RuntimeConfig{
		RunID:   "run-123",
		JSON:    true,
		Debug:   true,
		Network: &config.Network{Name: domain.Testnet},
	}

	newLogger(&buf, cfg).Debug("installed", "name", "vault")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "run-123", record["run_id"])
	assert.Equal(t, "testnet", record["network"])
	assert.Equal(t, "vault", record["name"])
}

func TestNewLoggerDefaultLevelHidesInfo(t *testing.T) {
	t.Setenv("TREB_LOG_LEVEL", "")
	var buf bytes.Buffer

	logger := newLogger(&buf, &config.RuntimeConfig{RunID: "r"})
	logger.Info("quiet")
	assert.Empty(t, buf.String())

	logger.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
	assert.NotContains(t, buf.String(), "time=")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG", slog.LevelWarn))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning", slog.LevelInfo))
	assert.Equal(t, slog.LevelError, parseLevel("bogus", slog.LevelError))
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/lifecycle.go", shortPath("/home/u/src/treb-soroban/internal/usecase/lifecycle.go"))
	assert.Equal(t, "main.go", shortPath("/tmp/x/main.go"))
}
