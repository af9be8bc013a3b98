package config

import (
	"time"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	RegistryDir string // holds <network>.contracts.json
	WasmDir     string // build output holding <name>.wasm
	StellarBin  string

	// Active network, always resolved before use cases run
	Network *Network

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool
	Timeout        time.Duration
	RunID          string

	Lifecycle LifecycleConfig
	RPC       RPCConfig

	// Config source tracking ("treb-soroban.toml" or "defaults")
	ConfigSource string
	Project      *ProjectConfig
}

// LifecycleConfig bounds retries and polling
type LifecycleConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	PollInterval   time.Duration
	PollTimeout    time.Duration
}

// RPCConfig tunes the JSON-RPC client
type RPCConfig struct {
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	Burst             int
}

// DefaultLifecycleConfig returns the settings used when nothing is configured
func DefaultLifecycleConfig() LifecycleConfig {
	return LifecycleConfig{
		MaxAttempts:    5,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
		PollInterval:   time.Second,
		PollTimeout:    60 * time.Second,
	}
}

// IsProduction reports whether the active network holds real value
func (c *RuntimeConfig) IsProduction() bool {
	return c.Network != nil && c.Network.Name == domain.Mainnet
}
