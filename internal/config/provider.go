package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	if err := loadEnvFiles(projectRoot); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfig, err)
	}

	file, err := loadProjectFile(projectRoot)
	if err != nil {
		return nil, err
	}
	project := resolveProjectConfig(projectRoot, file)

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		RegistryDir:    project.RegistryDir,
		WasmDir:        project.WasmDir,
		StellarBin:     project.StellarBin,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		RunID:          uuid.NewString(),
		ConfigSource:   "defaults",
		Project:        project,
		Lifecycle: config.LifecycleConfig{
			MaxAttempts:    v.GetInt("max_attempts"),
			InitialBackoff: v.GetDuration("backoff_initial"),
			MaxBackoff:     v.GetDuration("backoff_max"),
			PollInterval:   v.GetDuration("poll_interval"),
			PollTimeout:    v.GetDuration("poll_timeout"),
		},
		RPC: config.RPCConfig{
			RequestTimeout:    v.GetDuration("rpc_timeout"),
			RequestsPerSecond: v.GetFloat64("rpc_rps"),
			Burst:             v.GetInt("rpc_burst"),
		},
	}
	if file != nil {
		cfg.ConfigSource = ProjectFileName
	}

	// Flags and env win over the project file
	if dir := v.GetString("registry_dir"); dir != "" {
		cfg.RegistryDir = absPath(projectRoot, dir)
	}
	if dir := v.GetString("wasm_dir"); dir != "" {
		cfg.WasmDir = absPath(projectRoot, dir)
	}
	if bin := v.GetString("stellar_bin"); bin != "" {
		cfg.StellarBin = bin
	}

	if cfg.Lifecycle.MaxAttempts < 1 {
		return nil, fmt.Errorf("%w: max_attempts must be at least 1, got %d", domain.ErrConfig, cfg.Lifecycle.MaxAttempts)
	}
	if cfg.Lifecycle.PollInterval <= 0 || cfg.Lifecycle.PollTimeout <= 0 {
		return nil, fmt.Errorf("%w: poll_interval and poll_timeout must be positive", domain.ErrConfig)
	}

	networkName, err := domain.ParseNetworkName(v.GetString("network"))
	if err != nil {
		return nil, err
	}
	network, err := NewNetworkResolver(projectRoot, file).Resolve(networkName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
	}
	cfg.Network = network

	return cfg, nil
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("TREB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	defaults := config.DefaultLifecycleConfig()

	// Set defaults
	v.SetDefault("network", string(domain.Standalone))
	v.SetDefault("timeout", "10m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("json", false)
	v.SetDefault("project_root", projectRoot)
	v.SetDefault("max_attempts", defaults.MaxAttempts)
	v.SetDefault("backoff_initial", defaults.InitialBackoff)
	v.SetDefault("backoff_max", defaults.MaxBackoff)
	v.SetDefault("poll_interval", defaults.PollInterval)
	v.SetDefault("poll_timeout", defaults.PollTimeout)
	v.SetDefault("rpc_timeout", "30s")
	v.SetDefault("rpc_rps", 10.0)
	v.SetDefault("rpc_burst", 5)

	// Flags are declared with dashes; viper keys use underscores
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		if err != nil {
			panic(err)
		}
	})

	return v
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) (*NetworkResolver, error) {
	file, err := loadProjectFile(cfg.ProjectRoot)
	if err != nil {
		return nil, err
	}
	return NewNetworkResolver(cfg.ProjectRoot, file), nil
}

// RegistryPath returns the address book file for a network
func RegistryPath(registryDir string, network domain.NetworkName) string {
	return filepath.Join(registryDir, string(network)+".contracts.json")
}
