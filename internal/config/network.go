package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
)

// NetworkResolver resolves network names to configurations by layering the
// project file over the built-in defaults.
type NetworkResolver struct {
	projectRoot string
	file        *config.ProjectFile
}

// NewNetworkResolver creates a new network resolver. file may be nil.
func NewNetworkResolver(projectRoot string, file *config.ProjectFile) *NetworkResolver {
	return &NetworkResolver{
		projectRoot: projectRoot,
		file:        file,
	}
}

// Names returns every network that can be resolved
func (r *NetworkResolver) Names() []domain.NetworkName {
	return append([]domain.NetworkName(nil), domain.KnownNetworks...)
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(name domain.NetworkName) (*config.Network, error) {
	raw := builtinNetwork(name)
	if r.file != nil {
		if override, ok := r.file.Networks[string(name)]; ok {
			raw = mergeNetwork(raw, override)
		}
	}

	network := &config.Network{
		Name:       name,
		Signers:    make(map[string]config.Signer),
		External:   make(map[string]string),
		Assets:     make(map[string]string),
		Strategies: raw.Strategies,
	}

	var missing string
	network.Passphrase, missing = expandValue(raw.Passphrase)
	if missing != "" || network.Passphrase == "" {
		return nil, fmt.Errorf("%w: network %s has no passphrase%s", domain.ErrConfig, name, unsetHint(missing))
	}

	network.RPCURL, missing = expandValue(raw.RPCURL)
	if network.RPCURL == "" {
		network.RPCURL = os.Getenv(GenerateEnvVarName(string(name)))
	}
	if network.RPCURL == "" {
		return nil, fmt.Errorf("%w: network %s has no rpc_url (set it in %s or %s)%s",
			domain.ErrConfig, name, ProjectFileName, GenerateEnvVarName(string(name)), unsetHint(missing))
	}

	network.FriendbotURL, _ = expandValue(raw.FriendbotURL)

	// Signers resolve lazily: a missing secret only fails the command that needs it.
	admin, _ := expandValue(raw.Admin)
	network.Admin = config.Signer{Name: "admin", Source: admin}
	for signerName, source := range raw.Signers {
		value, _ := expandValue(source)
		network.Signers[signerName] = config.Signer{Name: signerName, Source: value}
	}

	for registryName, path := range raw.External {
		value, _ := expandValue(path)
		network.External[registryName] = absPath(r.projectRoot, value)
	}

	for symbol, key := range raw.Assets {
		network.Assets[strings.ToLower(symbol)] = key
	}

	return network, nil
}

// GenerateEnvVarName generates the conventional env var holding a network's RPC URL.
// Examples: testnet -> TESTNET_RPC_URL, mainnet -> MAINNET_RPC_URL
func GenerateEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

func unsetHint(missing string) string {
	if missing == "" {
		return ""
	}
	return fmt.Sprintf(": ${%s} is not set", missing)
}

func builtinNetwork(name domain.NetworkName) config.NetworkFileConfig {
	raw := config.NetworkFileConfig{
		Admin:   "${ADMIN_SECRET_KEY}",
		Signers: map[string]string{},
		External: map[string]string{
			"blend": filepath.Join(".soroban", "blend", string(name)+".contracts.json"),
		},
		Assets: map[string]string{
			"usdc": "soroswap_usdc",
			"xlm":  "xlm",
		},
		Strategies: config.StrategyConfig{
			FixedAprBps:   1000,
			BlendRegistry: "blend",
			BlendPoolKey:  "TestnetV2",
			BlendTokenKey: "BLND",
		},
	}

	switch name {
	case domain.Standalone:
		raw.Passphrase = "Standalone Network ; February 2017"
		raw.RPCURL = "http://localhost:8000/rpc"
		raw.FriendbotURL = "http://localhost:8000/friendbot"
	case domain.Testnet:
		raw.Passphrase = "Test SDF Network ; September 2015"
		raw.RPCURL = "https://soroban-testnet.stellar.org"
		raw.FriendbotURL = "https://friendbot.stellar.org"
	case domain.Mainnet:
		raw.Passphrase = "Public Global Stellar Network ; September 2015"
	}
	return raw
}

// mergeNetwork overlays non-empty values from the project file onto base
func mergeNetwork(base, override config.NetworkFileConfig) config.NetworkFileConfig {
	if override.Passphrase != "" {
		base.Passphrase = override.Passphrase
	}
	if override.RPCURL != "" {
		base.RPCURL = override.RPCURL
	}
	if override.FriendbotURL != "" {
		base.FriendbotURL = override.FriendbotURL
	}
	if override.Admin != "" {
		base.Admin = override.Admin
	}
	for k, v := range override.Signers {
		base.Signers[k] = v
	}
	for k, v := range override.External {
		base.External[k] = v
	}
	for k, v := range override.Assets {
		base.Assets[strings.ToLower(k)] = v
	}

	s := override.Strategies
	if s.FixedAprBps != 0 {
		base.Strategies.FixedAprBps = s.FixedAprBps
	}
	if s.BlendRegistry != "" {
		base.Strategies.BlendRegistry = s.BlendRegistry
	}
	if s.BlendPoolKey != "" {
		base.Strategies.BlendPoolKey = s.BlendPoolKey
	}
	if s.BlendTokenKey != "" {
		base.Strategies.BlendTokenKey = s.BlendTokenKey
	}
	return base
}
