package config

import (
	"fmt"
	"strings"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
)

// Signer is a signing identity handed to the stellar CLI: either a secret
// seed (S...) or the name of a stellar CLI identity.
type Signer struct {
	Name   string
	Source string
}

// IsSecret reports whether the signer is a raw secret seed
func (s Signer) IsSecret() bool {
	return strings.HasPrefix(s.Source, "S") && len(s.Source) == 56
}

// Redacted is safe to log
func (s Signer) Redacted() string {
	if s.IsSecret() {
		return fmt.Sprintf("%s(S...%s)", s.Name, s.Source[len(s.Source)-4:])
	}
	return fmt.Sprintf("%s(%s)", s.Name, s.Source)
}

// StrategyConfig holds per-network defaults used by the strategy resolver
type StrategyConfig struct {
	FixedAprBps   uint32 `toml:"fixed_apr_bps"`
	BlendRegistry string `toml:"blend_registry"` // key into Network.External
	BlendPoolKey  string `toml:"blend_pool_key"`
	BlendTokenKey string `toml:"blend_token_key"`
}

// Network is the resolved configuration for one network.
// It is immutable for the lifetime of the process.
type Network struct {
	Name         domain.NetworkName
	Passphrase   string
	RPCURL       string
	FriendbotURL string
	Admin        Signer
	Signers      map[string]Signer
	External     map[string]string // external registry name -> file path
	Assets       map[string]string // asset symbol -> registry key
	Strategies   StrategyConfig
}

// Signer returns a named signer; "admin" and "" resolve to the admin key
func (n *Network) Signer(name string) (Signer, error) {
	if name == "" || name == "admin" {
		if n.Admin.Source == "" {
			return Signer{}, fmt.Errorf("%w: no admin signer configured for %s", domain.ErrConfig, n.Name)
		}
		return n.Admin, nil
	}
	signer, ok := n.Signers[name]
	if !ok || signer.Source == "" {
		return Signer{}, fmt.Errorf("%w: signer '%s' not configured for %s", domain.ErrConfig, name, n.Name)
	}
	return signer, nil
}

// AssetKey maps an asset symbol to the local registry entry holding its address
func (n *Network) AssetKey(symbol string) string {
	symbol = strings.ToLower(strings.TrimSpace(symbol))
	if key, ok := n.Assets[symbol]; ok {
		return key
	}
	return symbol
}
