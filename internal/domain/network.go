package domain

import (
	"fmt"
	"strings"
)

// NetworkName is one of the networks the pipeline can target
type NetworkName string

const (
	Standalone NetworkName = "standalone"
	Testnet    NetworkName = "testnet"
	Mainnet    NetworkName = "mainnet"
)

// KnownNetworks lists every supported network in display order
var KnownNetworks = []NetworkName{Standalone, Testnet, Mainnet}

// ParseNetworkName validates a network argument.
func ParseNetworkName(s string) (NetworkName, error) {
	name := NetworkName(strings.ToLower(strings.TrimSpace(s)))
	switch name {
	case Standalone, Testnet, Mainnet:
		return name, nil
	case "":
		return "", fmt.Errorf("%w: network is required (one of standalone, testnet, mainnet)", ErrConfig)
	default:
		return "", fmt.Errorf("%w: unknown network '%s' (expected standalone, testnet or mainnet)", ErrConfig, s)
	}
}

// IsProduction reports whether the network holds real value.
func (n NetworkName) IsProduction() bool {
	return n == Mainnet
}

func (n NetworkName) String() string {
	return string(n)
}
