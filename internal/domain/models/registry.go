package models

import (
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
)

// DeploymentState is the lifecycle position of a contract name
type DeploymentState string

const (
	StateNotInstalled DeploymentState = "not_installed"
	StateInstalled    DeploymentState = "installed"
	StateDeployed     DeploymentState = "deployed"
	StateInitialized  DeploymentState = "initialized"
	// StateForeign marks an address-only entry for a contract the pipeline does not build
	StateForeign DeploymentState = "foreign"
)

// Registry is the per-network address book: contract name to deployed id and
// installed wasm hash. It is the only durable record of pipeline progress.
type Registry struct {
	Network     domain.NetworkName `json:"-"`
	IDs         map[string]string  `json:"ids"`
	Hashes      map[string]string  `json:"hashes"`
	Initialized map[string]bool    `json:"initialized,omitempty"`
}

// NewRegistry creates an empty registry for a network
func NewRegistry(network domain.NetworkName) *Registry {
	return &Registry{
		Network: network,
		IDs:     make(map[string]string),
		Hashes:  make(map[string]string),
	}
}

// GetContractID returns the deployed contract id for name
func (r *Registry) GetContractID(name string) (string, error) {
	id, ok := r.IDs[name]
	if !ok || id == "" {
		return "", domain.NotFoundError{Network: string(r.Network), Name: name, Field: "contractId"}
	}
	return id, nil
}

// GetWasmHash returns the installed wasm hash for name
func (r *Registry) GetWasmHash(name string) (string, error) {
	hash, ok := r.Hashes[name]
	if !ok || hash == "" {
		return "", domain.NotFoundError{Network: string(r.Network), Name: name, Field: "wasmHash"}
	}
	return hash, nil
}

func (r *Registry) SetContractID(name, id string) {
	if r.IDs == nil {
		r.IDs = make(map[string]string)
	}
	r.IDs[name] = id
}

func (r *Registry) SetWasmHash(name, hash string) {
	if r.Hashes == nil {
		r.Hashes = make(map[string]string)
	}
	r.Hashes[name] = hash
}

// MarkInitialized records that the first state-setting call on name succeeded
func (r *Registry) MarkInitialized(name string) {
	if r.Initialized == nil {
		r.Initialized = make(map[string]bool)
	}
	r.Initialized[name] = true
}

func (r *Registry) IsInitialized(name string) bool {
	return r.Initialized[name]
}

// State derives the lifecycle state of name from its entry
func (r *Registry) State(name string) DeploymentState {
	_, hasHash := r.Hashes[name]
	_, hasID := r.IDs[name]
	switch {
	case hasID && r.Initialized[name]:
		return StateInitialized
	case hasID && !hasHash:
		return StateForeign
	case hasID:
		return StateDeployed
	case hasHash:
		return StateInstalled
	default:
		return StateNotInstalled
	}
}

// Names returns every name that has an id or a hash, sorted
func (r *Registry) Names() []string {
	names := lo.Union(lo.Keys(r.IDs), lo.Keys(r.Hashes))
	sort.Strings(names)
	return names
}

// Clone returns a deep copy
func (r *Registry) Clone() *Registry {
	clone := &Registry{
		Network: r.Network,
		IDs:     make(map[string]string, len(r.IDs)),
		Hashes:  make(map[string]string, len(r.Hashes)),
	}
	for k, v := range r.IDs {
		clone.IDs[k] = v
	}
	for k, v := range r.Hashes {
		clone.Hashes[k] = v
	}
	if len(r.Initialized) > 0 {
		clone.Initialized = make(map[string]bool, len(r.Initialized))
		for k, v := range r.Initialized {
			clone.Initialized[k] = v
		}
	}
	return clone
}
