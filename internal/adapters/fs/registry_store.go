package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/trebuchet-org/treb-soroban/internal/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
	domainconfig "github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

// RegistryStore persists one <network>.contracts.json file per network.
// Files whose content did not change since Load are written back with their
// original bytes, so hand-formatted files keep their layout.
type RegistryStore struct {
	baseDir string

	mu     sync.Mutex
	loaded map[string]loadedFile
}

// loadedFile pairs the bytes read from disk with their canonical encoding
type loadedFile struct {
	raw       []byte
	canonical []byte
}

// NewRegistryStore creates a store rooted at baseDir
func NewRegistryStore(baseDir string) *RegistryStore {
	return &RegistryStore{baseDir: baseDir, loaded: make(map[string]loadedFile)}
}

// NewRegistryStoreAdapter creates the store for the configured registry directory
func NewRegistryStoreAdapter(cfg *domainconfig.RuntimeConfig) *RegistryStore {
	return NewRegistryStore(cfg.RegistryDir)
}

// Path returns the file backing network
func (s *RegistryStore) Path(network domain.NetworkName) string {
	return config.RegistryPath(s.baseDir, network)
}

// Load reads the registry for network. A missing file yields an empty registry.
func (s *RegistryStore) Load(_ context.Context, network domain.NetworkName) (*models.Registry, error) {
	path := s.Path(network)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.NewRegistry(network), nil
		}
		return nil, fmt.Errorf("%w: failed to read registry %s: %v", domain.ErrFile, path, err)
	}

	reg, err := decodeRegistry(data, true)
	if err != nil {
		return nil, fmt.Errorf("%w: registry %s: %v", domain.ErrParse, path, err)
	}
	reg.Network = network

	if canonical, err := encodeRegistry(reg); err == nil {
		s.remember(path, data, canonical)
	}
	return reg, nil
}

func (s *RegistryStore) remember(path string, raw, canonical []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded[path] = loadedFile{raw: raw, canonical: canonical}
}

// unchanged returns the original bytes of path when data matches what was loaded
func (s *RegistryStore) unchanged(path string, data []byte) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, ok := s.loaded[path]
	if !ok || !bytes.Equal(file.canonical, data) {
		return nil, false
	}
	return file.raw, true
}

// LoadExternal reads a registry maintained by another project. Unknown
// fields are ignored and a missing file yields an empty registry.
func (s *RegistryStore) LoadExternal(_ context.Context, path string, network domain.NetworkName) (*models.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.NewRegistry(network), nil
		}
		return nil, fmt.Errorf("%w: failed to read external registry %s: %v", domain.ErrFile, path, err)
	}

	reg, err := decodeRegistry(data, false)
	if err != nil {
		return nil, fmt.Errorf("%w: external registry %s: %v", domain.ErrParse, path, err)
	}
	reg.Network = network
	return reg, nil
}

// Save replaces the network's file atomically: write a sibling .tmp file,
// fsync it, then rename it over the target.
func (s *RegistryStore) Save(_ context.Context, reg *models.Registry) error {
	if reg.Network == "" {
		return fmt.Errorf("%w: registry has no network", domain.ErrConfig)
	}

	data, err := encodeRegistry(reg)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal registry: %v", domain.ErrFile, err)
	}

	path := s.Path(reg.Network)
	out := data
	if raw, ok := s.unchanged(path, data); ok {
		out = raw
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: failed to create registry directory: %v", domain.ErrFile, err)
	}

	if err := writeFileAtomic(path, out); err != nil {
		return fmt.Errorf("%w: failed to write registry %s: %v", domain.ErrFile, path, err)
	}
	s.remember(path, out, data)
	return nil
}

func decodeRegistry(data []byte, strict bool) (*models.Registry, error) {
	var reg models.Registry
	dec := json.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&reg); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after registry object")
	}

	if reg.IDs == nil {
		reg.IDs = make(map[string]string)
	}
	if reg.Hashes == nil {
		reg.Hashes = make(map[string]string)
	}
	return &reg, nil
}

// encodeRegistry renders the canonical form: two-space indent, keys sorted,
// trailing newline.
func encodeRegistry(reg *models.Registry) ([]byte, error) {
	out := reg
	if out.IDs == nil || out.Hashes == nil {
		out = reg.Clone()
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func writeFileAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

var _ usecase.RegistryRepository = (*RegistryStore)(nil)
