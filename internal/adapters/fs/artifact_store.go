package fs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
)

var wasmMagic = []byte{0x00, 'a', 's', 'm'}

// ArtifactStore resolves compiled contracts from the wasm build directory
type ArtifactStore struct {
	wasmDir string
}

// NewArtifactStore creates a store reading <wasmDir>/<name>.wasm
func NewArtifactStore(wasmDir string) *ArtifactStore {
	return &ArtifactStore{wasmDir: wasmDir}
}

// NewArtifactStoreAdapter creates the store for the configured build directory
func NewArtifactStoreAdapter(cfg *config.RuntimeConfig) *ArtifactStore {
	return NewArtifactStore(cfg.WasmDir)
}

// Resolve reads the artifact for name and computes its wasm hash.
// Cargo writes dashes in crate names as underscores, so both spellings are tried.
func (s *ArtifactStore) Resolve(_ context.Context, name string) (*models.Artifact, error) {
	candidates := []string{name}
	if alt := strings.ReplaceAll(name, "-", "_"); alt != name {
		candidates = append(candidates, alt)
	}

	for _, candidate := range candidates {
		path := filepath.Join(s.wasmDir, candidate+".wasm")
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read %s: %v", domain.ErrFile, path, err)
		}
		if !bytes.HasPrefix(data, wasmMagic) {
			return nil, fmt.Errorf("%w: %s is not a wasm module", domain.ErrFile, path)
		}

		sum := sha256.Sum256(data)
		return &models.Artifact{
			Name: name,
			Path: path,
			Hash: hex.EncodeToString(sum[:]),
			Size: int64(len(data)),
		}, nil
	}

	return nil, fmt.Errorf("%w: artifact %s.wasm not found in %s (run the contract build first)",
		domain.ErrFile, name, s.wasmDir)
}

var _ usecase.ArtifactStore = (*ArtifactStore)(nil)
