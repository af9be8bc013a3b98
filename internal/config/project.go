package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
)

// ProjectFileName is the per-project configuration file
const ProjectFileName = "treb-soroban.toml"

// FindProjectRoot walks up from the current directory to find treb-soroban.toml.
// Without one, the current directory is the project root.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// loadProjectFile parses treb-soroban.toml. Returns (nil, nil) when it does not exist.
func loadProjectFile(projectRoot string) (*config.ProjectFile, error) {
	path := filepath.Join(projectRoot, ProjectFileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var file config.ProjectFile
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %w", domain.ErrConfig, ProjectFileName, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q in %s", domain.ErrConfig, undecoded[0].String(), ProjectFileName)
	}

	for name := range file.Networks {
		if _, err := domain.ParseNetworkName(name); err != nil {
			return nil, fmt.Errorf("invalid [networks.%s] in %s: %w", name, ProjectFileName, err)
		}
	}

	return &file, nil
}

// resolveProjectConfig fills project paths from the file and defaults and makes
// them absolute relative to the project root.
func resolveProjectConfig(projectRoot string, file *config.ProjectFile) *config.ProjectConfig {
	cfg := config.DefaultProjectConfig()
	if file != nil {
		if file.Project.RegistryDir != "" {
			cfg.RegistryDir = file.Project.RegistryDir
		}
		if file.Project.WasmDir != "" {
			cfg.WasmDir = file.Project.WasmDir
		}
		if file.Project.StellarBin != "" {
			cfg.StellarBin = file.Project.StellarBin
		}
	}

	cfg.RegistryDir = absPath(projectRoot, cfg.RegistryDir)
	cfg.WasmDir = absPath(projectRoot, cfg.WasmDir)
	return &cfg
}

func absPath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
