package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
)

// envVarPattern matches ${VAR_NAME} patterns in TOML values
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// DetectEnvVar checks if a raw TOML value is a simple ${VAR_NAME} reference.
// Returns the variable name and true if the value is a pure env var reference.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// expandValue expands environment references in a config value. A value that is
// exactly ${VAR} with VAR unset expands to "" and reports the variable name so
// callers can produce a useful error only when the value is actually needed.
func expandValue(raw string) (value string, missing string) {
	if name, ok := DetectEnvVar(raw); ok {
		if _, set := os.LookupEnv(name); !set {
			return "", name
		}
	}
	return os.ExpandEnv(raw), ""
}

// loadEnvFiles loads .env and .env.local from the project root. Values already
// present in the environment win.
func loadEnvFiles(projectRoot string) error {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", filepath.Base(envFile), err)
		}
	}
	return nil
}
