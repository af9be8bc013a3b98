package plan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/treb-soroban/internal/domain"
	"github.com/trebuchet-org/treb-soroban/internal/domain/models"
	"github.com/trebuchet-org/treb-soroban/internal/usecase"
	"gopkg.in/yaml.v3"
)

// Parser reads deployment plans from YAML files
type Parser struct{}

// NewParser creates a new plan parser
func NewParser() *Parser {
	return &Parser{}
}

// Load parses and validates the plan at path
func (p *Parser) Load(_ context.Context, path string) (*models.PlanConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve plan path: %v", domain.ErrFile, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: plan file not found: %s", domain.ErrFile, absPath)
		}
		return nil, fmt.Errorf("%w: failed to read plan file: %v", domain.ErrFile, err)
	}

	return p.Parse(data)
}

// Parse decodes a plan from YAML data. Unknown keys are rejected so that a
// misspelled "deps" or "init" does not silently change the run.
func (p *Parser) Parse(data []byte) (*models.PlanConfig, error) {
	var config models.PlanConfig

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: plan file is empty", domain.ErrParse)
		}
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", domain.ErrParse, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid plan: %v", domain.ErrConfig, err)
	}

	return &config, nil
}

var _ usecase.PlanLoader = (*Parser)(nil)
