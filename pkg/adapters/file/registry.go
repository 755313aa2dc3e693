package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/blend/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// RegistryFile represents the structure of inputs.yaml.
//
//	inputs:
//	  - id: i1
//	    name: Sugar
//	    kind: input
type RegistryFile struct {
	Inputs []map[string]any `yaml:"inputs" json:"inputs"`
}

// Registry implements ports.Registry by reading a YAML or JSON file on every call,
// so edits to the file are picked up without a restart.
type Registry struct {
	Path string
}

// NewRegistry creates a file-backed registry.
func NewRegistry(path string) *Registry {
	return &Registry{Path: path}
}

// Identifiers reads the registry file. A missing file is an empty registry.
func (r *Registry) Identifiers(ctx context.Context) ([]domain.Identifier, error) {
	return LoadRegistry(r.Path)
}

// LoadRegistry reads a registry file (YAML or JSON) and returns its identifiers in file order.
// Entries without an id or name are skipped; a missing kind defaults to domain.KindInput.
func LoadRegistry(path string) ([]domain.Identifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Identifier{}, nil
		}
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	var file RegistryFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse registry json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse registry yaml: %w", err)
		}
	}

	ids := make([]domain.Identifier, 0, len(file.Inputs))
	for i, raw := range file.Inputs {
		var id domain.Identifier
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &id,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(raw); err != nil {
			return nil, fmt.Errorf("registry entry %d: %w", i, err)
		}
		if id.ID == "" || strings.TrimSpace(id.Name) == "" {
			continue
		}
		if id.Kind == "" {
			id.Kind = domain.KindInput
		}
		ids = append(ids, id)
	}
	return ids, nil
}
