package registry

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/pders01/modeldrift/internal/models"
)

// Manifest is a registry exported by the running application
type Manifest struct {
	Records []models.RecordDescriptor `yaml:"records"`
	Methods []models.MethodDescriptor `yaml:"methods"`
}

// LoadManifest reads a YAML (or JSON) registry manifest
func LoadManifest(fs afero.Fs, path string) (*Registry, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse registry manifest: %w", err)
	}

	reg := New()
	for _, rec := range manifest.Records {
		if rec.Fields == nil {
			rec.Fields = []models.Field{}
		}
		if err := reg.Register(rec); err != nil {
			return nil, err
		}
	}
	for _, m := range manifest.Methods {
		if err := reg.RegisterMethod(m); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
