// Package inventory loads the methods inventory, a YAML document that
// describes every method the application is expected to expose.
package inventory

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/pders01/modeldrift/internal/models"
)

// Tiers of method integration
const (
	TierInternal = "internal"
	TierExternal = "external"
	TierHybrid   = "hybrid"
)

// ModelRefs names the request and response records of a method
type ModelRefs struct {
	Request  string `yaml:"request,omitempty" json:"request,omitempty"`
	Response string `yaml:"response,omitempty" json:"response,omitempty"`
}

// Implementation locates the code that serves a method
type Implementation struct {
	Class  string `yaml:"class,omitempty" json:"class,omitempty"`
	Method string `yaml:"method,omitempty" json:"method,omitempty"`
	Module string `yaml:"module,omitempty" json:"module,omitempty"`
}

// Method is one inventory entry
type Method struct {
	Name           string                `yaml:"-" json:"name" validate:"required"`
	Description    string                `yaml:"description,omitempty" json:"description,omitempty"`
	Version        string                `yaml:"version,omitempty" json:"version,omitempty"`
	Classification models.Classification `yaml:"classification,omitempty" json:"classification"`
	Models         ModelRefs             `yaml:"models,omitempty" json:"models"`
	Implementation Implementation        `yaml:"implementation,omitempty" json:"implementation"`
}

// Tier returns the integration tier of the method
func (m *Method) Tier() string {
	return m.Classification.IntegrationTier
}

// Inventory is the ordered set of inventory methods
type Inventory struct {
	Methods []Method
}

// Method returns the entry with the given name
func (inv *Inventory) Method(name string) (*Method, bool) {
	for i := range inv.Methods {
		if inv.Methods[i].Name == name {
			return &inv.Methods[i], true
		}
	}
	return nil, false
}

// Load reads and validates an inventory file
func Load(fs afero.Fs, path string) (*Inventory, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}
	return Parse(data)
}

// Parse decodes an inventory: a mapping of method name to entry,
// optionally nested under a top-level "methods" key. Document order is
// kept.
func Parse(data []byte) (*Inventory, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse inventory: %w", err)
	}
	inv := &Inventory{}
	if len(doc.Content) == 0 {
		return inv, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("failed to parse inventory: expected a mapping of methods")
	}
	if len(root.Content) == 2 && root.Content[0].Value == "methods" && root.Content[1].Kind == yaml.MappingNode {
		root = root.Content[1]
	}

	validate := validator.New()
	for i := 0; i+1 < len(root.Content); i += 2 {
		var m Method
		if err := root.Content[i+1].Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to parse inventory method %q: %w", root.Content[i].Value, err)
		}
		m.Name = root.Content[i].Value
		if err := validate.Struct(m); err != nil {
			return nil, fmt.Errorf("invalid inventory method %q: %w", m.Name, err)
		}
		inv.Methods = append(inv.Methods, m)
	}
	return inv, nil
}
