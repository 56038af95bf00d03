package models

// Severity grades a breaking change
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// BreakingChangeKind names the breaking change categories
type BreakingChangeKind string

const (
	ModelRemoved       BreakingChangeKind = "model_removed"
	RequiredFieldAdded BreakingChangeKind = "required_field_added"
	FieldRemoved       BreakingChangeKind = "field_removed"
	FieldTypeChanged   BreakingChangeKind = "field_type_changed"
)

// BreakingChange is one change that may break consumers of a record
type BreakingChange struct {
	Type     BreakingChangeKind `json:"type" yaml:"type"`
	Model    string             `json:"model" yaml:"model"`
	Field    string             `json:"field,omitempty" yaml:"field,omitempty"`
	OldType  string             `json:"old_type,omitempty" yaml:"old_type,omitempty"`
	NewType  string             `json:"new_type,omitempty" yaml:"new_type,omitempty"`
	Severity Severity           `json:"severity" yaml:"severity"`
}

// ChangeSet is the structural delta between two snapshots
type ChangeSet struct {
	ModelsAdded     []string            `json:"models_added" yaml:"models_added"`
	ModelsRemoved   []string            `json:"models_removed" yaml:"models_removed"`
	ModelsModified  []string            `json:"models_modified" yaml:"models_modified"`
	FieldsAdded     map[string][]string `json:"fields_added" yaml:"fields_added"`
	FieldsRemoved   map[string][]string `json:"fields_removed" yaml:"fields_removed"`
	FieldsModified  map[string][]string `json:"fields_modified" yaml:"fields_modified"`
	BreakingChanges []BreakingChange    `json:"breaking_changes" yaml:"breaking_changes"`
}

// NewChangeSet returns an empty change set with non-nil collections
func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		ModelsAdded:     []string{},
		ModelsRemoved:   []string{},
		ModelsModified:  []string{},
		FieldsAdded:     map[string][]string{},
		FieldsRemoved:   map[string][]string{},
		FieldsModified:  map[string][]string{},
		BreakingChanges: []BreakingChange{},
	}
}

// IsEmpty reports whether nothing changed
func (c *ChangeSet) IsEmpty() bool {
	return len(c.ModelsAdded) == 0 && len(c.ModelsRemoved) == 0 &&
		len(c.ModelsModified) == 0 && len(c.BreakingChanges) == 0
}

// HasBreaking reports whether any breaking change was found
func (c *ChangeSet) HasBreaking() bool {
	return len(c.BreakingChanges) > 0
}
