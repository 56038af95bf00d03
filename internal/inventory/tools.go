package inventory

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/pders01/modeldrift/internal/models"
)

// Tool definition issue codes
const (
	IssueToolParse          = "parse_error"
	IssueToolNoMethod       = "missing_method_reference"
	IssueToolNotInInventory = "method_not_in_inventory"
	IssueToolClassification = "classification_mismatch"
	IssueToolImplementation = "implementation_mismatch"
	IssueToolVersion        = "version_mismatch"
)

// Tool statuses
const (
	ToolValid   = "valid"
	ToolWarning = "warning"
	ToolError   = "error"
)

// toolClassificationKeys are compared between a tool and its method
var toolClassificationKeys = []string{"domain", "subdomain", "capability", "integration_tier"}

// MethodRef points a tool definition at an inventory method
type MethodRef struct {
	Service        string                `yaml:"service,omitempty"`
	Method         string                `yaml:"method,omitempty"`
	Classification models.Classification `yaml:"classification,omitempty"`
}

// Contracts are the records a tool exchanges
type Contracts struct {
	RequestModel  string `yaml:"request_model,omitempty"`
	ResponseModel string `yaml:"response_model,omitempty"`
}

// Tool is one tool definition file: a generated wrapper around an
// inventory method
type Tool struct {
	Name           string    `yaml:"name" validate:"required"`
	Version        string    `yaml:"version,omitempty"`
	MethodRef      MethodRef `yaml:"method_reference"`
	DataContracts  Contracts `yaml:"data_contracts,omitempty"`
	Implementation struct {
		MethodWrapper struct {
			MethodName string `yaml:"method_name,omitempty"`
		} `yaml:"method_wrapper,omitempty"`
	} `yaml:"implementation,omitempty"`
}

// ToolIssue is one discrepancy between a tool and the inventory
type ToolIssue struct {
	Type      string `json:"type"`
	Field     string `json:"field,omitempty"`
	Tool      string `json:"tool,omitempty"`
	Inventory string `json:"inventory,omitempty"`
	Message   string `json:"message"`
}

// ToolCheck is the outcome for one tool file
type ToolCheck struct {
	Tool   string      `json:"tool"`
	File   string      `json:"file"`
	Status string      `json:"status"`
	Issues []ToolIssue `json:"issues"`
}

// ToolResult groups tool checks by status
type ToolResult struct {
	Valid    []ToolCheck `json:"valid"`
	Warnings []ToolCheck `json:"warnings"`
	Errors   []ToolCheck `json:"errors"`
	Summary  Summary     `json:"summary"`
}

// OK reports whether every tool resolved to an inventory method
func (r *ToolResult) OK() bool {
	return len(r.Errors) == 0
}

// ToolFiles returns the tool definitions at path: the file itself, or
// every .yaml file of the directory in name order
func ToolFiles(fs afero.Fs, path string) ([]string, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat tools: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := afero.Glob(fs, filepath.Join(path, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// LoadTool reads and validates one tool definition
func LoadTool(fs afero.Fs, path string) (*Tool, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool: %w", err)
	}
	var t Tool
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse tool: %w", err)
	}
	if err := validator.New().Struct(t); err != nil {
		return nil, fmt.Errorf("invalid tool: %w", err)
	}
	return &t, nil
}

// ValidateTools checks every tool file against the inventory. Files that
// cannot be loaded are errors, like tools whose method the inventory
// lacks; contract, classification and implementation mismatches are
// warnings; a version difference is noted but leaves the tool valid.
func ValidateTools(fs afero.Fs, inv *Inventory, files []string) *ToolResult {
	res := &ToolResult{Valid: []ToolCheck{}, Warnings: []ToolCheck{}, Errors: []ToolCheck{}}
	for _, file := range files {
		var check ToolCheck
		t, err := LoadTool(fs, file)
		if err != nil {
			check = ToolCheck{Tool: file, File: file, Status: ToolError, Issues: []ToolIssue{{
				Type: IssueToolParse, Message: err.Error(),
			}}}
		} else {
			check = CheckTool(t, file, inv)
		}
		switch check.Status {
		case ToolValid:
			res.Valid = append(res.Valid, check)
		case ToolWarning:
			res.Warnings = append(res.Warnings, check)
		default:
			res.Errors = append(res.Errors, check)
		}
	}
	res.Summary = Summary{
		Valid:    len(res.Valid),
		Warnings: len(res.Warnings),
		Errors:   len(res.Errors),
		Total:    len(files),
	}
	return res
}

// CheckTool compares one tool definition with its inventory method
func CheckTool(t *Tool, file string, inv *Inventory) ToolCheck {
	check := ToolCheck{Tool: t.Name, File: file, Status: ToolValid, Issues: []ToolIssue{}}
	warn := func(issue ToolIssue) {
		check.Status = ToolWarning
		check.Issues = append(check.Issues, issue)
	}

	name := t.MethodRef.Method
	if name == "" {
		check.Status = ToolError
		check.Issues = append(check.Issues, ToolIssue{
			Type:    IssueToolNoMethod,
			Message: "Tool YAML missing method_reference.method",
		})
		return check
	}
	m, ok := inv.Method(name)
	if !ok {
		check.Status = ToolError
		check.Issues = append(check.Issues, ToolIssue{
			Type:    IssueToolNotInInventory,
			Tool:    name,
			Message: fmt.Sprintf("Method '%s' not found in inventory", name),
		})
		return check
	}

	for _, ref := range []struct{ issue, label, tool, inv string }{
		{IssueRequestMismatch, "Request", t.DataContracts.RequestModel, m.Models.Request},
		{IssueResponseMismatch, "Response", t.DataContracts.ResponseModel, m.Models.Response},
	} {
		if ref.tool != "" && ref.inv != "" && ref.tool != ref.inv {
			warn(ToolIssue{
				Type:      ref.issue,
				Tool:      ref.tool,
				Inventory: ref.inv,
				Message:   fmt.Sprintf("%s model mismatch: %s != %s", ref.label, ref.tool, ref.inv),
			})
		}
	}

	for _, key := range toolClassificationKeys {
		got, want := t.MethodRef.Classification.Get(key), m.Classification.Get(key)
		if got != "" && want != "" && got != want {
			warn(ToolIssue{
				Type:      IssueToolClassification,
				Field:     key,
				Tool:      got,
				Inventory: want,
				Message:   fmt.Sprintf("Classification.%s mismatch: %s != %s", key, got, want),
			})
		}
	}

	wrapper := t.Implementation.MethodWrapper.MethodName
	if m.Implementation.Class != "" && m.Implementation.Method != "" && wrapper != "" {
		want := m.Implementation.Class + "." + m.Implementation.Method
		if wrapper != want {
			warn(ToolIssue{
				Type:      IssueToolImplementation,
				Tool:      wrapper,
				Inventory: want,
				Message:   fmt.Sprintf("Implementation mismatch: %s != %s", wrapper, want),
			})
		}
	}

	if t.Version != "" && m.Version != "" && t.Version != m.Version {
		check.Issues = append(check.Issues, ToolIssue{
			Type:      IssueToolVersion,
			Tool:      t.Version,
			Inventory: m.Version,
			Message:   fmt.Sprintf("Version mismatch (informational): %s != %s", t.Version, m.Version),
		})
	}
	return check
}
