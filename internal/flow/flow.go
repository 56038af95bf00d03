// Package flow checks that the output of each method in a chain can feed
// the request of the next one.
package flow

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pders01/modeldrift/internal/models"
	"github.com/pders01/modeldrift/internal/registry"
)

// ErrMethodNotFound is returned when a chain names an unregistered method
var ErrMethodNotFound = errors.New("method not found in registry")

// NoModels is reported as a missing field when either side of a step has
// no record attached
const NoModels = "Model classes not available in registry"

// Status of a single field mapping
type Status string

const (
	Compatible   Status = "compatible"
	Incompatible Status = "incompatible"
	Missing      Status = "missing"
	Optional     Status = "optional"
)

// FieldMapping pairs a source response field with a target request field
type FieldMapping struct {
	SourceField string `json:"source_field"`
	TargetField string `json:"target_field"`
	SourceType  string `json:"source_type"`
	TargetType  string `json:"target_type"`
	Status      Status `json:"status"`
	Notes       string `json:"notes,omitempty"`
}

// Step is the validation of one adjacent pair in the chain
type Step struct {
	Index         int            `json:"step"`
	SourceMethod  string         `json:"source_method"`
	TargetMethod  string         `json:"target_method"`
	SourceModel   string         `json:"source_model"`
	TargetModel   string         `json:"target_model"`
	Compatible    []FieldMapping `json:"compatible_fields"`
	Incompatible  []FieldMapping `json:"incompatible_fields"`
	MissingFields []string       `json:"missing_required_fields"`
	ExtraFields   []string       `json:"extra_fields"`
}

// Valid reports whether every required target field is satisfied
func (s *Step) Valid() bool {
	return len(s.MissingFields) == 0 && len(s.Incompatible) == 0
}

// Score is the share of checked fields that are compatible
func (s *Step) Score() float64 {
	total := len(s.Compatible) + len(s.Incompatible) + len(s.MissingFields)
	if total == 0 {
		return 1.0
	}
	return float64(len(s.Compatible)) / float64(total)
}

// Result is the validation of a whole chain
type Result struct {
	Methods []string `json:"workflow"`
	Steps   []Step   `json:"steps"`
}

// Valid reports whether all steps are valid
func (r *Result) Valid() bool {
	for i := range r.Steps {
		if !r.Steps[i].Valid() {
			return false
		}
	}
	return true
}

// Score is the mean step score
func (r *Result) Score() float64 {
	if len(r.Steps) == 0 {
		return 1.0
	}
	var sum float64
	for i := range r.Steps {
		sum += r.Steps[i].Score()
	}
	return sum / float64(len(r.Steps))
}

var qualified = regexp.MustCompile(`(?:[A-Za-z_]\w*\.)+([A-Za-z_]\w*)`)

// NormalizeType strips module paths and quotes from a type annotation
func NormalizeType(t string) string {
	t = strings.NewReplacer("'", "", `"`, "").Replace(t)
	return qualified.ReplaceAllString(t, "$1")
}

// TypesCompatible reports whether a source value of one type may feed a
// target declared with the other
func TypesCompatible(source, target string) bool {
	s := NormalizeType(source)
	t := NormalizeType(target)
	switch {
	case s == t:
		return true
	case strings.Contains(t, "Optional") && strings.Contains(t, s):
		return true
	case hasPrefixFold(s, "list") && hasPrefixFold(t, "list"):
		return true
	case hasPrefixFold(s, "dict") && hasPrefixFold(t, "dict"):
		return true
	}
	return false
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// Validator resolves methods and records for chain validation
type Validator struct {
	Methods registry.MethodSource
	Records registry.Provider
}

// New returns a validator over the given sources
func New(methods registry.MethodSource, records registry.Provider) *Validator {
	return &Validator{Methods: methods, Records: records}
}

// Chain validates every adjacent pair of the named methods
func (v *Validator) Chain(ctx context.Context, names []string) (*Result, error) {
	methods, err := v.Methods.ListMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list methods: %w", err)
	}
	records, err := v.Records.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	byMethod := make(map[string]models.MethodDescriptor, len(methods))
	for _, m := range methods {
		byMethod[m.Name] = m
	}
	byRecord := make(map[string]*models.RecordDescriptor, len(records))
	for i := range records {
		byRecord[records[i].Name] = &records[i]
	}

	res := &Result{Methods: names, Steps: []Step{}}
	for i := 0; i+1 < len(names); i++ {
		src, ok := byMethod[names[i]]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, names[i])
		}
		dst, ok := byMethod[names[i+1]]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, names[i+1])
		}
		step := validateStep(src, dst, byRecord)
		step.Index = i + 1
		res.Steps = append(res.Steps, step)
	}
	return res, nil
}

func validateStep(src, dst models.MethodDescriptor, records map[string]*models.RecordDescriptor) Step {
	step := Step{
		SourceMethod:  src.Name,
		TargetMethod:  dst.Name,
		SourceModel:   "Unknown",
		TargetModel:   "Unknown",
		Compatible:    []FieldMapping{},
		Incompatible:  []FieldMapping{},
		MissingFields: []string{},
		ExtraFields:   []string{},
	}

	out := records[src.ResponseModel]
	in := records[dst.RequestModel]
	if out != nil {
		step.SourceModel = out.Name
	}
	if in != nil {
		step.TargetModel = in.Name
	}
	if out == nil || in == nil {
		step.MissingFields = append(step.MissingFields, NoModels)
		return step
	}

	for _, f := range in.Fields {
		if !f.Required {
			continue
		}
		sf, ok := out.FieldByName(f.Name)
		if !ok {
			step.MissingFields = append(step.MissingFields, f.Name)
			continue
		}
		m := FieldMapping{
			SourceField: sf.Name,
			TargetField: f.Name,
			SourceType:  sf.Type,
			TargetType:  f.Type,
		}
		if TypesCompatible(sf.Type, f.Type) {
			m.Status = Compatible
			step.Compatible = append(step.Compatible, m)
		} else {
			m.Status = Incompatible
			m.Notes = fmt.Sprintf("Type mismatch: %s → %s", sf.Type, f.Type)
			step.Incompatible = append(step.Incompatible, m)
		}
	}

	for _, f := range out.Fields {
		if _, ok := in.FieldByName(f.Name); !ok {
			step.ExtraFields = append(step.ExtraFields, f.Name)
		}
	}
	return step
}
